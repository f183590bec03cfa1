// Package api exposes pages, cards, tags and plugin routes over HTTP.
//
// Authentication uses bearer JWTs issued by the login endpoint. The token's
// subject names the tenant, and handlers resolve that tenant's store through
// the tenant router on each request. Plugin route hooks are mounted under
// /api/plugins/{id} and share the same resolver, so plugin handlers never see
// another tenant's data.
package api

// Package config handles configuration loading for benotes.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file with environment variable
// expansion, then overridden by BENOTES_* environment variables. A missing
// file is not an error: every setting except auth.jwt_secret has a default,
// and the secret is only required by the serve command (ValidateServe).
//
// # Configuration File
//
// Location (in order):
//
//  1. Path from BENOTES_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/benotes/config.yaml
//  3. ~/.config/benotes/config.yaml
//
// Files ending in .toml are parsed as TOML; anything else is YAML.
//
// # Environment
//
// A .env file in the working directory is loaded before parsing. Values can
// reference variables:
//
//	auth:
//	  jwt_secret: "${BENOTES_SECRET}"
//
// These variables override the file when set:
//
//	BENOTES_DATA_ROOT   data.root
//	BENOTES_HTTP_ADDR   server.http_addr
//	BENOTES_JWT_SECRET  auth.jwt_secret
//	BENOTES_LOG_LEVEL   logging.level
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  token_ttl: "24h"
//	rate_limit:
//	  window: "1m"
//
// # Example
//
//	server:
//	  http_addr: "127.0.0.1:8080"
//	  shutdown_timeout: "10s"
//	  trust_proxy: false  # true only behind a proxy that sets X-Forwarded-For
//
//	data:
//	  root: "./data"
//
//	auth:
//	  jwt_secret: "${BENOTES_SECRET}"
//	  token_ttl: "24h"
//	  allow_registration: true
//
//	logging:
//	  level: "info"     # debug, info, warn, error
//	  format: "text"    # text, json
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
//
//	rate_limit:
//	  auth_requests: 10
//	  window: "1m"
//
//	debug:
//	  allow_reset: false
//	  admins: []
package config

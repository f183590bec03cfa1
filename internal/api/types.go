// ABOUTME: JSON request and response shapes for the HTTP API
// ABOUTME: Converts store records into wire types with snake_case fields

package api

import (
	"encoding/json"
	"time"

	"github.com/2389/benotes/internal/plugins"
	"github.com/2389/benotes/internal/store"
)

// PageResponse is the wire form of a page.
type PageResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	ParentID  *string   `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPageResponse(p *store.Page) PageResponse {
	return PageResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		ParentID:  p.ParentID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPageResponses(pages []*store.Page) []PageResponse {
	out := make([]PageResponse, len(pages))
	for i, p := range pages {
		out[i] = toPageResponse(p)
	}
	return out
}

// CardResponse is the wire form of a card.
type CardResponse struct {
	ID        string          `json:"id"`
	PageID    *string         `json:"page_id"`
	Type      string          `json:"type"`
	Plugin    string          `json:"plugin"`
	Content   json.RawMessage `json:"content"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
}

func toCardResponse(c *store.Card) CardResponse {
	return CardResponse{
		ID:        c.ID,
		PageID:    c.PageID,
		Type:      c.Type,
		Plugin:    c.Plugin,
		Content:   c.Content,
		Metadata:  c.Metadata,
		CreatedAt: c.CreatedAt,
	}
}

// TagResponse is the wire form of a tag.
type TagResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// UserResponse is the public view of a user. The password hash never leaves the server.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *store.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// PluginResponse describes a registered plugin to the editor.
type PluginResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Tables      []string           `json:"tables"`
	CardTypes   []string           `json:"card_types"`
	Nodes       []plugins.NodeType `json:"nodes"`
	HasRoutes   bool               `json:"has_routes"`
}

func toPluginResponse(p *plugins.Plugin) PluginResponse {
	tables := make([]string, len(p.Tables))
	for i, t := range p.Tables {
		tables[i] = t.Name
	}
	cardTypes := p.CardTypes
	if cardTypes == nil {
		cardTypes = []string{}
	}
	nodes := p.Nodes
	if nodes == nil {
		nodes = []plugins.NodeType{}
	}
	return PluginResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Tables:      tables,
		CardTypes:   cardTypes,
		Nodes:       nodes,
		HasRoutes:   p.Routes != nil,
	}
}

package entity

import "time"

// ChatMessage is one prior turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "customer" or "assistant"
	Content string `json:"content"`
}

// CatalogProduct is a raw product listing handed in by the inbound pipeline.
// Used only for the catalog fallback when embedding retrieval is unavailable.
type CatalogProduct struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          float64   `json:"price,omitempty"`
	InStock        bool      `json:"in_stock"`
	PriceUpdatedAt time.Time `json:"price_updated_at,omitzero"`
}

// CatalogDoc is a raw knowledge-base listing for the same fallback path.
type CatalogDoc struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

// GenerationContext is everything the inbound-message pipeline supplies for
// one decision.
type GenerationContext struct {
	TenantID       string           `json:"tenant_id"`
	Message        string           `json:"message"`
	History        []ChatMessage    `json:"history,omitempty"`
	Products       []CatalogProduct `json:"products,omitempty"`
	Docs           []CatalogDoc     `json:"docs,omitempty"`
	CustomerMemory string           `json:"customer_memory,omitempty"`
	Filter         ChunkFilter      `json:"filter,omitempty"`
}

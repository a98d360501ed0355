package entity

// SourceType distinguishes product chunks from knowledge-doc chunks.
type SourceType string

const (
	SourceProduct SourceType = "product"
	SourceDoc     SourceType = "doc"
)

// StoredChunk is a pre-embedded slice of product or knowledge-base text as
// held by the chunk store, scoped to one tenant.
//
// Well-known metadata keys: "price" (numeric string), "stock"
// ("in_stock"/"out_of_stock"), "price_version" (RFC3339), "category", "sku",
// "intent".
type StoredChunk struct {
	ID         string            `json:"id"`
	TenantID   string            `json:"tenant_id"`
	Type       SourceType        `json:"type"`
	Title      string            `json:"title"`
	Text       string            `json:"text"`
	Vector     []float32         `json:"vector"`
	ChunkIndex int               `json:"chunk_index"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Critical   bool              `json:"critical,omitempty"`
}

// ChunkFilter narrows retrieval to a category, SKU or intent hint.
// Zero values mean "no filter".
type ChunkFilter struct {
	Category string `json:"category,omitempty"`
	SKU      string `json:"sku,omitempty"`
	Intent   Intent `json:"intent,omitempty"`
}

// Matches reports whether a chunk passes the filter. Filters only apply to
// chunks that carry the corresponding metadata key.
func (f ChunkFilter) Matches(c StoredChunk) bool {
	if f.Category != "" {
		if v, ok := c.Metadata["category"]; ok && v != f.Category {
			return false
		}
	}
	if f.SKU != "" {
		if v, ok := c.Metadata["sku"]; ok && v != f.SKU {
			return false
		}
	}
	if f.Intent != "" {
		if v, ok := c.Metadata["intent"]; ok && v != string(f.Intent) {
			return false
		}
	}
	return true
}

// RetrievedChunk is one ranked retrieval hit. Immutable, lives for one
// retrieval call.
type RetrievedChunk struct {
	Text       string            `json:"text"`
	Similarity float64           `json:"similarity"`
	Type       SourceType        `json:"type"`
	SourceID   string            `json:"source_id"`
	Title      string            `json:"title"`
	ChunkIndex int               `json:"chunk_index"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Critical   bool              `json:"critical,omitempty"`
}

// RetrievalResult is the ranked evidence for one query.
// DocChunks is non-empty only when UsedDocFallback is set, i.e. when the best
// product similarity fell below the retrieval confidence threshold.
type RetrievalResult struct {
	Chunks               []RetrievedChunk `json:"chunks"`
	ProductChunks        []RetrievedChunk `json:"product_chunks"`
	DocChunks            []RetrievedChunk `json:"doc_chunks"`
	UsedDocFallback      bool             `json:"used_doc_fallback"`
	TopProductSimilarity float64          `json:"top_product_similarity"`
	TopDocSimilarity     float64          `json:"top_doc_similarity"`

	// Degraded marks that embedding or the chunk store was unavailable and
	// the empty result stands in for evidence, not for a genuine no-match.
	Degraded bool `json:"degraded,omitempty"`
}

// UsedSource is the normalized evidence record attached to a decision and
// shown to operators during approval.
type UsedSource struct {
	Type       SourceType `json:"type"`
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Quote      string     `json:"quote"`
	Similarity float64    `json:"similarity,omitempty"`
}

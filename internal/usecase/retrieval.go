package usecase

import (
	"context"
	"log"
	"math"
	"sort"

	"replygate-core/internal/domain/entity"
	"replygate-core/internal/domain/repository"
)

// RetrievalConfig holds the retrieval thresholds. The defaults are
// product-tuned starting points, not derived values; zero fields are replaced
// by the defaults.
type RetrievalConfig struct {
	MinSimilarity       float64
	ConfidenceThreshold float64
	ProductTopK         int
	DocTopK             int
}

const (
	defaultMinSimilarity       = 0.5
	defaultConfidenceThreshold = 0.7
	defaultProductTopK         = 5
	defaultDocTopK             = 3
)

func (c RetrievalConfig) normalized() RetrievalConfig {
	if c.MinSimilarity == 0 {
		c.MinSimilarity = defaultMinSimilarity
	}
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = defaultConfidenceThreshold
	}
	if c.ProductTopK == 0 {
		c.ProductTopK = defaultProductTopK
	}
	if c.DocTopK == 0 {
		c.DocTopK = defaultDocTopK
	}
	return c
}

// RetrievalEngine ranks a tenant's chunks against a query by cosine
// similarity, products first, with knowledge docs pulled in only when product
// confidence is low.
type RetrievalEngine struct {
	embedder repository.Embedder
	chunks   repository.ChunkStore
	cfg      RetrievalConfig
}

func NewRetrievalEngine(embedder repository.Embedder, chunks repository.ChunkStore, cfg RetrievalConfig) *RetrievalEngine {
	return &RetrievalEngine{
		embedder: embedder,
		chunks:   chunks,
		cfg:      cfg.normalized(),
	}
}

// Retrieve embeds the query and ranks the tenant's chunks. A provider outage
// is not an error path: it yields an empty, degraded result that the penalty
// rules downstream know how to handle.
func (e *RetrievalEngine) Retrieve(ctx context.Context, tenantID, query string, filter entity.ChunkFilter) *entity.RetrievalResult {
	vector, err := e.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		log.Printf("[RETRIEVAL] embedding failed for tenant %s, continuing without evidence: %v", tenantID, err)
		return &entity.RetrievalResult{Degraded: true}
	}

	stored, err := e.chunks.ListByTenant(ctx, tenantID, filter)
	if err != nil {
		log.Printf("[RETRIEVAL] chunk store unavailable for tenant %s, continuing without evidence: %v", tenantID, err)
		return &entity.RetrievalResult{Degraded: true}
	}

	var products, docs []entity.RetrievedChunk
	for _, chunk := range stored {
		sim := cosineSimilarity(vector, chunk.Vector)
		if sim < e.cfg.MinSimilarity {
			continue
		}
		hit := entity.RetrievedChunk{
			Text:       chunk.Text,
			Similarity: sim,
			Type:       chunk.Type,
			SourceID:   chunk.ID,
			Title:      chunk.Title,
			ChunkIndex: chunk.ChunkIndex,
			Metadata:   chunk.Metadata,
			Critical:   chunk.Critical,
		}
		if chunk.Type == entity.SourceDoc {
			docs = append(docs, hit)
		} else {
			products = append(products, hit)
		}
	}

	sortBySimilarity(products)
	sortBySimilarity(docs)
	products = truncateHits(products, e.cfg.ProductTopK)

	result := &entity.RetrievalResult{
		ProductChunks: products,
	}
	if len(products) > 0 {
		result.TopProductSimilarity = products[0].Similarity
	}

	// Two-tier fallback: docs join the evidence only when product data does
	// not confidently answer the question.
	if result.TopProductSimilarity < e.cfg.ConfidenceThreshold && len(docs) > 0 {
		docs = truncateHits(docs, e.cfg.DocTopK)
		result.DocChunks = docs
		result.UsedDocFallback = true
		result.TopDocSimilarity = docs[0].Similarity
	}

	result.Chunks = append(append([]entity.RetrievedChunk{}, result.ProductChunks...), result.DocChunks...)
	return result
}

func sortBySimilarity(hits []entity.RetrievedChunk) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
}

func truncateHits(hits []entity.RetrievedChunk, k int) []entity.RetrievedChunk {
	if len(hits) > k {
		return hits[:k]
	}
	return hits
}

// cosineSimilarity is dot(a,b)/(‖a‖·‖b‖). Dimension mismatch and zero-norm
// vectors score 0: treated as no match, never an error.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

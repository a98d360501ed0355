package usecase

import (
	"fmt"
	"strconv"
	"time"

	"replygate-core/internal/domain/entity"
)

const (
	sourcePreviewLen       = 200
	stalenessWindow        = 24 * time.Hour
	lowSimilarityThreshold = 0.5

	// Approximated similarity band for catalog-synthesized sources.
	synthSimilarityTop   = 0.95
	synthSimilarityFloor = 0.80
)

// SourceSet is the aggregated evidence for one decision: the normalized
// sources plus the risk flags the penalty rules consume.
type SourceSet struct {
	Sources       []entity.UsedSource
	MaxSimilarity float64
	Conflicts     bool
	HasStaleData  bool
	LowSimilarity bool
	PriceFound    bool
	StockFound    bool
}

// AggregateSources converts ranked chunks into used sources, collecting price
// and stock evidence and flagging staleness and cross-source price conflicts.
func AggregateSources(res *entity.RetrievalResult, now time.Time) SourceSet {
	var set SourceSet
	if res == nil {
		return set
	}

	seenPrices := map[string]struct{}{}
	for _, chunk := range res.Chunks {
		set.Sources = append(set.Sources, entity.UsedSource{
			Type:       chunk.Type,
			ID:         chunk.SourceID,
			Title:      chunk.Title,
			Quote:      truncatePreview(chunk.Text),
			Similarity: chunk.Similarity,
		})
		if chunk.Similarity > set.MaxSimilarity {
			set.MaxSimilarity = chunk.Similarity
		}

		if raw, ok := chunk.Metadata["price"]; ok {
			if price, err := strconv.ParseFloat(raw, 64); err == nil {
				set.PriceFound = true
				seenPrices[fmt.Sprintf("%.2f", price)] = struct{}{}
			}
		}
		if _, ok := chunk.Metadata["stock"]; ok {
			set.StockFound = true
		}
		if raw, ok := chunk.Metadata["price_version"]; ok {
			if version, err := time.Parse(time.RFC3339, raw); err == nil {
				if now.Sub(version) > stalenessWindow {
					set.HasStaleData = true
				}
			}
		}
	}

	set.Conflicts = len(seenPrices) > 1
	set.LowSimilarity = len(set.Sources) > 0 && set.MaxSimilarity < lowSimilarityThreshold
	return set
}

// SynthesizeSources builds evidence straight from the raw catalog listings
// when embedding retrieval is unavailable, so the pipeline degrades instead
// of failing. Similarity is approximated with a deterministic per-rank ramp.
func SynthesizeSources(gc entity.GenerationContext, now time.Time) SourceSet {
	var set SourceSet
	total := len(gc.Products) + len(gc.Docs)
	if total == 0 {
		return set
	}

	seenPrices := map[string]struct{}{}
	rank := 0
	for _, p := range gc.Products {
		set.Sources = append(set.Sources, entity.UsedSource{
			Type:       entity.SourceProduct,
			ID:         p.ID,
			Title:      p.Title,
			Quote:      truncatePreview(p.Description),
			Similarity: synthSimilarity(rank, total),
		})
		rank++
		if p.Price > 0 {
			set.PriceFound = true
			seenPrices[fmt.Sprintf("%.2f", p.Price)] = struct{}{}
		}
		set.StockFound = true
		if !p.PriceUpdatedAt.IsZero() && now.Sub(p.PriceUpdatedAt) > stalenessWindow {
			set.HasStaleData = true
		}
	}
	for _, d := range gc.Docs {
		set.Sources = append(set.Sources, entity.UsedSource{
			Type:       entity.SourceDoc,
			ID:         d.ID,
			Title:      d.Title,
			Quote:      truncatePreview(d.Excerpt),
			Similarity: synthSimilarity(rank, total),
		})
		rank++
	}

	set.Conflicts = len(seenPrices) > 1
	set.MaxSimilarity = set.Sources[0].Similarity
	return set
}

// synthSimilarity spreads ranks over [0.80, 0.95], best first. Deterministic
// so repeated calls stay idempotent.
func synthSimilarity(rank, total int) float64 {
	if total <= 1 {
		return synthSimilarityTop
	}
	step := (synthSimilarityTop - synthSimilarityFloor) / float64(total-1)
	return synthSimilarityTop - step*float64(rank)
}

func truncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= sourcePreviewLen {
		return text
	}
	return string(runes[:sourcePreviewLen])
}

// Package rank implements cosine-similarity ranking of corpus passages
// against a query embedding. It is a full scan over the candidate set; the
// corpus sizes this service targets are thousands of passages, so no index
// structure is maintained in-process.
package rank

import (
	"math"
	"sort"

	"github.com/habib-lab/habib/pkg/domain/model"
)

// CosineSimilarity returns the cosine similarity between two vectors in
// [-1, 1]. It returns 0 when the vectors differ in length or either has a
// zero norm, so callers never see NaN.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}

// Rank scores every candidate with an embedding against the query vector and
// returns at most k results, best score first. Ties keep the original
// candidate order. An empty candidate set yields an empty result.
func Rank(query []float32, candidates []*model.Passage, k int) []model.ScoredPassage {
	scored := make([]model.ScoredPassage, 0, len(candidates))
	for _, p := range candidates {
		if len(p.Embedding) == 0 {
			continue
		}
		scored = append(scored, model.ScoredPassage{
			Text:  p.Text,
			Score: CosineSimilarity(query, p.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k >= 0 && len(scored) > k {
		scored = scored[:k]
	}

	return scored
}

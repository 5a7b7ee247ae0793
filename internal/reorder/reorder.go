// Package reorder permutes retrieved documents so the most relevant ones sit
// at both ends of the eventual prompt. Long-context models attend worst to
// the middle of the window, so the weakest matches go there.
package reorder

import "contract-rag/internal/models"

// LongContext reorders a similarity-ranked list: rank 0 lands at index 0,
// rank 1 at the last index, rank 2 at index 1, and so on inward. The result
// is always a permutation of the input; nothing is dropped or added.
func LongContext(ranked []models.Document) []models.Document {
	out := make([]models.Document, len(ranked))
	left, right := 0, len(ranked)-1
	for i, doc := range ranked {
		if i%2 == 0 {
			out[left] = doc
			left++
		} else {
			out[right] = doc
			right--
		}
	}
	return out
}

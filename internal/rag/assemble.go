package rag

import (
	"fmt"
	"math"
	"strings"
)

// AssembleContext renders retrieved passages into the textual context
// block fed to the prompt template. One line per passage:
//
//	<Reference>: <text> [Relevance: NN%]
//
// Input order is preserved; the caller supplies passages already
// sorted by relevance. When budget > 0 caps the block size in bytes,
// passages are dropped from the tail (lowest relevance) first, never
// from the head.
func AssembleContext(retrieved []RetrievedPassage, budget int) string {
	lines := make([]string, 0, len(retrieved))
	total := 0
	for _, r := range retrieved {
		line := fmt.Sprintf("%s: %s [Relevance: %d%%]",
			r.Passage.Reference, r.Passage.Text, relevancePercent(r.Relevance))
		if budget > 0 && total+len(line)+1 > budget && len(lines) > 0 {
			break
		}
		lines = append(lines, line)
		total += len(line) + 1
	}
	return strings.Join(lines, "\n")
}

func relevancePercent(relevance float64) int {
	return int(math.Round(relevance * 100))
}

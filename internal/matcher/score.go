package matcher

import (
	"strings"

	"github.com/desertthunder/playcap/internal/models"
	"github.com/desertthunder/playcap/internal/textnorm"
)

// Score rates how well a candidate matches a scraped artist and title.
//
//	+2 titles equal or one contains the other
//	+2 artist contained in the candidate's joined artists, or the reverse
//	+1 first word of the title appears in the candidate title
//	+1 second word of the title appears in the candidate title
func Score(artist, title string, c models.Candidate) int {
	qa, qt := textnorm.NormForMatch(artist), textnorm.NormForMatch(title)
	ca, ct := textnorm.NormForMatch(c.Artists()), textnorm.NormForMatch(c.Title)

	score := 0
	if overlaps(qt, ct) {
		score += 2
	}
	if overlaps(qa, ca) {
		score += 2
	}

	tokens := strings.Fields(qt)
	for i := 0; i < len(tokens) && i < 2; i++ {
		if strings.Contains(ct, tokens[i]) {
			score++
		}
	}
	return score
}

// overlaps reports equality or containment either way. Empty strings never overlap.
func overlaps(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Best returns the highest scoring candidate. Ties go to the earlier candidate.
//
// The score is -1 when there are no candidates.
func Best(artist, title string, candidates []models.Candidate) (models.Candidate, int) {
	var best models.Candidate
	bestScore := -1
	for _, c := range candidates {
		if s := Score(artist, title, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, bestScore
}

package subjects

import "strings"

var (
	photographyKeywords = []string{
		"photo", "photography", "camera", "lens", "exposure", "aperture", "iso",
		"composition", "lighting", "portrait", "landscape",
	}
	filmKeywords = []string{
		"film", "cinema", "director", "directing", "movie", "screenplay",
		"cinematography", "editing", "production", "script",
	}
	mathematicsKeywords = []string{
		"math", "mathematics", "algebra", "calculus", "geometry", "statistics",
		"equation", "formula", "theorem", "proof", "integral", "derivative",
	}
)

func score(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

// Detect guesses the subject of a question by counting keyword substrings.
//
// Photography must strictly beat both other scores; otherwise film wins over
// mathematics on a strict comparison, and mathematics needs at least one hit.
// Media is never detected, it can only be requested explicitly.
func Detect(question string) Subject {
	text := strings.ToLower(question)

	photo := score(text, photographyKeywords)
	film := score(text, filmKeywords)
	math := score(text, mathematicsKeywords)

	switch {
	case photo > film && photo > math:
		return Photography
	case film > math:
		return FilmDirecting
	case math > 0:
		return Mathematics
	default:
		return Default
	}
}

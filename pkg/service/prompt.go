package service

import (
	"fmt"
	"strings"

	"github.com/go-go-golems/scholar/pkg/client"
	"github.com/go-go-golems/scholar/pkg/subjects"
)

const basePrompt = `You are an educational assistant specializing in providing factual, unbiased information for Year 11 and Year 12 students. Your role is to:

1. Provide accurate, educational content appropriate for senior high school level
2. Always maintain objectivity and avoid bias
3. Reference trusted university sources when possible
4. Explain concepts clearly and progressively
5. Encourage critical thinking and deeper understanding

`

var subjectPrompts = map[subjects.Subject]string{
	subjects.Photography: `You are particularly knowledgeable about:
- Photography techniques and composition
- Camera settings and equipment
- History of photography
- Visual storytelling and artistic expression
- Technical aspects of image creation`,
	subjects.FilmDirecting: `You are particularly knowledgeable about:
- Film directing techniques and theory
- Cinematography and visual storytelling
- Film history and analysis
- Production processes and workflows
- Media studies and criticism`,
	subjects.Mathematics: `You are particularly knowledgeable about:
- Mathematical concepts and problem-solving
- Algebra, calculus, and geometry
- Statistical analysis and data interpretation
- Mathematical proofs and reasoning
- Real-world applications of mathematics`,
}

const genericPrompt = "You provide comprehensive educational support across multiple subjects."

// SystemPrompt builds the system message for a question about s, listing the
// sources the answer may cite.
func SystemPrompt(s subjects.Subject, sources []client.SourceRecord) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	if p, ok := subjectPrompts[s]; ok {
		b.WriteString(p)
	} else {
		b.WriteString(genericPrompt)
	}
	b.WriteString("\n\nRefer to these trusted university sources when relevant:\n")
	for _, src := range sources {
		fmt.Fprintf(&b, "- %s (%s): %s\n", src.Name, src.Department, src.URL)
	}
	b.WriteString("\n\nAlways cite sources when referencing specific information from universities.")
	return b.String()
}

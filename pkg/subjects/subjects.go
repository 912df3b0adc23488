// Package subjects holds the fixed set of study subjects the answering service
// knows about, together with the static display tables used by the presentation
// layer.
//
// Unknown subject values are kept as-is (the service may add subjects before the
// client learns about them) but every lookup falls back to the Default entry.
package subjects

import "strings"

type Subject string

const (
	Photography   Subject = "photography"
	FilmDirecting Subject = "film_directing"
	Media         Subject = "media"
	Mathematics   Subject = "mathematics"
	Default       Subject = "default"
)

// All lists the known subjects in display order, Default last.
var All = []Subject{Photography, FilmDirecting, Media, Mathematics, Default}

type entry struct {
	name string
	icon string
}

var table = map[Subject]entry{
	Photography:   {name: "Photography", icon: "📷"},
	FilmDirecting: {name: "Film Directing", icon: "🎬"},
	Media:         {name: "Media Studies", icon: "📺"},
	Mathematics:   {name: "Mathematics", icon: "📐"},
	Default:       {name: "General Studies", icon: "📚"},
}

// Parse normalizes a wire value. The empty string maps to Default.
func Parse(s string) Subject {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Default
	}
	return Subject(s)
}

func (s Subject) Known() bool {
	_, ok := table[s]
	return ok
}

func (s Subject) lookup() entry {
	if e, ok := table[s]; ok {
		return e
	}
	return table[Default]
}

// DisplayName returns the human readable label, falling back to Default's.
func (s Subject) DisplayName() string {
	return s.lookup().name
}

// Icon returns the glyph shown next to the subject, falling back to Default's.
func (s Subject) Icon() string {
	return s.lookup().icon
}

func (s Subject) String() string {
	return string(s)
}

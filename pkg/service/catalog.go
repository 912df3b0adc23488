package service

import (
	"strings"

	"github.com/go-go-golems/scholar/pkg/client"
	"github.com/go-go-golems/scholar/pkg/subjects"
)

// ModelConfig names the model answering questions of one subject.
type ModelConfig struct {
	Provider string
	Model    string
}

func (m ModelConfig) String() string {
	return m.Provider + "/" + m.Model
}

var models = map[subjects.Subject]ModelConfig{
	subjects.Photography:   {Provider: "anthropic", Model: "claude-sonnet-4-20250514"},
	subjects.FilmDirecting: {Provider: "gemini", Model: "gemini-2.0-flash"},
	subjects.Media:         {Provider: "gemini", Model: "gemini-2.0-flash"},
	subjects.Mathematics:   {Provider: "openai", Model: "gpt-4o"},
	subjects.Default:       {Provider: "openai", Model: "gpt-4o"},
}

// ModelFor returns the model configured for s, falling back to the default
// subject's model.
func ModelFor(s subjects.Subject) ModelConfig {
	if m, ok := models[s]; ok {
		return m
	}
	return models[subjects.Default]
}

type university struct {
	name       string
	url        string
	department string
}

var universityResources = map[subjects.Subject][]university{
	subjects.Photography: {
		{"Harvard University", "https://www.harvard.edu", "Visual and Environmental Studies"},
		{"Oxford University", "https://www.ox.ac.uk", "Ruskin School of Art"},
		{"Stanford University", "https://www.stanford.edu", "Art & Art History"},
		{"MIT", "https://www.mit.edu", "Architecture"},
		{"Yale University", "https://www.yale.edu", "School of Art"},
		{"ANU", "https://www.anu.edu.au", "School of Art & Design"},
		{"Cambridge University", "https://www.cam.ac.uk", "History of Art"},
		{"UCLA", "https://www.ucla.edu", "Arts and Architecture"},
		{"NYU", "https://www.nyu.edu", "Tisch School of the Arts"},
		{"Columbia University", "https://www.columbia.edu", "School of the Arts"},
		{"Princeton University", "https://www.princeton.edu", "Art and Archaeology"},
		{"University of Edinburgh", "https://www.ed.ac.uk", "Edinburgh College of Art"},
		{"Royal College of Art", "https://www.rca.ac.uk", "Photography"},
	},
	subjects.FilmDirecting: {
		{"USC", "https://www.usc.edu", "School of Cinematic Arts"},
		{"NYU", "https://www.nyu.edu", "Tisch School of the Arts"},
		{"UCLA", "https://www.ucla.edu", "School of Theater, Film and Television"},
		{"AFI", "https://www.afi.com", "American Film Institute"},
		{"Columbia University", "https://www.columbia.edu", "School of the Arts"},
		{"Harvard University", "https://www.harvard.edu", "Visual and Environmental Studies"},
		{"Yale University", "https://www.yale.edu", "School of Drama"},
		{"Stanford University", "https://www.stanford.edu", "Film Studies"},
		{"ANU", "https://www.anu.edu.au", "School of Art & Design"},
		{"Cambridge University", "https://www.cam.ac.uk", "Film Studies"},
		{"Oxford University", "https://www.ox.ac.uk", "Film Studies"},
		{"Northwestern University", "https://www.northwestern.edu", "Radio/Television/Film"},
		{"University of Edinburgh", "https://www.ed.ac.uk", "Film Studies"},
	},
	subjects.Mathematics: {
		{"MIT", "https://www.mit.edu", "Mathematics"},
		{"Harvard University", "https://www.harvard.edu", "Mathematics"},
		{"Stanford University", "https://www.stanford.edu", "Mathematics"},
		{"Princeton University", "https://www.princeton.edu", "Mathematics"},
		{"Cambridge University", "https://www.cam.ac.uk", "Mathematics"},
		{"Oxford University", "https://www.ox.ac.uk", "Mathematics"},
		{"Caltech", "https://www.caltech.edu", "Mathematics"},
		{"Yale University", "https://www.yale.edu", "Mathematics"},
		{"Columbia University", "https://www.columbia.edu", "Mathematics"},
		{"ANU", "https://www.anu.edu.au", "Mathematical Sciences Institute"},
		{"University of Chicago", "https://www.uchicago.edu", "Mathematics"},
		{"UC Berkeley", "https://www.berkeley.edu", "Mathematics"},
		{"Imperial College London", "https://www.imperial.ac.uk", "Mathematics"},
	},
}

// MaxSources is the number of sources attached to an answer.
const MaxSources = 5

// SourcesFor returns the first MaxSources universities of s. Subjects without
// a resource table get no sources.
func SourcesFor(s subjects.Subject) []client.SourceRecord {
	list := universityResources[s]
	if len(list) > MaxSources {
		list = list[:MaxSources]
	}
	ret := make([]client.SourceRecord, 0, len(list))
	for _, u := range list {
		ret = append(ret, client.SourceRecord{Name: u.name, Department: u.department, URL: u.url})
	}
	return ret
}

// ResourcesFor returns the full resource table of subject. The lookup is case
// insensitive, the returned entries carry subject as given.
func ResourcesFor(subject string) ([]client.Resource, bool) {
	list, ok := universityResources[subjects.Subject(strings.ToLower(subject))]
	if !ok {
		return nil, false
	}
	ret := make([]client.Resource, 0, len(list))
	for _, u := range list {
		ret = append(ret, client.Resource{
			Name:       u.name,
			URL:        u.url,
			Department: u.department,
			Subject:    subject,
		})
	}
	return ret, true
}

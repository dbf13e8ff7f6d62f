// Package parse turns raw resume and job description text into structured
// data: named sections, contact fields, and JD keyword requirements.
package parse

import (
	"regexp"
	"strings"
)

// HeaderSection is the reserved key for text before the first recognized header.
const HeaderSection = "header"

type sectionPattern struct {
	name string
	re   *regexp.Regexp
}

// Scanned in declared order; first match wins when a line matches several.
var sectionPatterns = []sectionPattern{
	{"summary", regexp.MustCompile(`(?i)(summary|objective|profile|about\s*me)`)},
	{"experience", regexp.MustCompile(`(?i)(experience|work\s*history|employment|professional\s*experience)`)},
	{"education", regexp.MustCompile(`(?i)(education|academic|qualification|degree)`)},
	{"skills", regexp.MustCompile(`(?i)(skills|technical\s*skills|technologies|competenc)`)},
	{"projects", regexp.MustCompile(`(?i)(projects|portfolio|personal\s*projects)`)},
	{"certifications", regexp.MustCompile(`(?i)(certification|certificate|license|credential)`)},
}

// Sections is an insertion-ordered mapping from section name to body text.
// Re-setting an existing name overwrites the text but keeps its position.
type Sections struct {
	order []string
	texts map[string]string
}

// NewSections returns an empty section mapping.
func NewSections() *Sections {
	return &Sections{texts: make(map[string]string)}
}

// Set stores text under name, preserving first-insertion order.
func (s *Sections) Set(name, text string) {
	if _, exists := s.texts[name]; !exists {
		s.order = append(s.order, name)
	}
	s.texts[name] = text
}

// Get returns the text for name and whether it exists.
func (s *Sections) Get(name string) (string, bool) {
	text, ok := s.texts[name]
	return text, ok
}

// Has reports whether name exists.
func (s *Sections) Has(name string) bool {
	_, ok := s.texts[name]
	return ok
}

// Names returns section names in insertion order.
func (s *Sections) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of sections.
func (s *Sections) Len() int {
	return len(s.order)
}

// Map returns a plain map copy, losing order.
func (s *Sections) Map() map[string]string {
	out := make(map[string]string, len(s.texts))
	for k, v := range s.texts {
		out[k] = v
	}
	return out
}

// Segment splits resume text into named sections. A line is treated as a
// section header when it is under 60 characters and matches one of the
// known header patterns. Text before the first header lands under the
// reserved "header" key. Empty input yields an empty mapping.
func Segment(text string) *Sections {
	sections := NewSections()
	if strings.TrimSpace(text) == "" {
		return sections
	}

	current := HeaderSection
	var accumulated []string

	flush := func() {
		if len(accumulated) == 0 {
			return
		}
		sections.Set(current, strings.TrimSpace(strings.Join(accumulated, "\n")))
		accumulated = nil
	}

	for _, line := range strings.Split(text, "\n") {
		matched := ""
		if len(strings.TrimSpace(line)) < 60 {
			for _, p := range sectionPatterns {
				if p.re.MatchString(line) {
					matched = p.name
					break
				}
			}
		}
		if matched == "" {
			accumulated = append(accumulated, line)
			continue
		}
		flush()
		current = matched
	}
	flush()

	return sections
}

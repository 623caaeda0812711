// Package roadmap splits a generated roadmap's markdown into sections,
// phases, topics and items for display.
package roadmap

import "strings"

// Section is a top-level "# " heading with the free text and phases under it.
type Section struct {
	Title   string   `json:"title" yaml:"title"`
	Content []string `json:"content" yaml:"content"`
	Phases  []Phase  `json:"phases" yaml:"phases"`
}

// Phase is a "## " heading. Topics come from "### " headings and items from
// bullet lines.
type Phase struct {
	Title  string   `json:"title" yaml:"title"`
	Topics []string `json:"topics" yaml:"topics"`
	Items  []string `json:"items" yaml:"items"`
}

// Parse scans markdown once, grouping lines by their heading or bullet
// prefix. A phase belongs to whichever section is open when the phase ends,
// so a "# " heading does not close the phase above it. Lines that have
// nowhere to go (a bullet before any phase, text before any section, a phase
// that ends with no section open) are dropped. Heading order is not
// validated.
func Parse(markdown string) []Section {
	var (
		sections []Section
		section  *Section
		phase    *Phase
	)

	closePhase := func() {
		if phase != nil && section != nil {
			section.Phases = append(section.Phases, *phase)
		}
		phase = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "# "):
			if section != nil {
				sections = append(sections, *section)
			}
			section = &Section{
				Title:   strings.TrimSpace(strings.TrimPrefix(line, "# ")),
				Content: []string{},
				Phases:  []Phase{},
			}

		case strings.HasPrefix(line, "## "):
			closePhase()
			phase = &Phase{
				Title:  strings.TrimSpace(strings.TrimPrefix(line, "## ")),
				Topics: []string{},
				Items:  []string{},
			}

		case strings.HasPrefix(line, "### "):
			if phase != nil {
				phase.Topics = append(phase.Topics, strings.TrimSpace(strings.TrimPrefix(line, "### ")))
			}

		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			item := strings.TrimSpace(trimmed[2:])
			if item != "" && phase != nil {
				phase.Items = append(phase.Items, item)
			}

		case trimmed != "" && section != nil:
			section.Content = append(section.Content, trimmed)
		}
	}
	closePhase()
	if section != nil {
		sections = append(sections, *section)
	}

	return sections
}

// Stats summarizes a parsed roadmap.
type Stats struct {
	Sections int
	Phases   int
	Topics   int
	Items    int
}

// Count tallies the nodes in sections.
func Count(sections []Section) Stats {
	st := Stats{Sections: len(sections)}
	for _, s := range sections {
		st.Phases += len(s.Phases)
		for _, p := range s.Phases {
			st.Topics += len(p.Topics)
			st.Items += len(p.Items)
		}
	}
	return st
}

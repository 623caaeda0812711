package roadmap

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/tree"
	"gopkg.in/yaml.v3"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTree Format = "tree"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatTree:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, yaml or tree)", s)
	}
}

// Encode writes sections to w in the given format.
func Encode(w io.Writer, sections []Section, format Format) error {
	if sections == nil {
		sections = []Section{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sections)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sections); err != nil {
			return err
		}
		return enc.Close()
	case FormatTree:
		_, err := io.WriteString(w, RenderTree(sections, 0, TreeStyles{})+"\n")
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// TreeStyles styles the levels of a rendered tree. Zero values render plain.
type TreeStyles struct {
	Section lipgloss.Style
	Phase   lipgloss.Style
	Topic   lipgloss.Style
	Item    lipgloss.Style
	Content lipgloss.Style
	Branch  lipgloss.Style
}

// RenderTree draws sections as a tree. Content lines are wrapped to width
// when width > 0.
func RenderTree(sections []Section, width int, st TreeStyles) string {
	if len(sections) == 0 {
		return "(empty roadmap)"
	}

	wrap := func(s string, indent int) string {
		if width <= indent {
			return s
		}
		return lipgloss.NewStyle().Width(width - indent).Render(s)
	}

	var out []string
	for _, s := range sections {
		t := tree.Root(st.Section.Render(s.Title)).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(st.Branch)

		for _, c := range s.Content {
			t.Child(st.Content.Render(wrap(c, 4)))
		}
		for _, p := range s.Phases {
			pt := tree.Root(st.Phase.Render(p.Title)).
				Enumerator(tree.RoundedEnumerator).
				EnumeratorStyle(st.Branch)
			for _, topic := range p.Topics {
				pt.Child(st.Topic.Render("§ " + topic))
			}
			for _, item := range p.Items {
				pt.Child(st.Item.Render("• " + wrap(item, 10)))
			}
			t.Child(pt)
		}
		out = append(out, t.String())
	}
	return strings.Join(out, "\n\n")
}

package documents

// Selection is the set of documents picked for roadmap generation.
type Selection struct {
	ids []string
}

// Toggle adds id when absent and removes it when present.
func (s *Selection) Toggle(id string) {
	if s.Has(id) {
		s.Remove(id)
		return
	}
	s.ids = append(s.ids, id)
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Remove deselects id. Deleting a document must call this.
func (s *Selection) Remove(id string) {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

// IDs returns the selected ids in the order they were picked.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len returns the number of selected documents.
func (s *Selection) Len() int { return len(s.ids) }

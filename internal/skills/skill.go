package skills

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/supabase"
)

var (
	ErrTitleRequired   = errors.New("skill title is required")
	ErrUnknownCategory = errors.New("unknown skill category")
)

// NewSkill is the create-skill form.
type NewSkill struct {
	Title       string
	Description string
	Category    Category
}

// Validate checks the form before anything is sent.
func (n NewSkill) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrTitleRequired
	}
	if !n.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, n.Category)
	}
	return nil
}

// IsTechnical reports whether the skill unlocks coding challenges.
func (n NewSkill) IsTechnical() bool {
	return n.Category == CategoryTechnical
}

// Row converts the form into the skills table row owned by userID.
func (n NewSkill) Row(userID string) supabase.NewSkill {
	return supabase.NewSkill{
		UserID:      userID,
		Title:       strings.TrimSpace(n.Title),
		Description: strings.TrimSpace(n.Description),
		Category:    string(n.Category),
		IsTechnical: n.IsTechnical(),
	}
}

// Create validates n and inserts it, returning the stored row.
func Create(ctx context.Context, data supabase.Data, userID string, n NewSkill) (*api.Skill, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return data.CreateSkill(ctx, n.Row(userID))
}

// Prepend returns list with s at the top.
func Prepend(list []api.Skill, s api.Skill) []api.Skill {
	out := make([]api.Skill, 0, len(list)+1)
	out = append(out, s)
	return append(out, list...)
}

// Remove returns list without the skill with the given id.
func Remove(list []api.Skill, id string) []api.Skill {
	out := make([]api.Skill, 0, len(list))
	for _, s := range list {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/sensei/internal/api"
)

// TokenSource returns a current access token for row-level security.
type TokenSource func(ctx context.Context) (string, error)

// NewSkill is the row inserted when a user creates a skill.
type NewSkill struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsTechnical bool   `json:"is_technical"`
}

// InlineQuizResult is a row of quiz_results, written when a quiz embedded
// in a mentor reply is submitted. Unanswered questions are -1.
type InlineQuizResult struct {
	UserID  string `json:"user_id"`
	SkillID string `json:"skill_id"`
	Score   int    `json:"score"`
	Total   int    `json:"total"`
	Answers []int  `json:"answers"`
}

// Data is the set of table operations the client performs directly against
// PostgREST. Everything else goes through the backend.
type Data interface {
	ListSkills(ctx context.Context, userID string) ([]api.Skill, error)
	GetSkill(ctx context.Context, skillID string) (*api.Skill, error)
	CreateSkill(ctx context.Context, skill NewSkill) (*api.Skill, error)
	ListDocuments(ctx context.Context, skillID string) ([]api.Document, error)
	GetProfile(ctx context.Context, userID string) (*api.Profile, error)
	DeleteChat(ctx context.Context, chatID string) error
	InsertInlineQuiz(ctx context.Context, result InlineQuizResult) error
	LatestCodingQuestion(ctx context.Context, skillID string) (*api.CodingQuestion, error)
}

// Tables implements Data on a Client.
type Tables struct {
	client *Client
	token  TokenSource
}

// NewTables creates a Tables that authorizes every call with token.
func NewTables(client *Client, token TokenSource) *Tables {
	return &Tables{client: client, token: token}
}

func (t *Tables) from(ctx context.Context, table string) (*Query, error) {
	tok, err := t.token(ctx)
	if err != nil {
		return nil, err
	}
	return t.client.From(table, tok), nil
}

func (t *Tables) ListSkills(ctx context.Context, userID string) ([]api.Skill, error) {
	q, err := t.from(ctx, "skills")
	if err != nil {
		return nil, err
	}
	var skills []api.Skill
	if err := q.Select("*").Eq("user_id", userID).Order("created_at", true).List(ctx, &skills); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

func (t *Tables) GetSkill(ctx context.Context, skillID string) (*api.Skill, error) {
	q, err := t.from(ctx, "skills")
	if err != nil {
		return nil, err
	}
	var skill api.Skill
	if err := q.Select("*").Eq("id", skillID).Single(ctx, &skill); err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
	}
	return &skill, nil
}

func (t *Tables) CreateSkill(ctx context.Context, skill NewSkill) (*api.Skill, error) {
	q, err := t.from(ctx, "skills")
	if err != nil {
		return nil, err
	}
	var created api.Skill
	if err := q.Insert(ctx, skill, &created); err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return &created, nil
}

func (t *Tables) ListDocuments(ctx context.Context, skillID string) ([]api.Document, error) {
	q, err := t.from(ctx, "documents")
	if err != nil {
		return nil, err
	}
	var docs []api.Document
	if err := q.Select("*").Eq("skill_id", skillID).Order("created_at", true).List(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// GetProfile returns the user's profile, or nil when none exists.
func (t *Tables) GetProfile(ctx context.Context, userID string) (*api.Profile, error) {
	q, err := t.from(ctx, "profiles")
	if err != nil {
		return nil, err
	}
	var rows []api.Profile
	if err := q.Select("id,full_name,avatar_url").Eq("id", userID).Limit(1).List(ctx, &rows); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (t *Tables) DeleteChat(ctx context.Context, chatID string) error {
	q, err := t.from(ctx, "chats")
	if err != nil {
		return err
	}
	if err := q.Eq("id", chatID).Delete(ctx); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	return nil
}

func (t *Tables) InsertInlineQuiz(ctx context.Context, result InlineQuizResult) error {
	q, err := t.from(ctx, "quiz_results")
	if err != nil {
		return err
	}
	if err := q.Insert(ctx, result, nil); err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	return nil
}

// LatestCodingQuestion returns the newest question for the skill, or nil
// when none has been generated yet.
func (t *Tables) LatestCodingQuestion(ctx context.Context, skillID string) (*api.CodingQuestion, error) {
	q, err := t.from(ctx, "coding_questions")
	if err != nil {
		return nil, err
	}
	var rows []api.CodingQuestion
	err = q.Select("*").Eq("skill_id", skillID).Order("created_at", true).Limit(1).List(ctx, &rows)
	if err != nil {
		var be *api.ErrBackend
		if errors.As(err, &be) && be.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("latest coding question: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

var _ Data = (*Tables)(nil)

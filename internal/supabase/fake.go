package supabase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abhisek/sensei/internal/api"
)

// FakeData is an in-memory Data for tests.
type FakeData struct {
	mu sync.Mutex

	Skills      []api.Skill
	Documents   []api.Document
	Profiles    map[string]api.Profile
	Questions   []api.CodingQuestion
	QuizResults []InlineQuizResult
	DeletedChat []string

	// Err, when set, is returned by every call.
	Err error

	nextID int
}

// NewFakeData creates an empty FakeData.
func NewFakeData() *FakeData {
	return &FakeData{Profiles: map[string]api.Profile{}}
}

func (f *FakeData) ListSkills(_ context.Context, userID string) ([]api.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []api.Skill
	for _, s := range f.Skills {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt.Time) })
	return out, nil
}

func (f *FakeData) GetSkill(_ context.Context, skillID string) (*api.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, s := range f.Skills {
		if s.ID == skillID {
			return &s, nil
		}
	}
	return nil, &api.ErrBackend{StatusCode: 406, Detail: "JSON object requested, multiple (or no) rows returned"}
}

func (f *FakeData) CreateSkill(_ context.Context, skill NewSkill) (*api.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.nextID++
	s := api.Skill{
		ID:          fmt.Sprintf("skill-%d", f.nextID),
		UserID:      skill.UserID,
		Title:       skill.Title,
		Description: skill.Description,
		Category:    skill.Category,
		IsTechnical: skill.IsTechnical,
		CreatedAt:   api.Timestamp{Time: time.Now()},
	}
	f.Skills = append(f.Skills, s)
	return &s, nil
}

func (f *FakeData) ListDocuments(_ context.Context, skillID string) ([]api.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []api.Document
	for _, d := range f.Documents {
		if d.SkillID == skillID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *FakeData) GetProfile(_ context.Context, userID string) (*api.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if p, ok := f.Profiles[userID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *FakeData) DeleteChat(_ context.Context, chatID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.DeletedChat = append(f.DeletedChat, chatID)
	return nil
}

func (f *FakeData) InsertInlineQuiz(_ context.Context, result InlineQuizResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.QuizResults = append(f.QuizResults, result)
	return nil
}

func (f *FakeData) LatestCodingQuestion(_ context.Context, skillID string) (*api.CodingQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var latest *api.CodingQuestion
	for i := range f.Questions {
		q := f.Questions[i]
		if q.SkillID != skillID {
			continue
		}
		if latest == nil || !q.CreatedAt.Before(latest.CreatedAt.Time) {
			latest = &q
		}
	}
	return latest, nil
}

var _ Data = (*FakeData)(nil)

package skill

import (
	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/documents"
)

// Every async message names the skill it was started for. A screen drops
// messages for another skill, which arrive when the user moved on before a
// call returned.
type skillScoped interface {
	skill() string
}

// loadedMsg carries the fresh skill row and its documents, fetched together.
type loadedMsg struct {
	SkillID string
	Skill   *api.Skill
	Docs    []api.Document
	Err     error
}

// docsRefreshedMsg carries a re-fetched document list.
type docsRefreshedMsg struct {
	SkillID string
	Docs    []api.Document
	Err     error
}

// pollTickMsg asks for a document refresh while any is still processing.
// Only the tick matching the screen's current Seq is honored.
type pollTickMsg struct {
	SkillID string
	Seq     int
}

// replyMsg is the mentor's answer to the last message.
type replyMsg struct {
	SkillID string
	Reply   *api.MentorReply
	Err     error
}

// chatDeletedMsg reports the outcome of /delete.
type chatDeletedMsg struct {
	SkillID string
	Err     error
}

// uploadDoneMsg reports a library upload.
type uploadDoneMsg struct {
	SkillID  string
	IDs      []string
	Failures []documents.UploadFailure
}

// docDeletedMsg reports a document delete.
type docDeletedMsg struct {
	SkillID string
	ID      string
	Err     error
}

// roadmapDoneMsg reports roadmap generation from the selected documents.
type roadmapDoneMsg struct {
	SkillID string
	Result  *api.RoadmapResult
	Err     error
}

// inlineSavedMsg reports storing an inline quiz result.
type inlineSavedMsg struct {
	SkillID string
	Score   int
	Total   int
	Err     error
}

func (m loadedMsg) skill() string        { return m.SkillID }
func (m docsRefreshedMsg) skill() string { return m.SkillID }
func (m pollTickMsg) skill() string      { return m.SkillID }
func (m replyMsg) skill() string         { return m.SkillID }
func (m chatDeletedMsg) skill() string   { return m.SkillID }
func (m uploadDoneMsg) skill() string    { return m.SkillID }
func (m docDeletedMsg) skill() string    { return m.SkillID }
func (m roadmapDoneMsg) skill() string   { return m.SkillID }
func (m inlineSavedMsg) skill() string   { return m.SkillID }

package skill

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	"github.com/abhisek/sensei/internal/chat"
	"github.com/abhisek/sensei/internal/documents"
	"github.com/abhisek/sensei/internal/quiz"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/toast"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
)

type tab int

const (
	tabChat tab = iota
	tabLibrary
)

// SkillScreen is the study view of one skill: the mentor chat and the
// document library.
type SkillScreen struct {
	deps  *screen.Deps
	sess  *auth.Session
	skill api.Skill

	tab     tab
	loading bool

	// Chat.
	conv    *chat.Conversation
	input   components.TextInput
	sending bool
	scroll  int

	// Inline quizzes by message content; focusQuiz is set while the newest
	// one has the keyboard.
	quizzes   map[string]*quiz.Inline
	focusQuiz bool
	quizQ     int
	quizOpt   int

	// Library.
	docs       []api.Document
	docCursor  int
	selection  documents.Selection
	pathInput  components.TextInput
	addingDocs bool
	uploading  bool
	generating bool
	polling    bool
	// pollSeq invalidates ticks armed before the last resume.
	pollSeq int
}

var _ screen.Screen = (*SkillScreen)(nil)
var _ screen.KeyHintProvider = (*SkillScreen)(nil)
var _ screen.InputCapturer = (*SkillScreen)(nil)
var _ screen.Resumer = (*SkillScreen)(nil)

// New creates the skill screen.
func New(deps *screen.Deps, sess *auth.Session, skill api.Skill) *SkillScreen {
	return &SkillScreen{
		deps:      deps,
		sess:      sess,
		skill:     skill,
		loading:   true,
		conv:      chat.NewConversation(skill.ID, sess.UserID),
		input:     components.NewTextInput("", "Ask your mentor... (/new, /delete)", false, 4000),
		quizzes:   map[string]*quiz.Inline{},
		pathInput: components.NewTextInput("Upload", "comma-separated file paths", false, 0),
	}
}

func (s *SkillScreen) Init() tea.Cmd {
	return tea.Batch(s.load(), s.input.Focus())
}

func (s *SkillScreen) Title() string {
	return s.skill.Title
}

// CapturingInput keeps Esc inside the screen while a quiz or the upload
// prompt has focus.
func (s *SkillScreen) CapturingInput() bool {
	return s.focusQuiz || s.addingDocs
}

func (s *SkillScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.focusQuiz:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Option"},
			{Key: "←→", Description: "Question"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Leave quiz"},
		}
	case s.addingDocs:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Upload"},
			{Key: "Esc", Description: "Cancel"},
		}
	case s.tab == tabLibrary:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Chat"},
			{Key: "Space", Description: "Toggle"},
			{Key: "U", Description: "Upload"},
			{Key: "X", Description: "Delete"},
			{Key: "G", Description: "Generate roadmap"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Library"},
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+E", Description: "Mode: " + string(s.conv.Mode)},
		{Key: "PgUp/PgDn", Description: "Scroll"},
	}
	if s.activeQuiz() != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+T", Description: "Take quiz"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// load fetches the skill row and its documents in parallel.
func (s *SkillScreen) load() tea.Cmd {
	data, id := s.deps.Data, s.skill.ID
	return func() tea.Msg {
		var (
			sk   *api.Skill
			docs []api.Document
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			sk, err = data.GetSkill(ctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			docs, err = data.ListDocuments(ctx, id)
			return err
		})
		err := g.Wait()
		return loadedMsg{SkillID: id, Skill: sk, Docs: docs, Err: err}
	}
}

func (s *SkillScreen) refreshDocs() tea.Cmd {
	data, id := s.deps.Data, s.skill.ID
	return func() tea.Msg {
		docs, err := data.ListDocuments(context.Background(), id)
		return docsRefreshedMsg{SkillID: id, Docs: docs, Err: err}
	}
}

func (s *SkillScreen) pollInterval() time.Duration {
	if s.deps.PollInterval > 0 {
		return s.deps.PollInterval
	}
	return documents.DefaultPollInterval
}

// schedulePoll arms one refresh tick while a document is still processing.
func (s *SkillScreen) schedulePoll() tea.Cmd {
	if s.polling || !documents.ShouldPoll(s.docs) {
		return nil
	}
	s.polling = true
	tick := pollTickMsg{SkillID: s.skill.ID, Seq: s.pollSeq}
	return tea.Tick(s.pollInterval(), func(time.Time) tea.Msg { return tick })
}

// Resume runs when a screen pushed over this one closes. Messages sent
// while covered went to that screen, so a pending poll tick or reply may
// never arrive: the poll is re-armed from a fresh document list and the
// busy flags are released.
func (s *SkillScreen) Resume() tea.Cmd {
	s.polling = false
	s.pollSeq++
	s.sending = false
	s.uploading = false
	s.generating = false
	return s.refreshDocs()
}

func (s *SkillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(skillScoped); ok && m.skill() != s.skill.ID {
		return s, nil
	}
	switch msg := msg.(type) {
	case loadedMsg:
		return s.handleLoaded(msg)
	case docsRefreshedMsg:
		return s.handleDocs(msg.Docs, msg.Err)
	case pollTickMsg:
		if msg.Seq != s.pollSeq {
			return s, nil
		}
		s.polling = false
		return s, s.refreshDocs()
	case replyMsg:
		return s.handleReply(msg)
	case chatDeletedMsg:
		return s.handleChatDeleted(msg)
	case uploadDoneMsg:
		return s.handleUploadDone(msg)
	case docDeletedMsg:
		return s.handleDocDeleted(msg)
	case roadmapDoneMsg:
		return s.handleRoadmapDone(msg)
	case inlineSavedMsg:
		return s.handleInlineSaved(msg)
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s.forwardInput(msg)
}

func (s *SkillScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.Err != nil {
		s.deps.Log().Error("load skill", zap.String("skill_id", s.skill.ID), zap.Error(msg.Err))
		return s, components.Notify(toast.KindError, "Failed to load skill: "+api.Message(msg.Err))
	}
	if msg.Skill != nil {
		s.skill = *msg.Skill
	}
	return s.handleDocs(msg.Docs, nil)
}

func (s *SkillScreen) handleDocs(docs []api.Document, err error) (screen.Screen, tea.Cmd) {
	if err != nil {
		s.deps.Log().Error("list documents", zap.String("skill_id", s.skill.ID), zap.Error(err))
		return s, components.Notify(toast.KindError, "Failed to load documents")
	}
	s.docs = docs
	if s.docCursor >= len(s.docs) {
		s.docCursor = max(len(s.docs)-1, 0)
	}
	return s, s.schedulePoll()
}

func (s *SkillScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.focusQuiz {
		return s.updateInlineQuiz(msg)
	}
	if s.addingDocs {
		return s.updateUploadPrompt(msg)
	}
	if msg.String() == "tab" {
		if s.tab == tabChat {
			s.tab = tabLibrary
			s.input.Blur()
			return s, nil
		}
		s.tab = tabChat
		return s, s.input.Focus()
	}
	if s.tab == tabLibrary {
		return s.updateLibrary(msg)
	}
	return s.updateChat(msg)
}

func (s *SkillScreen) forwardInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case s.addingDocs:
		s.pathInput, cmd = s.pathInput.Update(msg)
	case s.tab == tabChat && !s.focusQuiz:
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

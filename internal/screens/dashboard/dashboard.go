package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	"github.com/abhisek/sensei/internal/documents"
	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/skills"
	"github.com/abhisek/sensei/internal/toast"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
)

// BannerLifetime is how long the delete confirmation stays up.
const BannerLifetime = 3 * time.Second

type mode int

const (
	modeList mode = iota
	modeCreate
	modeConfirmDelete
	modeDocPrompt
)

// Create form focus.
const (
	focusTitle = iota
	focusDescription
	focusCategory
	focusCount
)

// DashboardScreen lists the user's skills and hosts the create, delete and
// document-prompt flows.
type DashboardScreen struct {
	deps *screen.Deps
	sess *auth.Session

	skills  []api.Skill
	name    string
	cursor  int
	loading bool
	errText string
	mode    mode

	title       components.TextInput
	description components.TextInput
	category    int
	formFocus   int
	busy        bool

	// created is the skill the document prompt is for.
	created *api.Skill
	paths   components.TextInput

	banner    string
	bannerSeq int
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.InputCapturer = (*DashboardScreen)(nil)
var _ screen.Resumer = (*DashboardScreen)(nil)

// New creates the dashboard for a signed-in user.
func New(deps *screen.Deps, sess *auth.Session) *DashboardScreen {
	name := sess.FullName
	if name == "" {
		name = sess.Email
	}
	return &DashboardScreen{
		deps:        deps,
		sess:        sess,
		name:        name,
		loading:     true,
		title:       components.NewTextInput("Title", "e.g. Learn Go", false, 120),
		description: components.NewTextInput("Description", "What do you want to achieve?", false, 500),
		paths:       components.NewTextInput("Documents", "comma-separated file paths, blank to skip", false, 0),
	}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return s.load()
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

// UserName is the profile name shown in the header.
func (s *DashboardScreen) UserName() string {
	return s.name
}

func (s *DashboardScreen) CapturingInput() bool {
	return s.mode != modeList
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeCreate:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "←→", Description: "Category"},
			{Key: "Enter", Description: "Create"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeConfirmDelete:
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Cancel"},
		}
	case modeDocPrompt:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Upload & generate"},
			{Key: "Esc", Description: "Skip"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "N", Description: "New"},
		{Key: "D", Description: "Delete"},
		{Key: "R", Description: "Roadmap"},
		{Key: "Q", Description: "Quiz"},
		{Key: "C", Description: "Code"},
		{Key: "A", Description: "Analytics"},
		{Key: "Ctrl+L", Description: "Sign out"},
	}
}

// load fetches the skill list and the profile together.
func (s *DashboardScreen) load() tea.Cmd {
	data, userID, fallback := s.deps.Data, s.sess.UserID, s.name
	return func() tea.Msg {
		var (
			list []api.Skill
			name = fallback
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			list, err = data.ListSkills(ctx, userID)
			return err
		})
		g.Go(func() error {
			p, err := data.GetProfile(ctx, userID)
			if err == nil && p != nil && p.FullName != "" {
				name = p.FullName
			}
			// A missing profile only costs the display name.
			return nil
		})
		err := g.Wait()
		return skillsLoadedMsg{Skills: list, Name: name, Err: err}
	}
}

// Resume reloads the list when returning from a skill, whose documents or
// roadmap may have changed.
func (s *DashboardScreen) Resume() tea.Cmd {
	if s.mode != modeList {
		return nil
	}
	return s.load()
}

func (s *DashboardScreen) selected() (api.Skill, bool) {
	if s.cursor < 0 || s.cursor >= len(s.skills) {
		return api.Skill{}, false
	}
	return s.skills[s.cursor], true
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case skillsLoadedMsg:
		return s.handleLoaded(msg)
	case skillCreatedMsg:
		return s.handleCreated(msg)
	case skillDeletedMsg:
		return s.handleDeleted(msg)
	case roadmapReadyMsg:
		return s.handleRoadmapReady(msg)
	case signedOutMsg:
		login := s.deps.Screens.Login()
		return s, func() tea.Msg { return router.ResetScreenMsg{Screen: login} }
	case bannerExpiredMsg:
		if msg.Seq == s.bannerSeq {
			s.banner = ""
		}
		return s, nil
	case tea.KeyPressMsg:
		switch s.mode {
		case modeCreate:
			return s.updateCreate(msg)
		case modeConfirmDelete:
			return s.updateConfirmDelete(msg)
		case modeDocPrompt:
			return s.updateDocPrompt(msg)
		default:
			return s.updateList(msg)
		}
	}

	switch s.mode {
	case modeCreate:
		return s, s.updateFormInput(msg)
	case modeDocPrompt:
		var cmd tea.Cmd
		s.paths, cmd = s.paths.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DashboardScreen) handleLoaded(msg skillsLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.Err != nil {
		s.deps.Log().Error("load skills", zap.Error(msg.Err))
		s.errText = api.Message(msg.Err)
		return s, components.Notify(toast.KindError, "Failed to load skills")
	}
	s.errText = ""
	s.skills = msg.Skills
	s.name = msg.Name
	if s.cursor >= len(s.skills) {
		s.cursor = max(len(s.skills)-1, 0)
	}
	return s, nil
}

func (s *DashboardScreen) updateList(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil
	case "down", "j":
		if s.cursor < len(s.skills)-1 {
			s.cursor++
		}
		return s, nil
	case "n":
		return s, s.openCreate()
	case "ctrl+r":
		s.loading = true
		return s, s.load()
	case "ctrl+l":
		a := s.deps.Auth
		return s, func() tea.Msg {
			return signedOutMsg{Err: a.SignOut(context.Background())}
		}
	}

	sk, ok := s.selected()
	if !ok {
		return s, nil
	}

	var next screen.Screen
	switch msg.String() {
	case "enter":
		next = s.deps.Screens.Skill(s.sess, sk)
	case "r":
		next = s.deps.Screens.Roadmap(s.sess, sk)
	case "q":
		next = s.deps.Screens.Quiz(s.sess, sk)
	case "c":
		next = s.deps.Screens.Coding(s.sess, sk)
	case "a":
		next = s.deps.Screens.Analytics(s.sess, sk)
	case "d":
		s.mode = modeConfirmDelete
		return s, nil
	default:
		return s, nil
	}
	return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *DashboardScreen) openCreate() tea.Cmd {
	s.mode = modeCreate
	s.errText = ""
	s.title.Reset()
	s.description.Reset()
	s.category = 0
	s.formFocus = focusTitle
	s.description.Blur()
	return s.title.Focus()
}

func (s *DashboardScreen) setFormFocus(i int) tea.Cmd {
	s.formFocus = i
	s.title.Blur()
	s.description.Blur()
	switch i {
	case focusTitle:
		return s.title.Focus()
	case focusDescription:
		return s.description.Focus()
	}
	return nil
}

func (s *DashboardScreen) updateFormInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.formFocus {
	case focusTitle:
		s.title, cmd = s.title.Update(msg)
	case focusDescription:
		s.description, cmd = s.description.Update(msg)
	}
	return cmd
}

func (s *DashboardScreen) updateCreate(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	cats := skills.AllCategories()
	switch msg.String() {
	case "esc":
		s.mode = modeList
		s.errText = ""
		return s, nil
	case "tab", "down":
		return s, s.setFormFocus((s.formFocus + 1) % focusCount)
	case "shift+tab", "up":
		return s, s.setFormFocus((s.formFocus - 1 + focusCount) % focusCount)
	case "enter":
		return s, s.create()
	}
	if s.formFocus == focusCategory {
		switch msg.String() {
		case "left", "h":
			s.category = (s.category - 1 + len(cats)) % len(cats)
		case "right", "l", "space":
			s.category = (s.category + 1) % len(cats)
		}
		return s, nil
	}
	return s, s.updateFormInput(msg)
}

func (s *DashboardScreen) create() tea.Cmd {
	in := skills.NewSkill{
		Title:       s.title.Value(),
		Description: s.description.Value(),
		Category:    skills.AllCategories()[s.category],
	}
	if err := in.Validate(); err != nil {
		s.errText = err.Error()
		return nil
	}
	s.busy = true
	s.errText = ""
	data, userID := s.deps.Data, s.sess.UserID
	return func() tea.Msg {
		sk, err := skills.Create(context.Background(), data, userID, in)
		return skillCreatedMsg{Skill: sk, Err: err}
	}
}

func (s *DashboardScreen) handleCreated(msg skillCreatedMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.deps.Log().Error("create skill", zap.Error(msg.Err))
		s.errText = api.Message(msg.Err)
		return s, components.Notify(toast.KindError, "Failed to create skill")
	}
	s.skills = skills.Prepend(s.skills, *msg.Skill)
	s.cursor = 0
	s.created = msg.Skill
	s.mode = modeDocPrompt
	s.paths.Reset()
	return s, tea.Batch(
		components.Notify(toast.KindSuccess, fmt.Sprintf("Created %q", msg.Skill.Title)),
		s.paths.Focus(),
	)
}

func (s *DashboardScreen) updateConfirmDelete(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	switch msg.String() {
	case "y", "enter":
		sk, ok := s.selected()
		if !ok {
			s.mode = modeList
			return s, nil
		}
		s.busy = true
		backend := s.deps.Backend
		return s, func() tea.Msg {
			return skillDeletedMsg{Skill: sk, Err: backend.DeleteSkill(context.Background(), sk.ID)}
		}
	case "n", "esc":
		s.mode = modeList
	}
	return s, nil
}

func (s *DashboardScreen) handleDeleted(msg skillDeletedMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	s.mode = modeList
	if msg.Err != nil {
		s.deps.Log().Error("delete skill", zap.String("skill_id", msg.Skill.ID), zap.Error(msg.Err))
		return s, components.Notify(toast.KindError, "Failed to delete skill: "+api.Message(msg.Err))
	}
	s.skills = skills.Remove(s.skills, msg.Skill.ID)
	if s.cursor >= len(s.skills) {
		s.cursor = max(len(s.skills)-1, 0)
	}
	s.bannerSeq++
	s.banner = fmt.Sprintf("Deleted %q", msg.Skill.Title)
	seq := s.bannerSeq
	return s, tea.Tick(BannerLifetime, func(time.Time) tea.Msg {
		return bannerExpiredMsg{Seq: seq}
	})
}

func (s *DashboardScreen) updateDocPrompt(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	switch msg.String() {
	case "esc":
		return s, s.generate(nil)
	case "enter":
		return s, s.generate(splitPaths(s.paths.Value()))
	}
	var cmd tea.Cmd
	s.paths, cmd = s.paths.Update(msg)
	return s, cmd
}

// generate uploads paths, if any, and generates the roadmap from the
// documents that made it.
func (s *DashboardScreen) generate(paths []string) tea.Cmd {
	if s.created == nil {
		s.mode = modeList
		return nil
	}
	s.busy = true
	sk := *s.created
	backend, userID, logger := s.deps.Backend, s.sess.UserID, s.deps.Log()
	return func() tea.Msg {
		ctx := context.Background()
		var (
			ids      []string
			failures []documents.UploadFailure
		)
		if len(paths) > 0 {
			ids, failures = documents.UploadAll(ctx, backend, sk.ID, userID, paths)
			for _, f := range failures {
				logger.Warn("upload failed", zap.String("path", f.Path), zap.Error(f.Err))
			}
		}
		res, err := backend.GenerateRoadmap(ctx, sk.ID, ids)
		if err == nil && res != nil {
			sk.Roadmap = res.Roadmap
			sk.RoadmapSVG = res.RoadmapSVG
		}
		return roadmapReadyMsg{Skill: sk, Failures: failures, Err: err}
	}
}

func (s *DashboardScreen) handleRoadmapReady(msg roadmapReadyMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	s.mode = modeList
	s.created = nil

	for i := range s.skills {
		if s.skills[i].ID == msg.Skill.ID {
			s.skills[i] = msg.Skill
		}
	}

	var cmds []tea.Cmd
	if n := len(msg.Failures); n > 0 {
		cmds = append(cmds, components.Notify(toast.KindWarning, fmt.Sprintf("%d document(s) failed to upload", n)))
	}
	if msg.Err != nil {
		s.deps.Log().Error("generate roadmap", zap.String("skill_id", msg.Skill.ID), zap.Error(msg.Err))
		cmds = append(cmds, components.Notify(toast.KindError, "Roadmap generation failed: "+api.Message(msg.Err)))
	}
	next := s.deps.Screens.Roadmap(s.sess, msg.Skill)
	cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: next} })
	return s, tea.Batch(cmds...)
}

// splitPaths splits a comma-separated path list, dropping blanks and
// surrounding quotes.
func splitPaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

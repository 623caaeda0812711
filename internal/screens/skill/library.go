package skill

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/documents"
	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/toast"
	"github.com/abhisek/sensei/internal/ui/components"
)

func (s *SkillScreen) selectedDoc() (api.Document, bool) {
	if s.docCursor < 0 || s.docCursor >= len(s.docs) {
		return api.Document{}, false
	}
	return s.docs[s.docCursor], true
}

func (s *SkillScreen) updateLibrary(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.docCursor > 0 {
			s.docCursor--
		}
	case "down", "j":
		if s.docCursor < len(s.docs)-1 {
			s.docCursor++
		}
	case "space":
		if d, ok := s.selectedDoc(); ok {
			s.selection.Toggle(d.ID)
		}
	case "u":
		if s.uploading {
			return s, nil
		}
		s.addingDocs = true
		s.pathInput.Reset()
		return s, s.pathInput.Focus()
	case "x":
		d, ok := s.selectedDoc()
		if !ok {
			return s, nil
		}
		backend, skillID := s.deps.Backend, s.skill.ID
		return s, func() tea.Msg {
			return docDeletedMsg{SkillID: skillID, ID: d.ID, Err: backend.DeleteDocument(context.Background(), d.ID)}
		}
	case "g":
		return s, s.generateRoadmap()
	case "ctrl+r":
		return s, s.refreshDocs()
	}
	return s, nil
}

func (s *SkillScreen) updateUploadPrompt(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.addingDocs = false
		s.pathInput.Blur()
		return s, nil
	case "enter":
		var paths []string
		for _, p := range strings.Split(s.pathInput.Value(), ",") {
			if p = strings.Trim(strings.TrimSpace(p), `"'`); p != "" {
				paths = append(paths, p)
			}
		}
		s.addingDocs = false
		s.pathInput.Blur()
		if len(paths) == 0 {
			return s, nil
		}
		s.uploading = true
		backend, skillID, userID := s.deps.Backend, s.skill.ID, s.sess.UserID
		return s, func() tea.Msg {
			ids, failures := documents.UploadAll(context.Background(), backend, skillID, userID, paths)
			return uploadDoneMsg{SkillID: skillID, IDs: ids, Failures: failures}
		}
	}
	var cmd tea.Cmd
	s.pathInput, cmd = s.pathInput.Update(msg)
	return s, cmd
}

func (s *SkillScreen) handleUploadDone(msg uploadDoneMsg) (screen.Screen, tea.Cmd) {
	s.uploading = false
	var cmds []tea.Cmd
	for _, f := range msg.Failures {
		s.deps.Log().Warn("upload failed", zap.String("path", f.Path), zap.Error(f.Err))
		cmds = append(cmds, components.Notify(toast.KindError, f.Error()))
	}
	if n := len(msg.IDs); n > 0 {
		cmds = append(cmds,
			components.Notify(toast.KindSuccess, fmt.Sprintf("Uploaded %d document(s)", n)),
			s.refreshDocs(),
		)
	}
	return s, tea.Batch(cmds...)
}

func (s *SkillScreen) handleDocDeleted(msg docDeletedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.deps.Log().Error("delete document", zap.String("document_id", msg.ID), zap.Error(msg.Err))
		return s, components.Notify(toast.KindError, "Failed to delete document: "+api.Message(msg.Err))
	}
	s.selection.Remove(msg.ID)
	for i, d := range s.docs {
		if d.ID == msg.ID {
			s.docs = append(s.docs[:i:i], s.docs[i+1:]...)
			break
		}
	}
	if s.docCursor >= len(s.docs) {
		s.docCursor = max(len(s.docs)-1, 0)
	}
	return s, components.Notify(toast.KindSuccess, "Document deleted")
}

func (s *SkillScreen) generateRoadmap() tea.Cmd {
	if s.generating {
		return nil
	}
	s.generating = true
	backend, skillID, ids := s.deps.Backend, s.skill.ID, s.selection.IDs()
	return func() tea.Msg {
		res, err := backend.GenerateRoadmap(context.Background(), skillID, ids)
		return roadmapDoneMsg{SkillID: skillID, Result: res, Err: err}
	}
}

func (s *SkillScreen) handleRoadmapDone(msg roadmapDoneMsg) (screen.Screen, tea.Cmd) {
	s.generating = false
	if msg.Err != nil {
		s.deps.Log().Error("generate roadmap", zap.String("skill_id", s.skill.ID), zap.Error(msg.Err))
		return s, components.Notify(toast.KindError, "Roadmap generation failed: "+api.Message(msg.Err))
	}
	if msg.Result != nil {
		s.skill.Roadmap = msg.Result.Roadmap
		s.skill.RoadmapSVG = msg.Result.RoadmapSVG
	}
	next := s.deps.Screens.Roadmap(s.sess, s.skill)
	return s, tea.Batch(
		components.Notify(toast.KindSuccess, "Roadmap generated"),
		func() tea.Msg { return router.PushScreenMsg{Screen: next} },
	)
}

package dashboard

import (
	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/documents"
)

// skillsLoadedMsg carries the skill list and the display name.
type skillsLoadedMsg struct {
	Skills []api.Skill
	Name   string
	Err    error
}

// skillCreatedMsg is sent after the skills insert returns.
type skillCreatedMsg struct {
	Skill *api.Skill
	Err   error
}

// skillDeletedMsg is sent after the backend delete returns.
type skillDeletedMsg struct {
	Skill api.Skill
	Err   error
}

// bannerExpiredMsg clears the banner if it is still the one with Seq.
type bannerExpiredMsg struct {
	Seq int
}

// roadmapReadyMsg ends the document prompt: uploads are done and the
// roadmap was generated from whatever uploaded.
type roadmapReadyMsg struct {
	Skill    api.Skill
	Failures []documents.UploadFailure
	Err      error
}

// signedOutMsg is sent after the session is cleared.
type signedOutMsg struct {
	Err error
}

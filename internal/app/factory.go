package app

import (
	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/screens/analytics"
	"github.com/abhisek/sensei/internal/screens/coding"
	"github.com/abhisek/sensei/internal/screens/dashboard"
	"github.com/abhisek/sensei/internal/screens/login"
	"github.com/abhisek/sensei/internal/screens/placeholder"
	"github.com/abhisek/sensei/internal/screens/quiz"
	"github.com/abhisek/sensei/internal/screens/roadmap"
	"github.com/abhisek/sensei/internal/screens/skill"
)

// factory builds screens sharing one set of dependencies.
type factory struct {
	deps *screen.Deps
}

var _ screen.Screens = (*factory)(nil)

func (f *factory) Login() screen.Screen {
	return login.New(f.deps)
}

func (f *factory) Dashboard(sess *auth.Session) screen.Screen {
	return dashboard.New(f.deps, sess)
}

func (f *factory) Skill(sess *auth.Session, s api.Skill) screen.Screen {
	return skill.New(f.deps, sess, s)
}

func (f *factory) Roadmap(sess *auth.Session, s api.Skill) screen.Screen {
	return roadmap.New(f.deps, sess, s)
}

func (f *factory) Quiz(sess *auth.Session, s api.Skill) screen.Screen {
	return quiz.New(f.deps, sess, s)
}

// Coding challenges only exist for technical skills.
func (f *factory) Coding(sess *auth.Session, s api.Skill) screen.Screen {
	if !s.IsTechnical {
		return placeholder.New("Code · "+s.Title,
			"Coding challenges are available for technical skills.\nCreate a skill in the Technical category to practice code.")
	}
	return coding.New(f.deps, sess, s)
}

func (f *factory) Analytics(sess *auth.Session, s api.Skill) screen.Screen {
	return analytics.New(f.deps, sess, s)
}

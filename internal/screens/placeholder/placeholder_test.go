package placeholder

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestPlaceholder(t *testing.T) {
	p := New("Code · Piano", "Coding practice is only offered for technical skills.")
	assert.Equal(t, "Code · Piano", p.Title())
	assert.Nil(t, p.Init())

	next, cmd := p.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.Same(t, p, next)
	assert.Nil(t, cmd)

	out := p.View(100, 30)
	assert.Contains(t, out, "Not available")
	assert.Contains(t, out, "technical skills")
	assert.Equal(t, "esc", p.KeyHints()[0].Key)
}

package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
)

func newTestWelcome() (*WelcomeScreen, *int) {
	calls := 0
	next := func() screen.Screen {
		calls++
		return &screen.Named{Name: "login"}
	}
	return New(next), &calls
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestPhaseTransitions(t *testing.T) {
	w, _ := newTestWelcome()
	assert.False(t, strings.Contains(w.View(80, 24), "learning mentor"))

	sendTicks(w, 5)
	assert.Equal(t, 500*time.Millisecond, w.elapsed)

	sendTicks(w, 10)
	assert.Equal(t, 1500*time.Millisecond, w.elapsed)
	assert.Contains(t, w.View(80, 24), "learning mentor")
}

func TestKeypressDuringAnimationTransitions(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "login", msg.Screen.Title())
	assert.Equal(t, 1, *calls)
}

func TestNoAutoTransition(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 45)
	assert.Zero(t, *calls)
	assert.Equal(t, totalDur, w.elapsed)
}

func TestNextCalledOnce(t *testing.T) {
	w, calls := newTestWelcome()
	w.Update(tea.KeyPressMsg{Code: 'a'})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, *calls)

	// Ticks stop once the screen has been replaced.
	_, cmd = w.Update(tickMsg(time.Now()))
	assert.Nil(t, cmd)
}

func TestCompactBanner(t *testing.T) {
	assert.Contains(t, RenderBanner(40), "S E N S E I")
	assert.Contains(t, RenderBanner(80), "███████╗")
}

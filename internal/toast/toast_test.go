package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushAndExpire(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var s Stack

	a := s.Push(KindSuccess, "saved", now)
	b := s.PushFor(KindError, "failed", now.Add(time.Second), 10*time.Second)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, DefaultLifetime, a.Lifetime)
	assert.Equal(t, 2, s.Len())

	assert.Zero(t, s.Expire(now.Add(3*time.Second)))
	assert.Equal(t, 1, s.Expire(now.Add(4*time.Second)), "expires exactly at its lifetime")

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "failed", items[0].Message)

	assert.Equal(t, 1, s.Expire(now.Add(time.Minute)))
	assert.Zero(t, s.Len())
}

func TestPushFor_NonPositiveLifetime(t *testing.T) {
	var s Stack
	tt := s.PushFor(KindInfo, "x", time.Now(), 0)
	assert.Equal(t, DefaultLifetime, tt.Lifetime)
}

func TestDismiss(t *testing.T) {
	var s Stack
	now := time.Now()
	a := s.Push(KindInfo, "a", now)
	s.Push(KindInfo, "b", now)
	s.Dismiss(a.ID)
	s.Dismiss("missing")
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "b", s.Items()[0].Message)
}

func TestNextExpiry(t *testing.T) {
	var s Stack
	_, ok := s.NextExpiry()
	assert.False(t, ok)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.PushFor(KindInfo, "long", now, time.Minute)
	s.PushFor(KindInfo, "short", now, time.Second)
	next, ok := s.NextExpiry()
	assert.True(t, ok)
	assert.Equal(t, now.Add(time.Second), next)
}

func TestIcons(t *testing.T) {
	for _, k := range []Kind{KindSuccess, KindError, KindWarning, KindInfo} {
		assert.NotEmpty(t, k.Icon())
	}
}

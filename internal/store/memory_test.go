package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_LatestEmpty(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)

	_, err := s.Latest()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.History())
}

func TestMemoryStore_RetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	now := time.Now()

	s.SaveProbe(Probe{At: now.Add(-2 * time.Minute), Cities: 1})
	s.SaveProbe(Probe{At: now.Add(-time.Minute), Cities: 2})
	s.SaveProbe(Probe{At: now, Cities: 3, Error: "boom"})

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Cities)

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Cities)
	assert.False(t, latest.OK())
}

func TestMemoryStore_RetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	now := time.Now()

	s.SaveProbe(Probe{At: now.Add(-3 * time.Hour)})
	s.SaveProbe(Probe{At: now.Add(-2 * time.Hour)})
	s.SaveProbe(Probe{At: now, Cities: 7})

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, 7, history[0].Cities)
	assert.True(t, history[0].OK())
}

func TestMemoryStore_KeepsNewestEvenIfStale(t *testing.T) {
	s := NewMemoryStore(0, time.Minute)

	s.SaveProbe(Probe{At: time.Now().Add(-time.Hour), Cities: 4})

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, 4, latest.Cities)
}

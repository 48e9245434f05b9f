package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/destiny/internal/iocache"
	"github.com/huangsam/destiny/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedSession(t *testing.T, s *Session) []byte {
	t.Helper()
	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	return data
}

func TestLoadSessionNilStore(t *testing.T) {
	s := loadSession(nil, "default", time.Hour)
	require.NotNil(t, s)
	assert.False(t, s.Ready())
}

func TestLoadSessionHit(t *testing.T) {
	saved := NewSession()
	saved.Select(SlotA, 0)

	store := &iocache.MockCacheStore{}
	store.On("Get", "session:default").Return(storedSession(t, saved), currentSessionVersion, time.Now().Unix(), nil)

	s := loadSession(store, "default", time.Hour)
	assert.Equal(t, saved.ID(), s.ID())
	a, ok := s.Selection(SlotA)
	require.True(t, ok)
	assert.Equal(t, 0, a)
	store.AssertExpectations(t)
}

func TestLoadSessionMisses(t *testing.T) {
	saved := NewSession()
	saved.Select(SlotA, 0)

	tests := []struct {
		name    string
		data    []byte
		version int
		ts      int64
		err     error
	}{
		{"store error", nil, 0, 0, errors.New("no rows")},
		{"old version", storedSession(t, saved), currentSessionVersion + 1, time.Now().Unix(), nil},
		{"stale", storedSession(t, saved), currentSessionVersion, time.Now().Add(-2 * time.Hour).Unix(), nil},
		{"corrupt", []byte("{not json"), currentSessionVersion, time.Now().Unix(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockCacheStore{}
			store.On("Get", "session:default").Return(tt.data, tt.version, tt.ts, tt.err)

			s := loadSession(store, "default", time.Hour)
			assert.NotEqual(t, saved.ID(), s.ID())
			assert.False(t, s.Ready())
		})
	}
}

func TestSaveSession(t *testing.T) {
	s := NewSession()
	s.Select(SlotB, 4)

	store := &iocache.MockCacheStore{}
	store.On("Set", "session:work", mock.MatchedBy(func(data []byte) bool {
		var snap schema.Session
		return json.Unmarshal(data, &snap) == nil && snap.SignB != nil && *snap.SignB == 4
	}), currentSessionVersion, mock.AnythingOfType("int64")).Return(nil)

	require.NoError(t, saveSession(store, "work", s))
	store.AssertExpectations(t)

	assert.NoError(t, saveSession(nil, "work", s))
}

func TestSaveSessionError(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	err := saveSession(store, "default", NewSession())
	assert.ErrorContains(t, err, "disk full")
}

func TestDropSession(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Delete", "session:default").Return(nil).Once()
	store.On("Delete", "session:broken").Return(errors.New("gone")).Once()

	assert.NoError(t, dropSession(store, "default"))
	assert.ErrorContains(t, dropSession(store, "broken"), "gone")
	assert.NoError(t, dropSession(nil, "default"))
	store.AssertExpectations(t)
}

package itemstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sehyoun/nihongobot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "items.json"))
}

func TestMissingFileStartsEmpty(t *testing.T) {
	s := tempStore(t)
	assert.Equal(t, 0, s.Len())
}

func TestUnreadableFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := New(path)
	assert.Equal(t, 0, s.Len())
}

func TestAppendAssignsMonotonicIDs(t *testing.T) {
	s := tempStore(t)

	id1, err := s.Append(models.PracticeItem{Level: models.LevelN5, JP: "おはよう", KR: "안녕"})
	require.NoError(t, err)
	id2, err := s.Append(models.PracticeItem{Level: models.LevelN5, JP: "こんばんは", KR: "안녕하세요"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)
}

func TestIDsStayMonotonicAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	s := New(path)

	for i := 0; i < 3; i++ {
		_, err := s.Append(models.PracticeItem{Level: models.LevelN3, JP: "文", KR: "문장"})
		require.NoError(t, err)
	}

	// A fresh store over the same file must continue the sequence.
	s2 := New(path)
	id, err := s2.Append(models.PracticeItem{Level: models.LevelN3, JP: "文", KR: "문장"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	s.Reload()
	id, err = s.Append(models.PracticeItem{Level: models.LevelN3, JP: "文", KR: "문장"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestByLevelAndByID(t *testing.T) {
	s := tempStore(t)

	id, err := s.Append(models.PracticeItem{Level: models.LevelN5, JP: "水", KR: "물"})
	require.NoError(t, err)
	_, err = s.Append(models.PracticeItem{Level: models.LevelN1, JP: "雰囲気", KR: "분위기"})
	require.NoError(t, err)

	assert.Len(t, s.ByLevel(models.LevelN5), 1)
	assert.Len(t, s.ByLevel(models.LevelN1), 1)
	assert.Empty(t, s.ByLevel(models.LevelN3))
	assert.Equal(t, 1, s.CountByLevel(models.LevelN5))

	item, err := s.ByID(id)
	require.NoError(t, err)
	assert.Equal(t, "水", item.JP)

	_, err = s.ByID(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	s := New(path)

	_, err := s.Append(models.PracticeItem{Level: models.LevelN4, JP: "駅", KR: "역"})
	require.NoError(t, err)

	// No temp file left behind and the content is readable by a new store.
	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))

	s2 := New(path)
	assert.Equal(t, 1, s2.Len())
}

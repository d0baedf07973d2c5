package drafts_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit-dev/shopctl/domain"
	"github.com/shopkit-dev/shopctl/drafts"
)

func openStore(t *testing.T, path string, ttl time.Duration) *drafts.Store {
	t.Helper()
	s, err := drafts.Open(path, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAssignsIDAndTimestamps(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "drafts.db"), 0)

	d := &drafts.Draft{Name: "winter mugs", Product: domain.ProductInput{Name: "Mug"}}
	require.NoError(t, s.Save(d))

	assert.NotEmpty(t, d.ID)
	assert.False(t, d.CreatedAt.IsZero())
	assert.False(t, d.SavedAt.IsZero())

	loaded, err := s.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "winter mugs", loaded.Name)
	assert.Equal(t, "Mug", loaded.Product.Name)
}

func TestResaveKeepsIDAndAdvancesSavedAt(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "drafts.db"), 0)

	d := &drafts.Draft{Name: "draft"}
	require.NoError(t, s.Save(d))
	id, created, saved := d.ID, d.CreatedAt, d.SavedAt

	time.Sleep(5 * time.Millisecond)
	d.Product.Price = 2500
	require.NoError(t, s.Save(d))

	assert.Equal(t, id, d.ID)
	assert.Equal(t, created, d.CreatedAt)
	assert.True(t, d.SavedAt.After(saved))

	loaded, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), loaded.Product.Price)
}

func TestCompletionPercentage(t *testing.T) {
	d := &drafts.Draft{Completed: map[string]bool{}}
	assert.Equal(t, 0, d.Completion())

	d.Completed["basics"] = true
	d.Completed["pricing"] = true
	assert.Equal(t, 50, d.Completion())

	for _, section := range drafts.Sections {
		d.Completed[section] = true
	}
	assert.Equal(t, 100, d.Completion())

	// Unknown sections don't count.
	d = &drafts.Draft{Completed: map[string]bool{"bogus": true}}
	assert.Equal(t, 0, d.Completion())
}

func TestListOrdersByMostRecentSave(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "drafts.db"), 0)

	older := &drafts.Draft{Name: "older"}
	require.NoError(t, s.Save(older))
	time.Sleep(5 * time.Millisecond)
	newer := &drafts.Draft{Name: "newer"}
	require.NoError(t, s.Save(newer))

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "newer", all[0].Name)
	assert.Equal(t, "older", all[1].Name)
}

func TestResumeReturnsLatestDraft(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "drafts.db"), 0)

	_, err := s.Resume()
	assert.ErrorIs(t, err, drafts.ErrNoDrafts)

	require.NoError(t, s.Save(&drafts.Draft{Name: "first"}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.Save(&drafts.Draft{Name: "second"}))

	latest, err := s.Resume()
	require.NoError(t, err)
	assert.Equal(t, "second", latest.Name)
}

func TestDelete(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "drafts.db"), 0)

	d := &drafts.Draft{Name: "doomed"}
	require.NoError(t, s.Save(d))
	require.NoError(t, s.Delete(d.ID))

	_, err := s.Get(d.ID)
	assert.ErrorIs(t, err, drafts.ErrNotFound)

	assert.NoError(t, s.Delete("missing"), "deleting a missing draft is not an error")
}

func TestOpenPrunesExpiredDrafts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.db")

	s := openStore(t, path, 0)
	d := &drafts.Draft{Name: "stale"}
	require.NoError(t, s.Save(d))
	require.NoError(t, s.Close())

	// Reopening with a tiny TTL makes the just-saved draft already stale.
	time.Sleep(10 * time.Millisecond)
	s2 := openStore(t, path, time.Millisecond)

	_, err := s2.Get(d.ID)
	assert.ErrorIs(t, err, drafts.ErrNotFound)
	all, err := s2.List()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOpenKeepsFreshDrafts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.db")

	s := openStore(t, path, 0)
	d := &drafts.Draft{Name: "fresh"}
	require.NoError(t, s.Save(d))
	require.NoError(t, s.Close())

	s2 := openStore(t, path, drafts.DefaultTTL)
	loaded, err := s2.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh", loaded.Name)
}

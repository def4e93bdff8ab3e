package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "launcher/internal/errors"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "launcher.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = j.Close()
	})
	return j
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeJournal))
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.Record(ctx, Entry{At: base, Remote: "v1.0.0", Decision: "not-installed", Outcome: "launch"}))
	require.NoError(t, j.Record(ctx, Entry{At: base.Add(time.Hour), Installed: "v1.0.0", Remote: "v1.1.0", Decision: "update-available", Outcome: "exit", Detail: "download failed: status 404"}))

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "update-available", entries[0].Decision)
	assert.Equal(t, "download failed: status 404", entries[0].Detail)
	assert.True(t, entries[0].At.Equal(base.Add(time.Hour)))
	assert.Equal(t, "v1.0.0", entries[0].Installed)

	assert.Equal(t, "not-installed", entries[1].Decision)
	assert.Empty(t, entries[1].Installed)
	assert.Greater(t, entries[0].ID, entries[1].ID)
}

func TestRecentLimit(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	for i := 0; i < DefaultRecent+5; i++ {
		require.NoError(t, j.Record(ctx, Entry{Decision: "up-to-date", Outcome: "launch"}))
	}

	entries, err := j.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = j.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, DefaultRecent)
}

func TestRecordStampsTime(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	fixed := time.Date(2024, 12, 24, 8, 30, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	require.NoError(t, j.Record(ctx, Entry{Decision: "no-remote-available", Outcome: "launch"}))

	entries, err := j.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].At.Equal(fixed))
}

func TestReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "launcher.db")

	j, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, Entry{Decision: "up-to-date", Outcome: "launch"}))
	require.NoError(t, j.Close())

	j, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() {
		_ = j.Close()
	}()
	entries, err := j.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, path, j.Path())
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("/tmp/launcher.db")
	assert.Contains(t, dsn, "file:")
	assert.Contains(t, dsn, "journal_mode%28WAL%29")
	assert.Contains(t, dsn, "busy_timeout%283000%29")
}

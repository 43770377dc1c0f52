package fossil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazyfossil/internal/models"
)

func logEntries(revs ...string) []models.RevisionLogEntry {
	entries := make([]models.RevisionLogEntry, 0, len(revs))
	for _, r := range revs {
		entries = append(entries, models.RevisionLogEntry{Revision: r, Raw: r + " 2024-01-01 comment"})
	}
	return entries
}

func TestParseRevisionLog(t *testing.T) {
	raw := "c3f9aa 2024-03-01 [trunk] third\nb2e810 2024-02-01 [trunk] second\na1d7ff 2024-01-01 [trunk] first\n"

	entries := parseRevisionLog(raw)
	require.Len(t, entries, 3)
	assert.Equal(t, "c3f9aa", entries[0].Revision)
	assert.Equal(t, "b2e810", entries[1].Revision)
	assert.Equal(t, "a1d7ff", entries[2].Revision)
	assert.Equal(t, "c3f9aa 2024-03-01 [trunk] third", entries[0].Raw)
}

// The picker names follow the historical contract: "previous" walks up the
// newest-first list toward newer revisions, "next" walks down toward older
// ones.
func TestPickPreviousRevision(t *testing.T) {
	entries := logEntries("R3", "R2", "R1")

	assert.Equal(t, "R3", pickPreviousRevision(entries, "R2"))
	assert.Equal(t, "R2", pickPreviousRevision(entries, "R1"))
	assert.Equal(t, "", pickPreviousRevision(entries, "R3"), "newest has no previous")
	assert.Equal(t, "R3", pickPreviousRevision(entries, ""), "absent rev seeds before the beginning")
	assert.Equal(t, "", pickPreviousRevision(entries, "R9"), "unknown rev yields absent")
	assert.Equal(t, "", pickPreviousRevision(nil, "R2"))
}

func TestPickNextRevision(t *testing.T) {
	entries := logEntries("R3", "R2", "R1")

	assert.Equal(t, "R1", pickNextRevision(entries, "R2"))
	assert.Equal(t, "R2", pickNextRevision(entries, "R3"))
	assert.Equal(t, "", pickNextRevision(entries, "R1"), "oldest has no next")
	assert.Equal(t, "R1", pickNextRevision(entries, ""), "absent rev yields the oldest entry")
	assert.Equal(t, "", pickNextRevision(entries, "R9"))
	assert.Equal(t, "", pickNextRevision(nil, "R2"))
}

func finfoLogInvoker(raw string) *fakeInvoker {
	return &fakeInvoker{responses: map[string]models.Result{
		"finfo": {ExitOK: true, Output: raw},
	}}
}

func TestPreviousAndNextRevision(t *testing.T) {
	raw := "R3 2024-03-01 third\nR2 2024-02-01 second\nR1 2024-01-01 first\n"

	t.Run("previous", func(t *testing.T) {
		inv := finfoLogInvoker(raw)
		svc := NewService(inv)
		got, err := svc.PreviousRevision(context.Background(), "/co/file.txt", "R2")
		require.NoError(t, err)
		assert.Equal(t, "R3", got)
		require.Len(t, inv.calls, 1)
		assert.Equal(t, []string{"finfo", "-l", "-b", "file.txt"}, inv.calls[0].args)
		assert.Equal(t, "/co", inv.calls[0].cwd)
	})

	t.Run("next", func(t *testing.T) {
		svc := NewService(finfoLogInvoker(raw))
		got, err := svc.NextRevision(context.Background(), "/co/file.txt", "R2")
		require.NoError(t, err)
		assert.Equal(t, "R1", got)
	})

	t.Run("absent file", func(t *testing.T) {
		inv := finfoLogInvoker(raw)
		svc := NewService(inv)
		prev, err := svc.PreviousRevision(context.Background(), "", "R2")
		require.NoError(t, err)
		next, err := svc.NextRevision(context.Background(), "", "R2")
		require.NoError(t, err)
		assert.Empty(t, prev)
		assert.Empty(t, next)
		assert.Empty(t, inv.calls, "no invocation for an absent file")
	})

	t.Run("empty log", func(t *testing.T) {
		svc := NewService(finfoLogInvoker(""))
		prev, err := svc.PreviousRevision(context.Background(), "/co/file.txt", "")
		require.NoError(t, err)
		assert.Empty(t, prev)
	})
}

func TestFileState(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected models.FileState
	}{
		{"edited file", "edited 4f0c9e61 2024-02-01 10:00:00\n", models.StateEdited},
		{"unchanged file", "unchanged 4f0c9e61 2024-02-01 10:00:00\n", models.StateUpToDate},
		{"unregistered file", "unknown\n", models.StateUnregistered},
		{"empty output", "", models.StateUnregistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInvoker{responses: map[string]models.Result{
				"finfo": {ExitOK: true, Output: tt.raw},
			}}
			svc := NewService(inv)
			got, err := svc.FileState(context.Background(), "/co/file.txt")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			require.Len(t, inv.calls, 1)
			assert.Equal(t, []string{"finfo", "-s", "file.txt"}, inv.calls[0].args)
		})
	}
}

func TestWorkingRevision(t *testing.T) {
	t.Run("registered file", func(t *testing.T) {
		inv := &fakeInvoker{responses: map[string]models.Result{
			"finfo": {ExitOK: true, Output: "edited 4f0c9e61 2024-02-01 10:00:00\n"},
		}}
		svc := NewService(inv)
		got, err := svc.WorkingRevision(context.Background(), "/co/file.txt")
		require.NoError(t, err)
		assert.Equal(t, "4f0c9e61", got)
	})

	t.Run("unregistered file", func(t *testing.T) {
		inv := &fakeInvoker{responses: map[string]models.Result{
			"finfo": {ExitOK: true, Output: "unknown file.txt\n"},
		}}
		svc := NewService(inv)
		got, err := svc.WorkingRevision(context.Background(), "/co/file.txt")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

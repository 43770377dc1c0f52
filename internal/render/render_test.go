package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazyfossil/internal/models"
)

func TestStatusListPreservesOrder(t *testing.T) {
	statuses := []models.FileStatus{
		{Path: "a.txt", State: models.StateEdited},
		{Path: "b.txt", State: models.StateAdded},
		{Path: "c.txt", State: models.StateUnregistered},
	}

	out := StatusList(statuses, Options{Width: 80})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "edited")
	assert.Contains(t, lines[0], "a.txt")
	assert.Contains(t, lines[1], "added")
	assert.Contains(t, lines[1], "b.txt")
	assert.Contains(t, lines[2], "unregistered")
	assert.Contains(t, lines[2], "c.txt")
}

func TestStatusListTruncatesLongPaths(t *testing.T) {
	long := strings.Repeat("d/", 100) + "file.txt"
	out := StatusList([]models.FileStatus{{Path: long, State: models.StateEdited}}, Options{Width: 40})
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, "file.txt")
}

func TestStatusListIcons(t *testing.T) {
	statuses := []models.FileStatus{{Path: "main.go", State: models.StateEdited}}

	plain := StatusList(statuses, Options{Width: 80})
	iconed := StatusList(statuses, Options{Width: 80, ShowIcons: true})
	assert.Greater(t, len(iconed), len(plain))
}

func TestInfoShortensCheckoutID(t *testing.T) {
	info := models.RepoInfo{
		CheckoutID:   "1234567890abcdef",
		CheckoutTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Tags:         "trunk",
	}

	out := Info(info, Options{})
	assert.Contains(t, out, "checkout: 123456789")
	assert.NotContains(t, out, "1234567890")
	assert.Contains(t, out, "2024-01-02 03:04:05 UTC")
	assert.Contains(t, out, "tags:     trunk")
}

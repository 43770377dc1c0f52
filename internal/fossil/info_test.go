package fossil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazyfossil/internal/models"
)

const sampleInfo = `project-name: widgets
repository:   /home/u/fossils/widgets.fossil
local-root:   /home/u/src/widgets/
project-code: 9d2f8c41e6b0a35477c1d90f2ab84762aa1f03c7
checkout:     1234567890abcdef1234567890abcdef12345678 2024-01-02 03:04:05 UTC
parent:       feedface00112233445566778899aabbccddeeff 2024-01-01 12:00:00 UTC
tags:         trunk, release
comment:      tweak the flux capacitor (user: u)
`

func infoInvoker(raw string) *fakeInvoker {
	return &fakeInvoker{responses: map[string]models.Result{
		"info": {ExitOK: true, Output: raw},
	}}
}

func TestInfo(t *testing.T) {
	svc := NewService(infoInvoker(sampleInfo))

	info, err := svc.Info(context.Background(), "/home/u/src/widgets")
	require.NoError(t, err)

	assert.Equal(t, "1234567890abcdef1234567890abcdef12345678", info.CheckoutID)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), info.CheckoutTime)
	assert.Equal(t, "trunk, release", info.Tags)
	assert.Equal(t, "/home/u/src/widgets", info.LocalRoot)
}

func TestInfoMissingCheckoutLine(t *testing.T) {
	svc := NewService(infoInvoker("tags: trunk\n"))

	_, err := svc.Info(context.Background(), "/co")
	assert.ErrorIs(t, err, ErrParseMismatch)
}

func TestInfoMissingTagsLine(t *testing.T) {
	svc := NewService(infoInvoker("checkout: abcdef1234 2024-01-02 03:04:05 UTC\n"))

	_, err := svc.Info(context.Background(), "/co")
	assert.ErrorIs(t, err, ErrParseMismatch)
}

func TestInfoBadTimestamp(t *testing.T) {
	svc := NewService(infoInvoker("checkout: abcdef1234 edge-of-time UTC\ntags: trunk\n"))

	_, err := svc.Info(context.Background(), "/co")
	assert.ErrorIs(t, err, ErrParseMismatch)
}

func TestCheckoutIDTruncatesToNine(t *testing.T) {
	svc := NewService(infoInvoker("checkout: 1234567890abcdef 2024-01-02 03:04:05 UTC\ntags: trunk\n"))

	id, err := svc.CheckoutID(context.Background(), "/co")
	require.NoError(t, err)
	assert.Equal(t, "123456789", id)
}

func TestLocalRoot(t *testing.T) {
	t.Run("trailing slash cleaned", func(t *testing.T) {
		svc := NewService(infoInvoker(sampleInfo))
		root, err := svc.LocalRoot(context.Background(), "/co")
		require.NoError(t, err)
		assert.Equal(t, "/home/u/src/widgets", root)
	})

	t.Run("missing line is fatal", func(t *testing.T) {
		svc := NewService(infoInvoker("tags: trunk\n"))
		_, err := svc.LocalRoot(context.Background(), "/co")
		assert.ErrorIs(t, err, ErrParseMismatch)
	})
}

func TestInfoNeverCachedAcrossCalls(t *testing.T) {
	inv := infoInvoker(sampleInfo)
	svc := NewService(inv)

	_, err := svc.Info(context.Background(), "/co")
	require.NoError(t, err)
	_, err = svc.Info(context.Background(), "/co")
	require.NoError(t, err)
	assert.Len(t, inv.calls, 2)
}

package alerts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/domain/alerts"
	"merchtable/internal/infrastructure/storage/memory"
)

func newRegister(t *testing.T) (*alerts.Register, *memory.AlertRepo) {
	t.Helper()
	repo := memory.NewAlertRepo(memory.NewStore())
	return alerts.NewRegister(repo, nil), repo
}

func TestEnsureActiveAlert_Idempotent(t *testing.T) {
	register, _ := newRegister(t)
	ctx := context.Background()
	itemID := id.New()

	created, err := register.EnsureActiveAlert(ctx, itemID, 5)
	require.NoError(t, err)
	assert.True(t, created)

	for i := 0; i < 5; i++ {
		created, err = register.EnsureActiveAlert(ctx, itemID, 5)
		require.NoError(t, err)
		assert.False(t, created)
	}

	active, err := register.List(ctx, alerts.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, itemID, active[0].ItemID)
	assert.Equal(t, 5, active[0].ThresholdAtCreation)
}

func TestEnsureActiveAlert_NewAlertAfterResolution(t *testing.T) {
	register, _ := newRegister(t)
	ctx := context.Background()
	itemID := id.New()

	created, err := register.EnsureActiveAlert(ctx, itemID, 5)
	require.NoError(t, err)
	require.True(t, created)

	active, err := register.List(ctx, alerts.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.NoError(t, register.Resolve(ctx, active[0].ID))

	// Once resolved, the item is eligible for a fresh alert.
	created, err = register.EnsureActiveAlert(ctx, itemID, 3)
	require.NoError(t, err)
	assert.True(t, created)

	all, err := register.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestResolve_MissingOrAlreadyResolved(t *testing.T) {
	register, _ := newRegister(t)
	ctx := context.Background()

	err := register.Resolve(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))

	itemID := id.New()
	_, err = register.EnsureActiveAlert(ctx, itemID, 5)
	require.NoError(t, err)

	active, err := register.List(ctx, alerts.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	alertID := active[0].ID

	require.NoError(t, register.Resolve(ctx, alertID))

	err = register.Resolve(ctx, alertID)
	assert.True(t, apperror.IsNotFound(err), "resolving twice is an error")
}

func TestResolveActiveForItem_AbsenceIsNotAnError(t *testing.T) {
	register, _ := newRegister(t)
	ctx := context.Background()

	resolved, err := register.ResolveActiveForItem(ctx, id.New())
	require.NoError(t, err)
	assert.False(t, resolved)

	itemID := id.New()
	_, err = register.EnsureActiveAlert(ctx, itemID, 2)
	require.NoError(t, err)

	resolved, err = register.ResolveActiveForItem(ctx, itemID)
	require.NoError(t, err)
	assert.True(t, resolved)

	active, err := register.List(ctx, alerts.StatusActive)
	require.NoError(t, err)
	assert.Empty(t, active)
}

// recordingNotifier captures notifications; failing ones must not undo the
// alert.
type recordingNotifier struct {
	calls int
	err   error
}

func (n *recordingNotifier) NotifyLowStock(ctx context.Context, alert *alerts.Alert) error {
	n.calls++
	return n.err
}

func TestEnsureActiveAlert_NotifierFailureDoesNotRollBack(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("webhook down")}
	repo := memory.NewAlertRepo(memory.NewStore())
	register := alerts.NewRegister(repo, notifier)
	ctx := context.Background()

	created, err := register.EnsureActiveAlert(ctx, id.New(), 5)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, notifier.calls)

	active, err := register.List(ctx, alerts.StatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

package sales_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/domain/sales"
)

func TestSession_StagingOrderAndIncrement(t *testing.T) {
	session := sales.OpenSession(id.New())

	first, second := id.New(), id.New()
	require.NoError(t, session.StageItem(first, 2))
	require.NoError(t, session.StageItem(second, 1))
	require.NoError(t, session.StageItem(first, 3)) // increments, keeps position

	items := session.Items()
	require.Len(t, items, 2)
	assert.Equal(t, first, items[0].ItemID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, second, items[1].ItemID)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 2, session.Len())
}

func TestSession_RejectsNonPositiveQuantity(t *testing.T) {
	session := sales.OpenSession(id.New())
	itemID := id.New()

	err := session.StageItem(itemID, 0)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))

	err = session.StageItem(itemID, -3)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))

	require.NoError(t, session.StageItem(itemID, 1))
	err = session.UpdateStaged(itemID, 0)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))
}

func TestSession_UpdateAndRemove(t *testing.T) {
	session := sales.OpenSession(id.New())
	first, second := id.New(), id.New()

	require.NoError(t, session.StageItem(first, 2))
	require.NoError(t, session.StageItem(second, 4))

	require.NoError(t, session.UpdateStaged(second, 1))
	items := session.Items()
	assert.Equal(t, 1, items[1].Quantity)

	err := session.UpdateStaged(id.New(), 1)
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, session.RemoveStaged(first))
	items = session.Items()
	require.Len(t, items, 1)
	assert.Equal(t, second, items[0].ItemID)

	err = session.RemoveStaged(first)
	assert.True(t, apperror.IsNotFound(err))
}

// Double-submitted requests from the same actor hit one session handle
// from separate goroutines; every increment must land and nothing may
// trip the race detector.
func TestSession_ConcurrentStaging(t *testing.T) {
	session := sales.OpenSession(id.New())
	itemA, itemB := id.New(), id.New()

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			require.NoError(t, session.StageItem(itemA, 1))
		}()
		go func() {
			defer wg.Done()
			require.NoError(t, session.StageItem(itemB, 2))
		}()
		go func() {
			defer wg.Done()
			_ = session.Items()
			_ = session.Len()
		}()
	}
	wg.Wait()

	items := session.Items()
	require.Len(t, items, 2)
	total := map[id.ID]int{}
	for _, line := range items {
		total[line.ItemID] = line.Quantity
	}
	assert.Equal(t, writers, total[itemA])
	assert.Equal(t, 2*writers, total[itemB])
}

func TestSession_Clear(t *testing.T) {
	session := sales.OpenSession(id.New())
	require.NoError(t, session.StageItem(id.New(), 1))
	require.NoError(t, session.StageItem(id.New(), 2))

	session.Clear()
	assert.Equal(t, 0, session.Len())
	assert.Empty(t, session.Items())

	// Cart stays usable after clearing.
	require.NoError(t, session.StageItem(id.New(), 1))
	assert.Equal(t, 1, session.Len())
}

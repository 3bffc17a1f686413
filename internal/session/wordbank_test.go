package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordBankPlacement(t *testing.T) {
	b := NewWordBank([]string{"α", "β", "γ"}, 2, nil)
	assert.Equal(t, []string{"α", "β", "γ"}, b.Order())

	require.NoError(t, b.Place("α", 1))
	at, ok := b.SlotOf("α")
	assert.True(t, ok)
	assert.Equal(t, 1, at)
	assert.Equal(t, []string{"β", "γ"}, b.Available())

	// Placing again into the same slot is a no-op.
	require.NoError(t, b.Place("α", 1))
	assert.ErrorIs(t, b.Place("α", 0), ErrWordPlaced)
	assert.ErrorIs(t, b.Place("δ", 0), ErrUnknownWord)
	assert.ErrorIs(t, b.Place("β", 2), ErrSlotOutOfRange)

	require.NoError(t, b.Place("β", 1))
	assert.Equal(t, []string{"", "β"}, b.Slots())
	_, ok = b.SlotOf("α")
	assert.False(t, ok)
}

func TestWordBankClickToPlace(t *testing.T) {
	b := NewWordBank([]string{"α", "β", "γ"}, 2, nil)

	slot, err := b.ClickToPlaceFirstEmpty("γ")
	require.NoError(t, err)
	assert.Equal(t, 0, slot)

	slot, err = b.ClickToPlaceFirstEmpty("α")
	require.NoError(t, err)
	assert.Equal(t, 1, slot)

	_, err = b.ClickToPlaceFirstEmpty("β")
	assert.ErrorIs(t, err, ErrNoEmptySlot)
	_, err = b.ClickToPlaceFirstEmpty("γ")
	assert.ErrorIs(t, err, ErrWordPlaced)

	word, err := b.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, "γ", word)

	slot, err = b.ClickToPlaceFirstEmpty("β")
	require.NoError(t, err)
	assert.Equal(t, 0, slot)
}

func TestWordBankMove(t *testing.T) {
	b := NewWordBank([]string{"α", "β", "γ"}, 3, nil)
	require.NoError(t, b.Place("α", 0))
	require.NoError(t, b.Place("β", 2))

	require.NoError(t, b.Move(0, 1))
	assert.Equal(t, []string{"", "α", "β"}, b.Slots())

	require.NoError(t, b.Move(1, 2))
	assert.Equal(t, []string{"", "β", "α"}, b.Slots())

	assert.ErrorIs(t, b.Move(0, 1), ErrSlotEmpty)
	assert.ErrorIs(t, b.Move(1, 5), ErrSlotOutOfRange)
	require.NoError(t, b.Move(2, 2))
	assert.Equal(t, []string{"", "β", "α"}, b.Slots())
}

func TestWordBankRemoveAndClear(t *testing.T) {
	b := NewWordBank([]string{"α", "β"}, 2, nil)
	word, err := b.Remove(1)
	require.NoError(t, err)
	assert.Empty(t, word)

	require.NoError(t, b.Place("α", 0))
	require.NoError(t, b.Place("β", 1))
	b.Clear()
	assert.Equal(t, []string{"", ""}, b.Slots())
	assert.Equal(t, []string{"α", "β"}, b.Available())
}

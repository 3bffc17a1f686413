package session

import (
	"fmt"
	"math/rand"
)

// WordBank tracks which bank word sits in which slot. Every word is either
// available or placed in exactly one slot.
type WordBank struct {
	order  []string
	slots  []string
	placed map[string]int
}

// NewWordBank shuffles words once with rng and prepares slotCount empty slots.
func NewWordBank(words []string, slotCount int, rng *rand.Rand) *WordBank {
	order := make([]string, len(words))
	copy(order, words)
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return &WordBank{
		order:  order,
		slots:  make([]string, slotCount),
		placed: make(map[string]int, slotCount),
	}
}

// Order is the display order fixed at construction.
func (b *WordBank) Order() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Slots returns slot contents; "" marks an empty slot.
func (b *WordBank) Slots() []string {
	out := make([]string, len(b.slots))
	copy(out, b.slots)
	return out
}

// Available lists unplaced words in display order.
func (b *WordBank) Available() []string {
	out := make([]string, 0, len(b.order))
	for _, w := range b.order {
		if _, ok := b.placed[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}

// SlotOf reports where word is placed.
func (b *WordBank) SlotOf(word string) (int, bool) {
	i, ok := b.placed[word]
	return i, ok
}

func (b *WordBank) known(word string) bool {
	for _, w := range b.order {
		if w == word {
			return true
		}
	}
	return false
}

func (b *WordBank) checkSlot(slot int) error {
	if slot < 0 || slot >= len(b.slots) {
		return fmt.Errorf("slot %d of %d: %w", slot, len(b.slots), ErrSlotOutOfRange)
	}
	return nil
}

// Place puts an available word into slot. A word already in that slot goes
// back to the bank. A word placed elsewhere must be removed first.
func (b *WordBank) Place(word string, slot int) error {
	if !b.known(word) {
		return fmt.Errorf("%q: %w", word, ErrUnknownWord)
	}
	if err := b.checkSlot(slot); err != nil {
		return err
	}
	if at, ok := b.placed[word]; ok {
		if at == slot {
			return nil
		}
		return fmt.Errorf("%q in slot %d: %w", word, at, ErrWordPlaced)
	}
	if prev := b.slots[slot]; prev != "" {
		delete(b.placed, prev)
	}
	b.slots[slot] = word
	b.placed[word] = slot
	return nil
}

// Remove empties slot and returns the word it held ("" when already empty).
func (b *WordBank) Remove(slot int) (string, error) {
	if err := b.checkSlot(slot); err != nil {
		return "", err
	}
	word := b.slots[slot]
	if word != "" {
		delete(b.placed, word)
		b.slots[slot] = ""
	}
	return word, nil
}

// ClickToPlaceFirstEmpty puts an available word into the first empty slot.
func (b *WordBank) ClickToPlaceFirstEmpty(word string) (int, error) {
	if !b.known(word) {
		return -1, fmt.Errorf("%q: %w", word, ErrUnknownWord)
	}
	if at, ok := b.placed[word]; ok {
		return -1, fmt.Errorf("%q in slot %d: %w", word, at, ErrWordPlaced)
	}
	for i, w := range b.slots {
		if w == "" {
			return i, b.Place(word, i)
		}
	}
	return -1, ErrNoEmptySlot
}

// Move drags the word in from onto to. A word already in to swaps into from.
func (b *WordBank) Move(from, to int) error {
	if err := b.checkSlot(from); err != nil {
		return err
	}
	if err := b.checkSlot(to); err != nil {
		return err
	}
	word := b.slots[from]
	if word == "" {
		return fmt.Errorf("slot %d: %w", from, ErrSlotEmpty)
	}
	if from == to {
		return nil
	}
	displaced, _ := b.Remove(to)
	_, _ = b.Remove(from)
	if err := b.Place(word, to); err != nil {
		return err
	}
	if displaced != "" {
		return b.Place(displaced, from)
	}
	return nil
}

// Clear returns every word to the bank, keeping the display order.
func (b *WordBank) Clear() {
	for i := range b.slots {
		b.slots[i] = ""
	}
	b.placed = make(map[string]int, len(b.slots))
}

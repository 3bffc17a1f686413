package session

import (
	"errors"
	"fmt"

	"github.com/gokatarajesh/vitaena/internal/grading"
)

// State is the interaction phase of one exercise visit.
type State int

const (
	Unanswered State = iota
	Answering
	Checked
)

func (s State) String() string {
	switch s {
	case Unanswered:
		return "unanswered"
	case Answering:
		return "answering"
	case Checked:
		return "checked"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText renders the state name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Invalid transitions leave the instance untouched and report one of these.
var (
	ErrChecked        = errors.New("exercise is already checked")
	ErrNotChecked     = errors.New("exercise has not been checked")
	ErrNotReference   = errors.New("only open questions have reference answers")
	ErrSlotOutOfRange = errors.New("slot out of range")
	ErrUnknownWord    = errors.New("word is not in the bank")
	ErrWordPlaced     = errors.New("word is already placed in another slot")
	ErrNoEmptySlot    = errors.New("no empty slot left")
	ErrSlotEmpty      = errors.New("slot is empty")
	ErrNoWordBank     = errors.New("exercise has no word bank")
	ErrNoAudio        = errors.New("exercise has no audio")
	ErrNotFound       = errors.New("session not found")

	ErrIncomplete   = grading.ErrIncomplete
	ErrNotGradeable = grading.ErrNotGradeable
	ErrInvalidValue = grading.ErrInvalidValue
)

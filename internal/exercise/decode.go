package exercise

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnknownType is returned for a discriminant outside Types().
var ErrUnknownType = errors.New("unknown exercise type")

type typeProbe struct {
	ID   string `json:"id" yaml:"id"`
	Type Type   `json:"type" yaml:"type"`
}

// New returns an empty variant for t.
func New(t Type) (Exercise, error) {
	switch t {
	case TypeMultipleChoice:
		return &MultipleChoice{}, nil
	case TypeFillInTheBlank:
		return &FillInTheBlank{}, nil
	case TypeAudio:
		return &Audio{}, nil
	case TypeReadingComprehension:
		return &ReadingComprehension{}, nil
	case TypeTrueFalse:
		return &TrueFalse{}, nil
	case TypeWordFill:
		return &WordFill{}, nil
	case TypeSelectFill, TypeGrammarFill:
		return &SelectFill{}, nil
	case TypeTableChoice:
		return &TableChoice{}, nil
	case TypeOpenQuestions:
		return &OpenQuestions{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// DecodeJSON decodes one exercise object, dispatching on its "type" field.
func DecodeJSON(data []byte) (Exercise, error) {
	var probe typeProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode exercise: %w", err)
	}
	ex, err := New(probe.Type)
	if err != nil {
		return nil, fmt.Errorf("exercise %q: %w", probe.ID, err)
	}
	if err := json.Unmarshal(data, ex); err != nil {
		return nil, fmt.Errorf("decode exercise %q: %w", probe.ID, err)
	}
	return ex, nil
}

// DecodeYAML decodes one exercise mapping node, dispatching on its "type" key.
func DecodeYAML(node *yaml.Node) (Exercise, error) {
	var probe typeProbe
	if err := node.Decode(&probe); err != nil {
		return nil, fmt.Errorf("decode exercise at line %d: %w", node.Line, err)
	}
	ex, err := New(probe.Type)
	if err != nil {
		return nil, fmt.Errorf("exercise %q at line %d: %w", probe.ID, node.Line, err)
	}
	if err := node.Decode(ex); err != nil {
		return nil, fmt.Errorf("decode exercise %q: %w", probe.ID, err)
	}
	return ex, nil
}

// List decodes a JSON array of exercises.
type List []Exercise

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(List, 0, len(raw))
	for i, item := range raw {
		ex, err := DecodeJSON(item)
		if err != nil {
			return fmt.Errorf("exercise %d: %w", i, err)
		}
		out = append(out, ex)
	}
	*l = out
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("exercises: expected a sequence at line %d", node.Line)
	}
	out := make(List, 0, len(node.Content))
	for i, item := range node.Content {
		ex, err := DecodeYAML(item)
		if err != nil {
			return fmt.Errorf("exercise %d: %w", i, err)
		}
		out = append(out, ex)
	}
	*l = out
	return nil
}

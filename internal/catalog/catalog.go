package catalog

import (
	"errors"
	"fmt"

	"github.com/gokatarajesh/vitaena/internal/exercise"
)

var (
	ErrTopicNotFound    = errors.New("topic not found")
	ErrExerciseNotFound = errors.New("exercise not found")
)

// Topic is an ordered group of exercises under a URL-safe slug.
type Topic struct {
	Slug        string        `json:"slug" yaml:"slug"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Exercises   exercise.List `json:"exercises" yaml:"exercises"`
}

// Len is the number of exercises.
func (t *Topic) Len() int {
	return len(t.Exercises)
}

// Empty reports a topic that has no exercises yet.
func (t *Topic) Empty() bool {
	return len(t.Exercises) == 0
}

// IDs lists exercise ids in order.
func (t *Topic) IDs() []string {
	ids := make([]string, len(t.Exercises))
	for i, ex := range t.Exercises {
		ids[i] = ex.GetID()
	}
	return ids
}

// ExerciseAt returns the exercise at zero-based position i.
func (t *Topic) ExerciseAt(i int) (exercise.Exercise, bool) {
	if i < 0 || i >= len(t.Exercises) {
		return nil, false
	}
	return t.Exercises[i], true
}

// IndexOf returns the zero-based position of id.
func (t *Topic) IndexOf(id string) (int, bool) {
	for i, ex := range t.Exercises {
		if ex.GetID() == id {
			return i, true
		}
	}
	return -1, false
}

// Find returns the exercise with id or ErrExerciseNotFound.
func (t *Topic) Find(id string) (exercise.Exercise, error) {
	i, ok := t.IndexOf(id)
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", t.Slug, id, ErrExerciseNotFound)
	}
	return t.Exercises[i], nil
}

// Next returns the exercise after id; false at the end or for unknown ids.
func (t *Topic) Next(id string) (exercise.Exercise, bool) {
	i, ok := t.IndexOf(id)
	if !ok {
		return nil, false
	}
	return t.ExerciseAt(i + 1)
}

// Previous returns the exercise before id; false at the start or for unknown ids.
func (t *Topic) Previous(id string) (exercise.Exercise, bool) {
	i, ok := t.IndexOf(id)
	if !ok {
		return nil, false
	}
	return t.ExerciseAt(i - 1)
}

// Position returns the one-based position of id and the topic size.
func (t *Topic) Position(id string) (n, total int, ok bool) {
	i, ok := t.IndexOf(id)
	if !ok {
		return 0, len(t.Exercises), false
	}
	return i + 1, len(t.Exercises), true
}

// Catalog is the immutable, validated set of topics.
type Catalog struct {
	topics []*Topic
	bySlug map[string]*Topic
}

// New validates topics and indexes them by slug.
func New(topics []*Topic) (*Catalog, error) {
	if issues := Validate(topics); len(issues) > 0 {
		return nil, issues
	}
	return build(topics), nil
}

func build(topics []*Topic) *Catalog {
	c := &Catalog{
		topics: topics,
		bySlug: make(map[string]*Topic, len(topics)),
	}
	for _, t := range topics {
		c.bySlug[t.Slug] = t
	}
	return c
}

// ListTopics returns topics in catalog order.
func (c *Catalog) ListTopics() []*Topic {
	out := make([]*Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// FindTopic looks a topic up by slug.
func (c *Catalog) FindTopic(slug string) (*Topic, bool) {
	t, ok := c.bySlug[slug]
	return t, ok
}

// Exercise resolves slug and id, distinguishing a missing topic from a
// missing exercise.
func (c *Catalog) Exercise(slug, id string) (*Topic, exercise.Exercise, error) {
	t, ok := c.FindTopic(slug)
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", slug, ErrTopicNotFound)
	}
	ex, err := t.Find(id)
	if err != nil {
		return t, nil, err
	}
	return t, ex, nil
}

// CountLabel renders an exercise count with the matching Russian plural.
func CountLabel(n int) string {
	word := "упражнений"
	switch {
	case n%10 == 1 && n%100 != 11:
		word = "упражнение"
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 12 || n%100 > 14):
		word = "упражнения"
	}
	return fmt.Sprintf("%d %s", n, word)
}

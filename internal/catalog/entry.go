package catalog

import (
	"context"

	"github.com/gokatarajesh/vitaena/internal/exercise"
)

// LastVisitedReader is the part of the progress store used for entry.
type LastVisitedReader interface {
	GetLastVisited(ctx context.Context, topicSlug string) (string, bool)
}

// ResolveEntry picks the exercise to open when entering a topic: the last
// visited one if it still exists, otherwise the first. Empty topics resolve
// to nothing.
func ResolveEntry(ctx context.Context, t *Topic, last LastVisitedReader) (exercise.Exercise, bool) {
	if t.Empty() {
		return nil, false
	}
	if last != nil {
		if id, ok := last.GetLastVisited(ctx, t.Slug); ok {
			if ex, err := t.Find(id); err == nil {
				return ex, true
			}
		}
	}
	return t.ExerciseAt(0)
}

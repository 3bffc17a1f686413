package catalog

import (
	"regexp"

	"github.com/gokatarajesh/vitaena/internal/exercise"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Validate checks catalog-wide integrity: URL-safe unique slugs, unique
// exercise ids per topic and every exercise's own rules.
func Validate(topics []*Topic) exercise.ValidationErrors {
	var issues exercise.ValidationErrors
	slugs := make(map[string]int, len(topics))

	for i, t := range topics {
		if t == nil {
			issues = append(issues, exercise.Issue{Message: "nil topic"})
			continue
		}
		if !slugPattern.MatchString(t.Slug) {
			issues = append(issues, exercise.Issue{Topic: t.Slug, Field: "slug", Message: "slug must be lowercase letters, digits and dashes"})
		}
		if j, dup := slugs[t.Slug]; dup {
			issues = append(issues, exercise.Issue{Topic: t.Slug, Field: "slug", Message: "duplicate slug, first used by topic " + topics[j].Title})
		}
		slugs[t.Slug] = i
		if t.Title == "" {
			issues = append(issues, exercise.Issue{Topic: t.Slug, Field: "title", Message: "title is required"})
		}

		ids := make(map[string]bool, len(t.Exercises))
		for _, ex := range t.Exercises {
			if ids[ex.GetID()] {
				issues = append(issues, exercise.Issue{Topic: t.Slug, Exercise: ex.GetID(), Field: "id", Message: "duplicate exercise id"})
			}
			ids[ex.GetID()] = true

			for _, issue := range exercise.Validate(ex) {
				issue.Topic = t.Slug
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

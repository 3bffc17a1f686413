package catalog

import (
	_ "embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/gokatarajesh/vitaena/internal/exercise"
)

//go:embed schema.json
var topicSchema string

// IndexFile is the name of the ordered topic list at the content root.
const IndexFile = "index.yaml"

type index struct {
	Topics []string `yaml:"topics"`
}

// Loader reads topics from an authoring tree:
//
//	index.yaml           ordered topic slugs
//	topics/<slug>.yaml   one topic with its exercises
type Loader struct {
	fsys   fs.FS
	schema *gojsonschema.Schema
	logger zerolog.Logger
}

// NewLoader compiles the topic schema and binds the loader to fsys.
func NewLoader(fsys fs.FS, logger zerolog.Logger) (*Loader, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(topicSchema))
	if err != nil {
		return nil, fmt.Errorf("compile topic schema: %w", err)
	}
	return &Loader{
		fsys:   fsys,
		schema: schema,
		logger: logger.With().Str("component", "catalog_loader").Logger(),
	}, nil
}

// Load reads, validates and indexes every topic listed in index.yaml.
// Content problems are reported together as exercise.ValidationErrors.
func (l *Loader) Load() (*Catalog, error) {
	raw, err := fs.ReadFile(l.fsys, IndexFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", IndexFile, err)
	}
	var idx index
	if err := yaml.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("parse %s: %w", IndexFile, err)
	}

	var (
		topics []*Topic
		issues exercise.ValidationErrors
	)
	for _, slug := range idx.Topics {
		t, topicIssues, err := l.loadTopic(slug)
		if err != nil {
			return nil, err
		}
		if len(topicIssues) > 0 {
			issues = append(issues, topicIssues...)
			continue
		}
		topics = append(topics, t)
	}
	issues = append(issues, Validate(topics)...)
	if len(issues) > 0 {
		return nil, issues
	}

	c := build(topics)
	for _, t := range topics {
		l.logger.Debug().Str("topic", t.Slug).Int("exercises", t.Len()).Msg("topic loaded")
	}
	l.logger.Info().Int("topics", len(topics)).Msg("catalog loaded")
	return c, nil
}

func (l *Loader) loadTopic(slug string) (*Topic, exercise.ValidationErrors, error) {
	name := path.Join("topics", slug+".yaml")
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}

	issues, err := l.checkSchema(slug, data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(issues) > 0 {
		return nil, issues, nil
	}

	var t Topic
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if t.Slug != slug {
		return nil, exercise.ValidationErrors{{
			Topic:   slug,
			Field:   "slug",
			Message: fmt.Sprintf("file declares slug %q", t.Slug),
		}}, nil
	}
	return &t, nil, nil
}

// checkSchema validates the generic document shape before typed decoding so
// authors get every structural problem at once.
func (l *Loader) checkSchema(slug string, data []byte) (exercise.ValidationErrors, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	res, err := l.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if res.Valid() {
		return nil, nil
	}
	issues := make(exercise.ValidationErrors, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		issues = append(issues, exercise.Issue{
			Topic:   slug,
			Field:   re.Field(),
			Message: re.Description(),
		})
	}
	return issues, nil
}

package exercise

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Issue is one content integrity problem.
type Issue struct {
	Topic    string `json:"topic,omitempty"`
	Exercise string `json:"exercise,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Topic != "" {
		b.WriteString(i.Topic)
		b.WriteString("/")
	}
	if i.Exercise != "" {
		b.WriteString(i.Exercise)
	}
	if i.Field != "" {
		b.WriteString(".")
		b.WriteString(i.Field)
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	return b.String()
}

// ValidationErrors collects every issue found in a piece of content.
type ValidationErrors []Issue

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, issue := range v {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("content validation failed (%d issues): %s", len(v), strings.Join(parts, "; "))
}

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

func structs() *validator.Validate {
	structValidatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("exercise_type", func(fl validator.FieldLevel) bool {
			return Type(fl.Field().String()).Valid()
		})
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		structValidator = v
	})
	return structValidator
}

// Validate checks struct constraints and the cross-field rules of ex:
// answers drawn from their option lists and [k] markers matching entries.
func Validate(ex Exercise) ValidationErrors {
	var issues ValidationErrors
	if err := structs().Struct(ex); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return ValidationErrors{{Exercise: ex.GetID(), Message: err.Error()}}
		}
		for _, fe := range verrs {
			issues = append(issues, Issue{
				Exercise: ex.GetID(),
				Field:    fieldPath(fe.Namespace()),
				Message:  fmt.Sprintf("failed %q rule", fe.Tag()),
			})
		}
	}

	c := &contentChecker{id: ex.GetID()}
	_ = ex.Accept(c)
	return append(issues, c.issues...)
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.TrimPrefix(ns, "Base.")
}

type contentChecker struct {
	id     string
	issues ValidationErrors
}

func (c *contentChecker) fail(field, format string, args ...any) {
	c.issues = append(c.issues, Issue{Exercise: c.id, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (c *contentChecker) answerIn(field, answer string, options []string) {
	if answer != "" && !Contains(options, answer) {
		c.fail(field, "answer %q is not one of the options", answer)
	}
}

func (c *contentChecker) markers(text string, entries int) {
	referenced := make([]bool, entries)
	for _, m := range markerPattern.FindAllStringSubmatch(text, -1) {
		k, err := strconv.Atoi(m[1])
		if err != nil || k < 1 || k > entries {
			c.fail("text", "marker %s has no matching entry (%d defined)", m[0], entries)
			continue
		}
		referenced[k-1] = true
	}
	for i, ok := range referenced {
		if !ok {
			c.fail("text", "entry %d is never referenced by a [%d] marker", i+1, i+1)
		}
	}
}

func (c *contentChecker) VisitMultipleChoice(ex *MultipleChoice) error {
	c.answerIn("answer", ex.Answer, ex.Options)
	return nil
}

func (c *contentChecker) VisitFillInTheBlank(*FillInTheBlank) error {
	return nil
}

func (c *contentChecker) VisitAudio(ex *Audio) error {
	c.answerIn("answer", ex.Answer, ex.Options)
	return nil
}

func (c *contentChecker) VisitReadingComprehension(ex *ReadingComprehension) error {
	for i, q := range ex.Questions {
		c.answerIn(fmt.Sprintf("questions[%d].answer", i), q.Answer, q.Options)
	}
	return nil
}

func (c *contentChecker) VisitTrueFalse(ex *TrueFalse) error {
	if ex.ShowText && ex.Text == "" {
		c.fail("showText", "showText is set but text is empty")
	}
	return nil
}

func (c *contentChecker) VisitWordFill(ex *WordFill) error {
	c.markers(ex.Text, len(ex.Answers))
	seen := make(map[string]int, len(ex.Answers))
	for i, a := range ex.Answers {
		field := fmt.Sprintf("answers[%d]", i)
		if !Contains(ex.Words, a) {
			c.fail(field, "answer %q is not in the word bank", a)
		}
		if j, dup := seen[a]; dup {
			c.fail(field, "answer %q already used by answers[%d]", a, j)
		}
		seen[a] = i
	}
	return nil
}

func (c *contentChecker) VisitSelectFill(ex *SelectFill) error {
	c.markers(ex.Text, len(ex.Blanks))
	for i, b := range ex.Blanks {
		c.answerIn(fmt.Sprintf("blanks[%d].answer", i), b.Answer, b.Options)
	}
	return nil
}

func (c *contentChecker) VisitTableChoice(ex *TableChoice) error {
	for ri, row := range ex.Rows {
		if len(ex.ColumnHeaders) > 0 && len(row.Cells) != len(ex.ColumnHeaders) {
			c.fail(fmt.Sprintf("rows[%d].cells", ri), "has %d cells, want %d", len(row.Cells), len(ex.ColumnHeaders))
		}
		for ci, cell := range row.Cells {
			c.answerIn(fmt.Sprintf("rows[%d].cells[%d].answer", ri, ci), cell.Answer, cell.Options)
		}
	}
	return nil
}

func (c *contentChecker) VisitOpenQuestions(*OpenQuestions) error {
	return nil
}

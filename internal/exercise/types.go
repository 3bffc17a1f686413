package exercise

// Type is the discriminant tag carried by every authored exercise.
type Type string

const (
	TypeMultipleChoice       Type = "multiple-choice"
	TypeFillInTheBlank       Type = "fill-in-the-blank"
	TypeAudio                Type = "audio"
	TypeReadingComprehension Type = "reading-comprehension"
	TypeTrueFalse            Type = "true-false"
	TypeWordFill             Type = "word-fill"
	TypeSelectFill           Type = "select-fill"
	TypeGrammarFill          Type = "grammar-fill"
	TypeTableChoice          Type = "table-choice"
	TypeOpenQuestions        Type = "open-questions"
)

// Types lists every known tag in authoring order.
func Types() []Type {
	return []Type{
		TypeMultipleChoice,
		TypeFillInTheBlank,
		TypeAudio,
		TypeReadingComprehension,
		TypeTrueFalse,
		TypeWordFill,
		TypeSelectFill,
		TypeGrammarFill,
		TypeTableChoice,
		TypeOpenQuestions,
	}
}

// Valid reports whether t is a known tag.
func (t Type) Valid() bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}

// Exercise is implemented only by the variant types of this package.
// Behaviour that depends on the variant goes through Accept so that a new
// variant fails to compile until every Visitor handles it.
type Exercise interface {
	GetID() string
	GetType() Type
	GetQuestion() string
	Accept(v Visitor) error
	base() *Base
}

// Visitor dispatches over the closed set of exercise variants.
type Visitor interface {
	VisitMultipleChoice(ex *MultipleChoice) error
	VisitFillInTheBlank(ex *FillInTheBlank) error
	VisitAudio(ex *Audio) error
	VisitReadingComprehension(ex *ReadingComprehension) error
	VisitTrueFalse(ex *TrueFalse) error
	VisitWordFill(ex *WordFill) error
	VisitSelectFill(ex *SelectFill) error
	VisitTableChoice(ex *TableChoice) error
	VisitOpenQuestions(ex *OpenQuestions) error
}

// Base carries the fields shared by every variant.
type Base struct {
	ID       string `json:"id" yaml:"id" validate:"required,excludesall=:/ "`
	Type     Type   `json:"type" yaml:"type" validate:"required,exercise_type"`
	Question string `json:"question" yaml:"question"`
}

func (b *Base) GetID() string       { return b.ID }
func (b *Base) GetType() Type       { return b.Type }
func (b *Base) GetQuestion() string { return b.Question }
func (b *Base) base() *Base         { return b }

// MultipleChoice asks for one option out of a list.
type MultipleChoice struct {
	Base    `yaml:",inline"`
	Options []string `json:"options" yaml:"options" validate:"min=2,unique,dive,required"`
	Answer  string   `json:"answer" yaml:"answer" validate:"required"`
}

// Blank is a free-text gap with its expected answer.
type Blank struct {
	Answer string `json:"answer" yaml:"answer" validate:"required"`
}

// FillInTheBlank asks for typed text in one or more gaps.
type FillInTheBlank struct {
	Base   `yaml:",inline"`
	Blanks []Blank `json:"blanks" yaml:"blanks" validate:"min=1,dive"`
}

// Audio asks which option matches a played clip.
type Audio struct {
	Base     `yaml:",inline"`
	AudioSrc string   `json:"audioSrc" yaml:"audioSrc" validate:"required"`
	Options  []string `json:"options" yaml:"options" validate:"min=2,unique,dive,required"`
	Answer   string   `json:"answer" yaml:"answer" validate:"required"`
}

// ChoiceQuestion is a sub-question answered by picking one option.
type ChoiceQuestion struct {
	Question string   `json:"question" yaml:"question" validate:"required"`
	Options  []string `json:"options" yaml:"options" validate:"min=2,unique,dive,required"`
	Answer   string   `json:"answer" yaml:"answer" validate:"required"`
}

// ReadingComprehension pairs a passage with choice questions.
type ReadingComprehension struct {
	Base        `yaml:",inline"`
	Text        string           `json:"text" yaml:"text" validate:"required"`
	Translation string           `json:"translation,omitempty" yaml:"translation,omitempty"`
	AudioSrc    string           `json:"audioSrc,omitempty" yaml:"audioSrc,omitempty"`
	Questions   []ChoiceQuestion `json:"questions" yaml:"questions" validate:"min=1,dive"`
}

// Statement is judged true or false.
type Statement struct {
	Statement string `json:"statement" yaml:"statement" validate:"required"`
	Answer    bool   `json:"answer" yaml:"answer"`
}

// TrueFalse judges statements about an optional passage or clip.
type TrueFalse struct {
	Base        `yaml:",inline"`
	Text        string      `json:"text,omitempty" yaml:"text,omitempty"`
	ShowText    bool        `json:"showText,omitempty" yaml:"showText,omitempty"`
	Translation string      `json:"translation,omitempty" yaml:"translation,omitempty"`
	AudioSrc    string      `json:"audioSrc,omitempty" yaml:"audioSrc,omitempty"`
	Statements  []Statement `json:"statements" yaml:"statements" validate:"min=1,dive"`
}

// VisibleText returns the passage only when it is meant to be shown
// before checking; hidden passages are transcripts of the clip.
func (ex *TrueFalse) VisibleText() string {
	if !ex.ShowText {
		return ""
	}
	return ex.Text
}

// WordFill places words from a bank into the [k] markers of Text.
type WordFill struct {
	Base        `yaml:",inline"`
	Text        string   `json:"text" yaml:"text" validate:"required"`
	Translation string   `json:"translation,omitempty" yaml:"translation,omitempty"`
	Words       []string `json:"words" yaml:"words" validate:"min=1,unique,dive,required"`
	Answers     []string `json:"answers" yaml:"answers" validate:"min=1,dive,required"`
}

// OptionBlank is a gap filled by choosing from its own options.
type OptionBlank struct {
	Answer  string   `json:"answer" yaml:"answer" validate:"required"`
	Options []string `json:"options" yaml:"options" validate:"min=2,unique,dive,required"`
}

// SelectFill fills the [k] markers of a dialogue (select-fill) or of
// grammar sentences (grammar-fill) from per-blank option lists.
type SelectFill struct {
	Base        `yaml:",inline"`
	Text        string        `json:"text" yaml:"text" validate:"required"`
	Translation string        `json:"translation,omitempty" yaml:"translation,omitempty"`
	Blanks      []OptionBlank `json:"blanks" yaml:"blanks" validate:"min=1,dive"`
}

// TableCell is one selectable cell of a table row.
type TableCell struct {
	Options []string `json:"options" yaml:"options" validate:"min=2,unique,dive,required"`
	Answer  string   `json:"answer" yaml:"answer" validate:"required"`
}

// TableRow is a row label followed by its cells.
type TableRow struct {
	Question string      `json:"question" yaml:"question" validate:"required"`
	Cells    []TableCell `json:"cells" yaml:"cells" validate:"min=1,dive"`
}

// TableChoice is a grid of per-cell choices.
type TableChoice struct {
	Base          `yaml:",inline"`
	ColumnHeaders []string   `json:"columnHeaders" yaml:"columnHeaders"`
	Text          string     `json:"text,omitempty" yaml:"text,omitempty"`
	Translation   string     `json:"translation,omitempty" yaml:"translation,omitempty"`
	AudioSrc      string     `json:"audioSrc,omitempty" yaml:"audioSrc,omitempty"`
	Rows          []TableRow `json:"rows" yaml:"rows" validate:"min=1,dive"`
}

// CellCount is the total number of cells over all rows.
func (ex *TableChoice) CellCount() int {
	n := 0
	for _, row := range ex.Rows {
		n += len(row.Cells)
	}
	return n
}

// CellIndex maps (row, col) to the flattened row-major slot index.
// It returns -1 when the cell does not exist.
func (ex *TableChoice) CellIndex(row, col int) int {
	if row < 0 || row >= len(ex.Rows) || col < 0 || col >= len(ex.Rows[row].Cells) {
		return -1
	}
	idx := 0
	for i := 0; i < row; i++ {
		idx += len(ex.Rows[i].Cells)
	}
	return idx + col
}

// OpenQuestion carries a reference answer that is shown, never graded.
type OpenQuestion struct {
	Question string `json:"question" yaml:"question" validate:"required"`
	Answer   string `json:"answer" yaml:"answer" validate:"required"`
}

// OpenQuestions is a reference exercise with revealable answers.
type OpenQuestions struct {
	Base      `yaml:",inline"`
	Text      string         `json:"text,omitempty" yaml:"text,omitempty"`
	AudioSrc  string         `json:"audioSrc,omitempty" yaml:"audioSrc,omitempty"`
	Questions []OpenQuestion `json:"questions" yaml:"questions" validate:"min=1,dive"`
}

func (ex *MultipleChoice) Accept(v Visitor) error       { return v.VisitMultipleChoice(ex) }
func (ex *FillInTheBlank) Accept(v Visitor) error       { return v.VisitFillInTheBlank(ex) }
func (ex *Audio) Accept(v Visitor) error                { return v.VisitAudio(ex) }
func (ex *ReadingComprehension) Accept(v Visitor) error { return v.VisitReadingComprehension(ex) }
func (ex *TrueFalse) Accept(v Visitor) error            { return v.VisitTrueFalse(ex) }
func (ex *WordFill) Accept(v Visitor) error             { return v.VisitWordFill(ex) }
func (ex *SelectFill) Accept(v Visitor) error           { return v.VisitSelectFill(ex) }
func (ex *TableChoice) Accept(v Visitor) error          { return v.VisitTableChoice(ex) }
func (ex *OpenQuestions) Accept(v Visitor) error        { return v.VisitOpenQuestions(ex) }

var (
	_ Exercise = (*MultipleChoice)(nil)
	_ Exercise = (*FillInTheBlank)(nil)
	_ Exercise = (*Audio)(nil)
	_ Exercise = (*ReadingComprehension)(nil)
	_ Exercise = (*TrueFalse)(nil)
	_ Exercise = (*WordFill)(nil)
	_ Exercise = (*SelectFill)(nil)
	_ Exercise = (*TableChoice)(nil)
	_ Exercise = (*OpenQuestions)(nil)
)

// AudioSource returns the clip attached to ex, if any.
func AudioSource(ex Exercise) string {
	switch v := ex.(type) {
	case *Audio:
		return v.AudioSrc
	case *ReadingComprehension:
		return v.AudioSrc
	case *TrueFalse:
		return v.AudioSrc
	case *TableChoice:
		return v.AudioSrc
	case *OpenQuestions:
		return v.AudioSrc
	}
	return ""
}

// Gradeable reports whether ex produces a verdict when checked.
func Gradeable(ex Exercise) bool {
	_, ok := ex.(*OpenQuestions)
	return !ok
}

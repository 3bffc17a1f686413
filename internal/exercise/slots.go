package exercise

// Values accepted by true/false slots.
const (
	ValueTrue  = "true"
	ValueFalse = "false"
)

// Slot is one answerable position of an exercise. Options is nil for free
// text slots.
type Slot struct {
	Index   int      `json:"index"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"-"`
}

// Slots returns the ordered answer slots of ex. Open questions have none.
func Slots(ex Exercise) []Slot {
	c := &slotCollector{}
	_ = ex.Accept(c)
	return c.slots
}

// SlotCount is len(Slots(ex)).
func SlotCount(ex Exercise) int {
	return len(Slots(ex))
}

type slotCollector struct {
	slots []Slot
}

func (c *slotCollector) add(options []string, answer string) {
	c.slots = append(c.slots, Slot{Index: len(c.slots), Options: options, Answer: answer})
}

func (c *slotCollector) VisitMultipleChoice(ex *MultipleChoice) error {
	c.add(ex.Options, ex.Answer)
	return nil
}

func (c *slotCollector) VisitFillInTheBlank(ex *FillInTheBlank) error {
	for _, b := range ex.Blanks {
		c.add(nil, b.Answer)
	}
	return nil
}

func (c *slotCollector) VisitAudio(ex *Audio) error {
	c.add(ex.Options, ex.Answer)
	return nil
}

func (c *slotCollector) VisitReadingComprehension(ex *ReadingComprehension) error {
	for _, q := range ex.Questions {
		c.add(q.Options, q.Answer)
	}
	return nil
}

func (c *slotCollector) VisitTrueFalse(ex *TrueFalse) error {
	for _, s := range ex.Statements {
		c.add([]string{ValueTrue, ValueFalse}, FormatBool(s.Answer))
	}
	return nil
}

func (c *slotCollector) VisitWordFill(ex *WordFill) error {
	for _, a := range ex.Answers {
		c.add(ex.Words, a)
	}
	return nil
}

func (c *slotCollector) VisitSelectFill(ex *SelectFill) error {
	for _, b := range ex.Blanks {
		c.add(b.Options, b.Answer)
	}
	return nil
}

func (c *slotCollector) VisitTableChoice(ex *TableChoice) error {
	for _, row := range ex.Rows {
		for _, cell := range row.Cells {
			c.add(cell.Options, cell.Answer)
		}
	}
	return nil
}

func (c *slotCollector) VisitOpenQuestions(*OpenQuestions) error {
	return nil
}

// FormatBool renders a true/false answer as its slot value.
func FormatBool(b bool) string {
	if b {
		return ValueTrue
	}
	return ValueFalse
}

// ParseBool is the inverse of FormatBool.
func ParseBool(v string) (bool, bool) {
	switch v {
	case ValueTrue:
		return true, true
	case ValueFalse:
		return false, true
	}
	return false, false
}

// Contains reports whether value is one of options.
func Contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

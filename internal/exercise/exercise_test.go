package exercise

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAllTypesHandled(t *testing.T) {
	for _, typ := range Types() {
		ex, err := New(typ)
		require.NoError(t, err, typ)
		assert.NotNil(t, ex)
		assert.NotEqual(t, string(typ), Label(typ), "missing label for %s", typ)
		assert.True(t, typ.Valid())
	}

	_, err := New("crossword")
	assert.True(t, errors.Is(err, ErrUnknownType))
	assert.False(t, Type("crossword").Valid())
}

func TestDecodeJSON(t *testing.T) {
	ex, err := DecodeJSON([]byte(`{"id":"2","type":"multiple-choice","question":"Что означает «πέντε»?","options":["5","4","6","3"],"answer":"5"}`))
	require.NoError(t, err)

	mc, ok := ex.(*MultipleChoice)
	require.True(t, ok)
	assert.Equal(t, "2", mc.GetID())
	assert.Equal(t, TypeMultipleChoice, mc.GetType())
	assert.Equal(t, []string{"5", "4", "6", "3"}, mc.Options)
	assert.Equal(t, "5", mc.Answer)

	ex, err = DecodeJSON([]byte(`{"id":"g1","type":"grammar-fill","question":"q","text":"Εγώ [1] φοιτητής.","blanks":[{"answer":"είμαι","options":["είμαι","είσαι"]}]}`))
	require.NoError(t, err)
	sf, ok := ex.(*SelectFill)
	require.True(t, ok)
	assert.Equal(t, TypeGrammarFill, sf.GetType())
	assert.Len(t, sf.Blanks, 1)

	_, err = DecodeJSON([]byte(`{"id":"x","type":"crossword"}`))
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestDecodeYAMLList(t *testing.T) {
	doc := `
- id: "1"
  type: audio
  question: Какую букву вы услышали?
  audioSrc: /audio/alphabet/alpha.mp3
  options: [α, β, γ, δ]
  answer: α
- id: "2"
  type: table-choice
  question: Выберите форму
  columnHeaders: [Εγώ, Εσύ]
  rows:
    - question: είμαι
      cells:
        - {options: [είμαι, είσαι], answer: είμαι}
        - {options: [είμαι, είσαι], answer: είσαι}
- id: "3"
  type: true-false
  question: Верно или нет?
  text: Η Άννα μένει στην Αθήνα.
  showText: true
  statements:
    - {statement: Анна живёт в Афинах., answer: true}
`
	var list List
	require.NoError(t, yaml.Unmarshal([]byte(doc), &list))
	require.Len(t, list, 3)

	audio := list[0].(*Audio)
	assert.Equal(t, "/audio/alphabet/alpha.mp3", audio.AudioSrc)
	assert.Equal(t, "/audio/alphabet/alpha.mp3", AudioSource(audio))

	table := list[1].(*TableChoice)
	assert.Equal(t, 2, table.CellCount())
	assert.Equal(t, 1, table.CellIndex(0, 1))
	assert.Equal(t, -1, table.CellIndex(1, 0))

	tf := list[2].(*TrueFalse)
	assert.True(t, tf.Statements[0].Answer)
	assert.Equal(t, "Η Άννα μένει στην Αθήνα.", tf.VisibleText())
}

func TestParseMarkers(t *testing.T) {
	segs := ParseMarkers("— Γεια [1]! Τι [2];")
	require.Len(t, segs, 5)
	assert.Equal(t, Segment{Kind: SegmentText, Content: "— Γεια "}, segs[0])
	assert.Equal(t, Segment{Kind: SegmentBlank, Index: 0}, segs[1])
	assert.Equal(t, Segment{Kind: SegmentText, Content: "! Τι "}, segs[2])
	assert.Equal(t, Segment{Kind: SegmentBlank, Index: 1}, segs[3])
	assert.Equal(t, Segment{Kind: SegmentText, Content: ";"}, segs[4])

	assert.Equal(t, []int{2, 0}, MarkerIndexes("[3] and [1]"))
	assert.Empty(t, MarkerIndexes("no markers [0] here"))
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, Paragraphs("a\nb\n\nc"))
}

func TestSlots(t *testing.T) {
	table := &TableChoice{
		Base: Base{ID: "t", Type: TypeTableChoice},
		Rows: []TableRow{
			{Question: "r1", Cells: []TableCell{{Options: []string{"a", "b"}, Answer: "a"}, {Options: []string{"c", "d"}, Answer: "d"}}},
			{Question: "r2", Cells: []TableCell{{Options: []string{"e", "f"}, Answer: "f"}}},
		},
	}
	slots := Slots(table)
	require.Len(t, slots, 3)
	assert.Equal(t, []string{"c", "d"}, slots[1].Options)
	assert.Equal(t, "f", slots[2].Answer)

	tf := &TrueFalse{Base: Base{ID: "tf", Type: TypeTrueFalse}, Statements: []Statement{{Statement: "s", Answer: false}}}
	slots = Slots(tf)
	require.Len(t, slots, 1)
	assert.Equal(t, []string{ValueTrue, ValueFalse}, slots[0].Options)
	assert.Equal(t, ValueFalse, slots[0].Answer)

	fill := &FillInTheBlank{Base: Base{ID: "f", Type: TypeFillInTheBlank}, Blanks: []Blank{{Answer: "β"}}}
	assert.Nil(t, Slots(fill)[0].Options)

	open := &OpenQuestions{Base: Base{ID: "o", Type: TypeOpenQuestions}}
	assert.Equal(t, 0, SlotCount(open))
	assert.False(t, Gradeable(open))
	assert.True(t, Gradeable(fill))
}

func TestValidate(t *testing.T) {
	valid := &WordFill{
		Base:    Base{ID: "w1", Type: TypeWordFill, Question: "Вставьте слова"},
		Text:    "Με λένε [1]. Είμαι από την [2].",
		Words:   []string{"Άννα", "Ελλάδα", "Ρωσία"},
		Answers: []string{"Άννα", "Ελλάδα"},
	}
	assert.Empty(t, Validate(valid))

	broken := &WordFill{
		Base:    Base{ID: "w2", Type: TypeWordFill},
		Text:    "Με λένε [1]. Είμαι από την [3].",
		Words:   []string{"Άννα", "Ελλάδα"},
		Answers: []string{"Άννα", "Κύπρος"},
	}
	issues := Validate(broken)
	var messages []string
	for _, issue := range issues {
		assert.Equal(t, "w2", issue.Exercise)
		messages = append(messages, issue.Message)
	}
	assert.Contains(t, messages, "marker [3] has no matching entry (2 defined)")
	assert.Contains(t, messages, "entry 2 is never referenced by a [2] marker")
	assert.Contains(t, messages, `answer "Κύπρος" is not in the word bank`)

	zero := &WordFill{
		Base:    Base{ID: "w3", Type: TypeWordFill},
		Text:    "Θέλω [0] και [1].",
		Words:   []string{"καφέ"},
		Answers: []string{"καφέ"},
	}
	issues = Validate(zero)
	require.Len(t, issues, 1)
	assert.Equal(t, "text", issues[0].Field)
	assert.Equal(t, "marker [0] has no matching entry (1 defined)", issues[0].Message)

	mc := &MultipleChoice{Base: Base{ID: "m", Type: TypeMultipleChoice}, Options: []string{"a", "b"}, Answer: "c"}
	issues = Validate(mc)
	require.Len(t, issues, 1)
	assert.Equal(t, "answer", issues[0].Field)

	missing := &MultipleChoice{Base: Base{Type: TypeMultipleChoice}, Options: []string{"a"}, Answer: "a"}
	issues = Validate(missing)
	fields := make([]string, 0, len(issues))
	for _, issue := range issues {
		fields = append(fields, issue.Field)
	}
	assert.Contains(t, fields, "id")
	assert.Contains(t, fields, "options")
	assert.Contains(t, issues.Error(), "content validation failed")
}

package grading

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/vitaena/internal/exercise"
)

func numbersChoice() *exercise.MultipleChoice {
	return &exercise.MultipleChoice{
		Base:    exercise.Base{ID: "2", Type: exercise.TypeMultipleChoice, Question: "Что означает «πέντε»?"},
		Options: []string{"5", "4", "6", "3"},
		Answer:  "5",
	}
}

func alphabetBlank() *exercise.FillInTheBlank {
	return &exercise.FillInTheBlank{
		Base:   exercise.Base{ID: "3", Type: exercise.TypeFillInTheBlank, Question: "Вставьте пропущенную букву: αλφά_ητο"},
		Blanks: []exercise.Blank{{Answer: "β"}},
	}
}

func sixWordFill() *exercise.WordFill {
	return &exercise.WordFill{
		Base:    exercise.Base{ID: "w", Type: exercise.TypeWordFill},
		Text:    "[1] [2] [3] [4] [5] [6]",
		Words:   []string{"a", "b", "c", "d", "e", "f", "g"},
		Answers: []string{"a", "b", "c", "d", "e", "f"},
	}
}

func TestGradeSingleChoice(t *testing.T) {
	v, err := Grade(numbersChoice(), Response{"5"})
	require.NoError(t, err)
	assert.True(t, v.Correct)
	assert.Equal(t, "1 of 1", v.Detail())

	v, err = Grade(numbersChoice(), Response{"4"})
	require.NoError(t, err)
	assert.False(t, v.Correct)
	assert.Equal(t, []bool{false}, v.Slots)
}

func TestGradeFillInTheBlankNormalizes(t *testing.T) {
	cases := map[string]bool{
		"β":    true,
		" Β ":  true,
		"\tβ\n": true,
		"γ":    false,
	}
	for input, want := range cases {
		v, err := Grade(alphabetBlank(), Response{input})
		require.NoError(t, err, input)
		assert.Equal(t, want, v.Correct, input)
	}

	_, err := Grade(alphabetBlank(), Response{"   "})
	assert.True(t, errors.Is(err, ErrIncomplete))
}

func TestGradeWordFillPartial(t *testing.T) {
	v, err := Grade(sixWordFill(), Response{"a", "b", "c", "d", "g", "e"})
	require.NoError(t, err)
	assert.False(t, v.Correct)
	assert.Equal(t, 4, v.CorrectCount)
	assert.Equal(t, 6, v.Total)
	assert.Equal(t, "4 of 6", v.Detail())
	assert.Equal(t, []bool{true, true, true, true, false, false}, v.Slots)
}

func TestGradeWordFillRejectsInvalid(t *testing.T) {
	_, err := Grade(sixWordFill(), Response{"a", "b", "c", "d", "e", "zzz"})
	assert.True(t, errors.Is(err, ErrInvalidValue))

	_, err = Grade(sixWordFill(), Response{"a", "a", "c", "d", "e", "f"})
	assert.True(t, errors.Is(err, ErrInvalidValue))
}

func TestGradeSelectFill(t *testing.T) {
	ex := &exercise.SelectFill{
		Base: exercise.Base{ID: "s", Type: exercise.TypeSelectFill},
		Text: "— [1]!\n— [2].",
		Blanks: []exercise.OptionBlank{
			{Answer: "Γεια σου", Options: []string{"Γεια σου", "Αντίο"}},
			{Answer: "Καλά", Options: []string{"Καλά", "Κακά"}},
		},
	}
	v, err := Grade(ex, Response{"Γεια σου", "Κακά"})
	require.NoError(t, err)
	assert.Equal(t, 1, v.CorrectCount)

	_, err = Grade(ex, Response{"Γεια σου", "Ναι"})
	assert.True(t, errors.Is(err, ErrInvalidValue))
}

func TestGradeTrueFalse(t *testing.T) {
	ex := &exercise.TrueFalse{
		Base:       exercise.Base{ID: "tf", Type: exercise.TypeTrueFalse},
		Statements: []exercise.Statement{{Statement: "a", Answer: true}, {Statement: "b", Answer: false}},
	}
	v, err := Grade(ex, Response{"true", "false"})
	require.NoError(t, err)
	assert.True(t, v.Correct)

	_, err = Grade(ex, Response{"true", "maybe"})
	assert.True(t, errors.Is(err, ErrInvalidValue))
}

func TestGradeTableChoiceCountsCells(t *testing.T) {
	opts := []string{"a", "b"}
	ex := &exercise.TableChoice{
		Base:          exercise.Base{ID: "t", Type: exercise.TypeTableChoice},
		ColumnHeaders: []string{"x", "y"},
		Rows: []exercise.TableRow{
			{Question: "r1", Cells: []exercise.TableCell{{Options: opts, Answer: "a"}, {Options: opts, Answer: "b"}}},
			{Question: "r2", Cells: []exercise.TableCell{{Options: opts, Answer: "a"}, {Options: opts, Answer: "a"}}},
			{Question: "r3", Cells: []exercise.TableCell{{Options: opts, Answer: "b"}, {Options: opts, Answer: "b"}}},
		},
	}
	v, err := Grade(ex, Response{"a", "b", "b", "a", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, 4, v.CorrectCount)
	assert.Equal(t, 6, v.Total)
	assert.Equal(t, "4 of 6", v.Detail())
	assert.False(t, v.Correct)
	assert.False(t, v.Slots[ex.CellIndex(1, 0)])
	assert.False(t, v.Slots[ex.CellIndex(2, 1)])
	assert.True(t, v.Slots[ex.CellIndex(2, 0)])
}

func TestGradeReadingComprehension(t *testing.T) {
	ex := &exercise.ReadingComprehension{
		Base: exercise.Base{ID: "r", Type: exercise.TypeReadingComprehension},
		Text: "Η Μαρία είναι δασκάλα.",
		Questions: []exercise.ChoiceQuestion{
			{Question: "Кто Мария?", Options: []string{"учитель", "врач"}, Answer: "учитель"},
		},
	}
	v, err := Grade(ex, Response{"учитель"})
	require.NoError(t, err)
	assert.True(t, v.Correct)
}

func TestGradeErrors(t *testing.T) {
	open := &exercise.OpenQuestions{
		Base:      exercise.Base{ID: "o", Type: exercise.TypeOpenQuestions},
		Questions: []exercise.OpenQuestion{{Question: "q", Answer: "a"}},
	}
	_, err := Grade(open, Response{})
	assert.True(t, errors.Is(err, ErrNotGradeable))

	_, err = Grade(numbersChoice(), Response{"5", "4"})
	assert.True(t, errors.Is(err, ErrSlotCount))

	_, err = Grade(numbersChoice(), Response{""})
	assert.True(t, errors.Is(err, ErrIncomplete))
}

func TestGradeDoesNotMutate(t *testing.T) {
	ex := numbersChoice()
	resp := Response{"4"}
	_, err := Grade(ex, resp)
	require.NoError(t, err)
	assert.Equal(t, Response{"4"}, resp)
	assert.Equal(t, numbersChoice(), ex)
}

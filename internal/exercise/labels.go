package exercise

var labels = map[Type]string{
	TypeFillInTheBlank:       "Вставить",
	TypeMultipleChoice:       "Выбор",
	TypeAudio:                "На слух",
	TypeReadingComprehension: "Аудирование",
	TypeTrueFalse:            "Правда/Ложь",
	TypeWordFill:             "Слова",
	TypeSelectFill:           "Диалог",
	TypeGrammarFill:          "Грамматика",
	TypeTableChoice:          "Таблица",
	TypeOpenQuestions:        "Вопросы",
}

// Label is the short navigation label shown next to an exercise.
func Label(t Type) string {
	if l, ok := labels[t]; ok {
		return l
	}
	return string(t)
}

package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gokatarajesh/vitaena/internal/catalog"
	"github.com/gokatarajesh/vitaena/internal/progress"
	"github.com/gokatarajesh/vitaena/internal/sidebar"
)

// ContentType is the MIME type of the exported workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{"№", "ID", "Тип", "Задание", "Результат"}

var resultLabels = map[progress.Result]string{
	progress.ResultCorrect:   "верно",
	progress.ResultIncorrect: "неверно",
}

// Filename is the download name for a topic export.
func Filename(topicSlug string) string {
	return fmt.Sprintf("%s-progress.xlsx", topicSlug)
}

// TopicProgress renders the stored results of t as an xlsx workbook with
// one row per exercise and a summary row at the bottom.
func TopicProgress(ctx context.Context, t *catalog.Topic, results sidebar.ResultReader) ([]byte, error) {
	view := sidebar.Build(ctx, t, results, "")

	f := excelize.NewFile()
	defer f.Close()

	sheetName := t.Title
	if sheetName == "" || len([]rune(sheetName)) > 31 {
		sheetName = t.Slug
	}
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, item := range view.Items {
		ex, _ := t.ExerciseAt(rowIndex)
		row := []interface{}{item.Position, item.ExerciseID, item.Label, ex.GetQuestion(), resultLabels[item.Result]}
		for colIndex, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	summaryRow := len(view.Items) + 3
	summary, _ := excelize.CoordinatesToCellName(4, summaryRow)
	f.SetCellValue(sheetName, summary, fmt.Sprintf("Верно %d из %d", view.Correct, view.Total))

	if err := f.SetColWidth(sheetName, "D", "D", 60); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// Package export renders attempt history and question banks as xlsx
// downloads.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/voltprep/revision-service/internal/models"
	"github.com/voltprep/revision-service/internal/progress"
)

// HistoryToExcel renders a level's attempt history, one row per attempt in
// insertion order.
func HistoryToExcel(records []models.AttemptRecord) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Attempts"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Label", "Topic", "Score (%)", "Correct", "Total", "Time Taken", "Date",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, record := range records {
		row := []interface{}{
			record.Label,
			record.Topic,
			record.Score,
			record.Correct,
			record.Total,
			progress.FormatElapsed(record.SecondsTaken),
			progress.FormatDate(record.Date),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// QuestionsToExcel renders a topic's question bank with the correct option
// and explanation, for offline revision material.
func QuestionsToExcel(questions []models.Question) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Questions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"ID", "Question", "Option A", "Option B", "Option C", "Option D",
		"Correct Answer", "Explanation",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, q := range questions {
		row := []interface{}{
			q.ID,
			q.Prompt,
			q.Options[0],
			q.Options[1],
			q.Options[2],
			q.Options[3],
			string(rune('A' + q.CorrectIndex)),
			q.Explanation,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// Package export renders lesson listings as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lingua-labs/lingua-api/internal/domain"
)

// LessonsSheet is the name of the single worksheet in a lesson export.
const LessonsSheet = "Lessons"

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var lessonHeader = []string{
	"ID", "Title", "Type", "Level", "Duration (min)", "Published",
	"Language", "Country", "Media URL", "Created At", "Updated At",
}

// LessonsFilename names an export taken at t.
func LessonsFilename(t time.Time) string {
	return fmt.Sprintf("lessons_%s.xlsx", t.UTC().Format("2006-01-02"))
}

// WriteLessons writes lessons as an .xlsx workbook to w: a bold, filtered
// header row followed by one row per lesson in the given order.
func WriteLessons(w io.Writer, lessons []*domain.Lesson) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", LessonsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(LessonsSheet, "A1", &lessonHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, l := range lessons {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := lessonRow(l)
		if err := f.SetSheetRow(LessonsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := formatSheet(f, len(lessons)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func lessonRow(l *domain.Lesson) []interface{} {
	var language, country string
	if l.Language != nil {
		language = l.Language.Name
		country = l.Language.Country
	}

	var duration interface{}
	if l.Duration != nil {
		duration = *l.Duration
	}

	return []interface{}{
		l.ID.String(),
		l.Title,
		string(l.Type),
		deref(l.Level),
		duration,
		strconv.FormatBool(l.IsPublished),
		language,
		country,
		deref(l.MediaURL),
		l.CreatedAt.UTC().Format(time.RFC3339),
		l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func formatSheet(f *excelize.File, rows int) error {
	last, err := excelize.ColumnNumberToName(len(lessonHeader))
	if err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(LessonsSheet, "A1", last+"1", bold); err != nil {
		return err
	}

	ref := fmt.Sprintf("A1:%s%d", last, rows+1)
	if err := f.AutoFilter(LessonsSheet, ref, nil); err != nil {
		return err
	}

	if err := f.SetPanes(LessonsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	widths := map[string]float64{"A": 38, "B": 40, "G": 18, "H": 18, "I": 50, "J": 22, "K": 22}
	for col, w := range widths {
		if err := f.SetColWidth(LessonsSheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

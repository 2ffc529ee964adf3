// Package export writes booking data to files the visitor can keep: an Excel
// history workbook and iCalendar events for individual reservations.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"museovini/internal/booking"
	"museovini/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

var experienceLabels = map[string]string{
	models.ExperienceGuidedTour:  "Guided tour",
	models.ExperienceTourTasting: "Tour + tasting",
}

func experienceLabel(experienceType string) string {
	if label, ok := experienceLabels[experienceType]; ok {
		return label
	}
	return "Museum visit"
}

// Exporter writes export files into a configured directory.
type Exporter struct {
	dir    string
	logger *zerolog.Logger
}

func NewExporter(dir string, logger *zerolog.Logger) *Exporter {
	return &Exporter{dir: dir, logger: logger}
}

// BookingsToExcel writes the visitor's bookings to a workbook, upcoming and
// past on separate sheets, and returns the file path.
func (e *Exporter) BookingsToExcel(bookings []models.Booking, now time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	upcoming, past := booking.PartitionByTime(bookings, now)
	if err := writeBookingSheet(f, "Upcoming", upcoming); err != nil {
		return "", err
	}
	if err := writeBookingSheet(f, "Past", past); err != nil {
		return "", err
	}

	index, err := f.GetSheetIndex("Upcoming")
	if err != nil {
		return "", fmt.Errorf("error locating sheet: %v", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s.xlsx", now.Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}

func writeBookingSheet(f *excelize.File, sheetName string, bookings []models.Booking) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}

	headers := []string{"ID", "Date", "Time", "Guests", "Experience", "Notes", "Guest contacts", "Booked on"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, b := range bookings {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.DateTime.Format("02.01.2006"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), b.DateTime.Format("15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), b.People)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), experienceLabel(b.ExperienceType))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), b.InfoMessage)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), formatContacts(b.GuestContacts))
		if !b.CreatedAt.IsZero() {
			_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), b.CreatedAt.Format("02.01.2006 15:04"))
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "C", 12)
	_ = f.SetColWidth(sheetName, "D", "D", 8)
	_ = f.SetColWidth(sheetName, "E", "E", 16)
	_ = f.SetColWidth(sheetName, "F", "G", 30)
	_ = f.SetColWidth(sheetName, "H", "H", 18)
	return nil
}

func formatContacts(contacts []models.GuestContact) string {
	out := ""
	for i, c := range contacts {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("%s <%s>", c.Name, c.Email)
	}
	return out
}

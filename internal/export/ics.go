package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"museovini/internal/models"
)

const visitDuration = time.Hour

// BookingToICS writes a single-event iCalendar file for a booking and returns
// the file path. The event spans one hour from the booking's start time.
func (e *Exporter) BookingToICS(booking models.Booking) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	fileName := fmt.Sprintf("museo-booking-%d.ics", booking.ID)
	filePath := filepath.Join(e.dir, fileName)
	if err := os.WriteFile(filePath, []byte(CalendarEvent(booking, time.Now())), 0o644); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int64("booking_id", booking.ID).Msg("calendar file created")
	return filePath, nil
}

// CalendarEvent renders a booking as a VCALENDAR document.
func CalendarEvent(booking models.Booking, stamp time.Time) string {
	start := booking.DateTime
	end := start.Add(visitDuration)

	description := "Museum reservation"
	if booking.InfoMessage != "" {
		description = strings.ReplaceAll(booking.InfoMessage, "\n", " ")
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Museo Vini//EN",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:booking-%d@museo-vini", booking.ID),
		"DTSTAMP:" + icsTime(stamp),
		"DTSTART:" + icsTime(start),
		"DTEND:" + icsTime(end),
		"SUMMARY:" + escapeICS(experienceLabel(booking.ExperienceType)),
		"DESCRIPTION:" + escapeICS(description),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

func icsTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes the characters RFC 5545 reserves in text values.
func escapeICS(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}

package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"museovini/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return NewExporter(t.TempDir(), &logger)
}

func TestBookingsToExcel(t *testing.T) {
	exporter := newTestExporter(t)
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	bookings := []models.Booking{
		{
			ID:             1,
			DateTime:       now.Add(48 * time.Hour),
			People:         2,
			ExperienceType: models.ExperienceGuidedTour,
			InfoMessage:    "wheelchair access",
			GuestContacts:  []models.GuestContact{{Name: "Ada", Email: "ada@example.com"}},
			CreatedAt:      now.Add(-time.Hour),
		},
		{
			ID:             2,
			DateTime:       now.Add(-48 * time.Hour),
			People:         4,
			ExperienceType: models.ExperienceTourTasting,
		},
	}

	path, err := exporter.BookingsToExcel(bookings, now)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	upcoming, err := f.GetRows("Upcoming")
	require.NoError(t, err)
	require.Len(t, upcoming, 2) // header + one booking
	assert.Equal(t, "ID", upcoming[0][0])
	assert.Equal(t, "1", upcoming[1][0])
	assert.Equal(t, "Guided tour", upcoming[1][4])

	past, err := f.GetRows("Past")
	require.NoError(t, err)
	require.Len(t, past, 2)
	assert.Equal(t, "2", past[1][0])
	assert.Equal(t, "Tour + tasting", past[1][4])
}

func TestBookingToICS(t *testing.T) {
	exporter := newTestExporter(t)

	booking := models.Booking{
		ID:             7,
		DateTime:       time.Date(2026, 7, 1, 10, 30, 0, 0, time.UTC),
		People:         3,
		ExperienceType: models.ExperienceGuidedTour,
		InfoMessage:    "meet at the\nmain entrance",
	}

	path, err := exporter.BookingToICS(booking)
	require.NoError(t, err)
	assert.Equal(t, "museo-booking-7.ics", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "BEGIN:VCALENDAR")
	assert.Contains(t, content, "UID:booking-7@museo-vini")
	assert.Contains(t, content, "DTSTART:20260701T103000Z")
	assert.Contains(t, content, "DTEND:20260701T113000Z")
	assert.Contains(t, content, "SUMMARY:Guided tour")
	assert.Contains(t, content, "DESCRIPTION:meet at the main entrance")
	assert.True(t, strings.HasSuffix(content, "END:VCALENDAR\r\n"))
}

func TestCalendarEventEscapesReservedCharacters(t *testing.T) {
	booking := models.Booking{
		ID:          9,
		DateTime:    time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		InfoMessage: "cheese, wine; bring\nfriends",
	}

	content := CalendarEvent(booking, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, content, `DESCRIPTION:cheese\, wine\; bring friends`)
	assert.Contains(t, content, "DTSTAMP:20260601T000000Z")
	// No experience type maps to the generic label.
	assert.Contains(t, content, "SUMMARY:Museum visit")
}

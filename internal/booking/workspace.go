// Package booking orchestrates the visitor's reservations: creating,
// listing, cancelling and proposing changes, plus the live availability
// lookup for the slot being composed. All server failures leave prior state
// intact; local mutations happen only after server confirmation.
package booking

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"museovini/internal/apiclient"
	"museovini/internal/domain"
	"museovini/internal/events"
	"museovini/internal/metrics"
	"museovini/internal/models"

	"github.com/rs/zerolog"
)

const apiTimeLayout = "2006-01-02T15:04:05"

// Form is the booking-creation draft.
type Form struct {
	Date           string // 2006-01-02, empty until the user picks one
	TimeSlot       string // 15:04
	People         int
	InfoMessage    string
	ExperienceType string
	GuestContacts  []models.GuestContact
}

// dateTime composes the draft's date and slot. Zero when either is missing.
func (f Form) dateTime() time.Time {
	if f.Date == "" || f.TimeSlot == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(apiTimeLayout[:16], f.Date+"T"+f.TimeSlot, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Workspace holds the booking screen's state: the creation form, the loaded
// booking and update-request lists, and the latest applied availability
// snapshot.
type Workspace struct {
	api      *apiclient.Client
	bus      domain.EventPublisher
	notifier domain.Notifier
	logger   *zerolog.Logger
	slots    []string
	now      func() time.Time

	mu       sync.RWMutex
	form     Form
	bookings []models.Booking
	requests []models.UpdateRequest
	warning  string

	// Availability lookups are last-writer-wins by dispatch order: each
	// lookup takes the next sequence number, and a response is applied only
	// if no later lookup has been dispatched since.
	availMu      sync.Mutex
	availSeq     int64
	availability *models.Availability
}

func NewWorkspace(api *apiclient.Client, slots []string, bus domain.EventPublisher, notifier domain.Notifier, logger *zerolog.Logger) *Workspace {
	if len(slots) == 0 {
		slots = models.DefaultTimeSlots
	}
	w := &Workspace{
		api:      api,
		bus:      bus,
		notifier: notifier,
		logger:   logger,
		slots:    slots,
		now:      time.Now,
	}
	w.form = w.initialForm()
	return w
}

func (w *Workspace) initialForm() Form {
	return Form{
		Date:           w.now().Format("2006-01-02"),
		TimeSlot:       w.slots[0],
		People:         1,
		ExperienceType: models.ExperienceGuidedTour,
	}
}

// Load fetches bookings and update requests. The two are independent failure
// domains: a bookings failure aborts the load, but a requests failure only
// sets a warning while the loaded bookings stay visible.
func (w *Workspace) Load(ctx context.Context) error {
	w.mu.Lock()
	w.warning = ""
	w.mu.Unlock()

	var bookings []models.Booking
	if err := w.api.RequestJSON(ctx, "/users/me/bookings", apiclient.Options{Auth: true}, &bookings); err != nil {
		w.mu.Lock()
		w.bookings = nil
		w.requests = nil
		w.mu.Unlock()
		return err
	}

	var requests []models.UpdateRequest
	warning := ""
	if err := w.api.RequestJSON(ctx, "/bookings/update-requests/me", apiclient.Options{Auth: true}, &requests); err != nil {
		w.logger.Warn().Err(err).Msg("unable to load update requests")
		requests = nil
		warning = "your bookings loaded, but change requests could not be fetched"
	}

	w.mu.Lock()
	w.bookings = bookings
	w.requests = requests
	w.warning = warning
	w.mu.Unlock()
	return nil
}

// Warning reports the degraded-load message, if any.
func (w *Workspace) Warning() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.warning
}

// Bookings returns a copy of the loaded booking list.
func (w *Workspace) Bookings() []models.Booking {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.Booking(nil), w.bookings...)
}

// Requests returns a copy of the loaded update-request list, newest first.
func (w *Workspace) Requests() []models.UpdateRequest {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.UpdateRequest(nil), w.requests...)
}

// Partition splits the loaded bookings around now.
func (w *Workspace) Partition() (upcoming, past []models.Booking) {
	return PartitionByTime(w.Bookings(), w.now())
}

// LatestRequestFor returns the newest update request for a booking.
func (w *Workspace) LatestRequestFor(bookingID int64) (models.UpdateRequest, bool) {
	req, ok := LatestRequests(w.Requests())[bookingID]
	return req, ok
}

// Form returns the current draft.
func (w *Workspace) Form() Form {
	w.mu.RLock()
	defer w.mu.RUnlock()
	form := w.form
	form.GuestContacts = append([]models.GuestContact(nil), w.form.GuestContacts...)
	return form
}

// SetForm replaces the draft.
func (w *Workspace) SetForm(form Form) {
	w.mu.Lock()
	w.form = form
	w.mu.Unlock()
}

// Availability returns the last applied availability snapshot, or nil when no
// lookup has completed.
func (w *Workspace) Availability() *models.Availability {
	w.availMu.Lock()
	defer w.availMu.Unlock()
	return w.availability
}

// CheckAvailability looks up remaining capacity for a slot. Local validation
// short-circuits before any network call. A response that has been superseded
// by a later dispatch is discarded and returns (nil, nil) so it can never
// overwrite a newer snapshot.
func (w *Workspace) CheckAvailability(ctx context.Context, slot time.Time, experienceType string) (*models.Availability, error) {
	if err := validateSlot(slot, w.now(), w.slots); err != nil {
		return nil, err
	}

	w.availMu.Lock()
	w.availSeq++
	seq := w.availSeq
	w.availMu.Unlock()

	query := url.Values{}
	query.Set("date_time", slot.Format(apiTimeLayout))
	query.Set("experience_type", experienceType)

	var snapshot models.Availability
	err := w.api.RequestJSON(ctx, "/bookings/availability?"+query.Encode(), apiclient.Options{Auth: true}, &snapshot)

	w.availMu.Lock()
	defer w.availMu.Unlock()
	if seq < w.availSeq {
		metrics.IncStaleAvailability()
		w.logger.Debug().Int64("seq", seq).Int64("latest", w.availSeq).Msg("discarding stale availability response")
		return nil, nil
	}
	if err != nil {
		w.availability = nil
		return nil, err
	}
	w.availability = &snapshot
	return &snapshot, nil
}

// Create submits the current draft. On success the new booking is inserted
// into the local list in date order and the form resets, keeping the chosen
// experience type.
func (w *Workspace) Create(ctx context.Context) (*models.Booking, error) {
	form := w.Form()
	slot := form.dateTime()
	if err := validateSlot(slot, w.now(), w.slots); err != nil {
		return nil, err
	}
	if form.People < 1 {
		return nil, validationErrorf("at least one guest is required")
	}

	payload := models.BookingCreate{
		DateTime:       slot,
		People:         form.People,
		ExperienceType: form.ExperienceType,
		GuestContacts:  stripEmptyContacts(form.GuestContacts),
	}
	if msg := strings.TrimSpace(form.InfoMessage); msg != "" {
		payload.InfoMessage = &msg
	}

	var created models.Booking
	opt := apiclient.Options{Method: http.MethodPost, Body: payload, Auth: true}
	if err := w.api.RequestJSON(ctx, "/bookings/", opt, &created); err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.bookings = insertSorted(w.bookings, created)
	reset := w.initialForm()
	reset.ExperienceType = form.ExperienceType
	w.form = reset
	w.mu.Unlock()

	w.availMu.Lock()
	w.availability = nil
	w.availMu.Unlock()

	w.notifier.Notify("success", "Reservation created successfully")
	_ = w.bus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		BookingID:      created.ID,
		DateTime:       created.DateTime,
		People:         created.People,
		ExperienceType: created.ExperienceType,
	})
	w.logger.Info().Int64("booking_id", created.ID).Time("date_time", created.DateTime).Msg("booking created")
	return &created, nil
}

// Cancel deletes a booking. The local list is only touched after the server
// confirms.
func (w *Workspace) Cancel(ctx context.Context, bookingID int64) error {
	path := fmt.Sprintf("/bookings/%d", bookingID)
	if err := w.api.RequestJSON(ctx, path, apiclient.Options{Method: http.MethodDelete, Auth: true}, nil); err != nil {
		return err
	}

	w.mu.Lock()
	kept := w.bookings[:0]
	for _, b := range w.bookings {
		if b.ID != bookingID {
			kept = append(kept, b)
		}
	}
	w.bookings = kept
	w.mu.Unlock()

	w.notifier.Notify("info", "Reservation cancelled")
	_ = w.bus.PublishJSON(events.EventBookingCancelled, events.BookingEventPayload{BookingID: bookingID})
	w.logger.Info().Int64("booking_id", bookingID).Msg("booking cancelled")
	return nil
}

// RequestChange submits an update request for a booking after checking that
// it actually changes something. The created request is prepended so the
// latest-request lookup reflects it immediately.
func (w *Workspace) RequestChange(ctx context.Context, bookingID int64, req models.UpdateRequestCreate) (*models.UpdateRequest, error) {
	original, ok := w.findBooking(bookingID)
	if !ok {
		return nil, validationErrorf("booking not found")
	}
	if err := validateChangeRequest(original, req, w.now()); err != nil {
		return nil, err
	}

	var created models.UpdateRequest
	path := fmt.Sprintf("/bookings/%d/update-request", bookingID)
	opt := apiclient.Options{Method: http.MethodPost, Body: req, Auth: true}
	if err := w.api.RequestJSON(ctx, path, opt, &created); err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.requests = append([]models.UpdateRequest{created}, w.requests...)
	w.mu.Unlock()

	w.notifier.Notify("success", "Update request sent to the admin")
	payload := events.BookingEventPayload{BookingID: bookingID, RequestID: created.ID}
	if created.RequestedDateTime != nil {
		payload.DateTime = *created.RequestedDateTime
	}
	if created.RequestedPeople != nil {
		payload.People = *created.RequestedPeople
	}
	_ = w.bus.PublishJSON(events.EventUpdateRequested, payload)
	w.logger.Info().Int64("booking_id", bookingID).Int64("request_id", created.ID).Msg("update request sent")
	return &created, nil
}

// Rebook seeds the draft from a previous booking, leaving the date and slot
// blank so the visitor has to pick a new future time.
func (w *Workspace) Rebook(booking models.Booking) {
	form := Form{
		People:         booking.People,
		InfoMessage:    booking.InfoMessage,
		ExperienceType: booking.ExperienceType,
		GuestContacts:  append([]models.GuestContact(nil), booking.GuestContacts...),
	}
	if form.ExperienceType == "" {
		form.ExperienceType = models.ExperienceGuidedTour
	}
	w.SetForm(form)
	w.notifier.Notify("info", "Details copied from your previous visit. Choose a new date to finish rebooking.")
}

func (w *Workspace) findBooking(id int64) (models.Booking, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, b := range w.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

// stripEmptyContacts trims guest rows and drops the incomplete ones.
func stripEmptyContacts(contacts []models.GuestContact) []models.GuestContact {
	var kept []models.GuestContact
	for _, c := range contacts {
		name := strings.TrimSpace(c.Name)
		email := strings.TrimSpace(c.Email)
		if name != "" && email != "" {
			kept = append(kept, models.GuestContact{Name: name, Email: email})
		}
	}
	return kept
}

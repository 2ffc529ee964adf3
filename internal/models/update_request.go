package models

import "time"

// UpdateRequest is a visitor-proposed change to an existing booking, pending
// admin review. Only the most recently created request per booking is shown
// to the user.
type UpdateRequest struct {
	ID                   int64      `json:"id"`
	BookingID            int64      `json:"booking_id"`
	RequestedDateTime    *time.Time `json:"requested_date_time"`
	RequestedPeople      *int       `json:"requested_people"`
	RequestedInfoMessage *string    `json:"requested_info_message"`
	Note                 *string    `json:"note"`
	Status               string     `json:"status"`
	AdminNote            *string    `json:"admin_note"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at,omitempty"`
}

// UpdateRequestCreate is the body for POST /bookings/{id}/update-request.
// Nil fields mean "keep the current value".
type UpdateRequestCreate struct {
	RequestedDateTime    *time.Time `json:"requested_date_time"`
	RequestedPeople      *int       `json:"requested_people"`
	RequestedInfoMessage *string    `json:"requested_info_message"`
	Note                 *string    `json:"note"`
}

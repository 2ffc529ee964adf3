package models

import "time"

// GuestContact is an optional companion added to a booking so everyone
// receives reminders.
type GuestContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Booking is a confirmed museum reservation. Bookings are never mutated in
// place by the client: changes go through an UpdateRequest and are applied
// server-side once approved.
type Booking struct {
	ID             int64          `json:"id"`
	DateTime       time.Time      `json:"date_time"`
	People         int            `json:"people"`
	InfoMessage    string         `json:"info_message,omitempty"`
	ExperienceType string         `json:"experience_type"`
	GuestContacts  []GuestContact `json:"guest_contacts,omitempty"`
	UserID         int64          `json:"user_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// BookingCreate is the body for POST /bookings/.
type BookingCreate struct {
	DateTime       time.Time      `json:"date_time"`
	People         int            `json:"people"`
	InfoMessage    *string        `json:"info_message"`
	ExperienceType string         `json:"experience_type"`
	GuestContacts  []GuestContact `json:"guest_contacts"`
}

// Availability is the transient capacity snapshot for one (slot, experience)
// pair. It is never persisted; each response supersedes the previous one.
type Availability struct {
	Remaining int  `json:"remaining"`
	Capacity  int  `json:"capacity"`
	IsFull    bool `json:"is_full"`
}

package models

const (
	ExperienceGuidedTour  = "guided_tour"
	ExperienceTourTasting = "tour_tasting"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// DefaultTimeSlots are the museum's bookable entry times. Deployments can
// override them in config; the server enforces the same list.
var DefaultTimeSlots = []string{"09:00", "10:30", "12:00", "15:00", "16:30", "18:00"}

// ExperienceTypes lists the accepted experience_type values.
var ExperienceTypes = []string{ExperienceGuidedTour, ExperienceTourTasting}

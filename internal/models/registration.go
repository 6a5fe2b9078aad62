package models

import (
	"gorm.io/gorm"
)

// Registration is a participant's enrollment for an event. It links to the
// event by id but also keeps a copy of the event name so receipts survive a
// rename. Amount is the free-text value the participant entered; it is never
// validated against the event fee.
type Registration struct {
	gorm.Model
	EventID          uint   `json:"event_id"`
	Event            Event  `json:"-" gorm:"foreignKey:EventID"`
	EventName        string `json:"event_name"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Mobile           string `json:"mobile"`
	Gender           string `json:"gender"`
	Amount           string `json:"amount" gorm:"default:0"`
	EmergencyContact string `json:"emergency_contact"`
	MedicalCondition string `json:"medical_condition"`
}

package models

import (
	"fmt"

	"gorm.io/gorm"
)

type EventStatus string

const (
	StatusPending  EventStatus = "PENDING"
	StatusApproved EventStatus = "APPROVED"
	StatusRejected EventStatus = "REJECTED"
)

// Event is an organizer-submitted athletic event. Dates and times are kept as
// independent date and time strings (no combined timestamp, no timezone),
// matching the submission form.
type Event struct {
	gorm.Model
	Name            string      `json:"name"`
	Category        string      `json:"category"`
	Location        string      `json:"location"`
	StartDate       string      `json:"start_date" gorm:"type:date"`
	EndDate         string      `json:"end_date" gorm:"type:date"`
	StartTime       string      `json:"start_time"`
	EndTime         string      `json:"end_time"`
	Distance        string      `json:"distance"`
	MaxParticipants *int        `json:"max_participants"`
	Fee             *float64    `json:"fee"`
	Image           string      `json:"image"` // storage path, empty when none
	Description     string      `json:"description"`
	Overview        string      `json:"overview"`
	Status          EventStatus `json:"status" gorm:"default:PENDING"`
	CreatedByID     *uint       `json:"created_by_id"`
	CreatedBy       *User       `json:"created_by" gorm:"foreignKey:CreatedByID"`
	ApprovedByID    *uint       `json:"approved_by_id"`
	ApprovedBy      *User       `json:"approved_by" gorm:"foreignKey:ApprovedByID;constraint:OnDelete:SET NULL"`
}

// Transition moves the event to the given moderation status. Only
// PENDING -> APPROVED and PENDING -> REJECTED are legal; a decided event
// cannot be re-moderated.
func (e *Event) Transition(to EventStatus) error {
	if to != StatusApproved && to != StatusRejected {
		return fmt.Errorf("invalid target status %q", to)
	}
	if e.Status != StatusPending {
		return fmt.Errorf("event is already %s", e.Status)
	}
	e.Status = to
	return nil
}

// ModerationLog is an append-only record of an approve/reject decision.
type ModerationLog struct {
	gorm.Model
	EventID     uint        `json:"event_id"`
	ModeratorID uint        `json:"moderator_id"`
	FromStatus  EventStatus `json:"from_status"`
	ToStatus    EventStatus `json:"to_status"`
}

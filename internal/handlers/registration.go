package handlers

import (
	"context"
	"errors"

	"github.com/athletix/events-api/internal/models"
	"github.com/athletix/events-api/internal/validation"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type RegistrationHandler struct {
	db *gorm.DB
}

func NewRegistrationHandler(db *gorm.DB) *RegistrationHandler {
	return &RegistrationHandler{db: db}
}

type RegisterRequest struct {
	Body struct {
		EventName        string `json:"event_name" validate:"required" doc:"Name of the event to register for"`
		FirstName        string `json:"first_name" validate:"required"`
		LastName         string `json:"last_name"`
		Email            string `json:"email" validate:"required"`
		Mobile           string `json:"mobile"`
		Gender           string `json:"gender"`
		Amount           string `json:"amount" doc:"Payment amount as entered, not validated"`
		EmergencyContact string `json:"emergency_contact"`
		MedicalCondition string `json:"medical_condition"`
	}
}

// RegisterResponse keeps the original envelope: failures are reported in the
// body with status "error" rather than a 4xx.
type RegisterResponse struct {
	Body struct {
		Status string `json:"status"`
		RegID  uint   `json:"reg_id,omitempty"`
		Error  string `json:"error,omitempty"`
	}
}

func registerError(message string) *RegisterResponse {
	res := &RegisterResponse{}
	res.Body.Status = "error"
	res.Body.Error = message
	return res
}

func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	if err := validation.Struct(ctx, input.Body); err != nil {
		return registerError("Missing required fields"), nil
	}

	// Registrations link to a real event, so the submitted name must resolve.
	var event models.Event
	if err := h.db.Where("name = ?", input.Body.EventName).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return registerError("Event not found"), nil
		}
		log.Error().Err(err).Msg("Failed to look up event")
		return registerError("Failed to process registration"), nil
	}

	if event.MaxParticipants != nil {
		var count int64
		if err := h.db.Model(&models.Registration{}).Where("event_id = ?", event.ID).Count(&count).Error; err != nil {
			log.Error().Err(err).Msg("Failed to count registrations")
			return registerError("Failed to process registration"), nil
		}
		if count >= int64(*event.MaxParticipants) {
			return registerError("Event is full"), nil
		}
	}

	amount := input.Body.Amount
	if amount == "" {
		amount = "0"
	}

	registration := models.Registration{
		EventID:          event.ID,
		EventName:        event.Name,
		FirstName:        input.Body.FirstName,
		LastName:         input.Body.LastName,
		Email:            input.Body.Email,
		Mobile:           input.Body.Mobile,
		Gender:           input.Body.Gender,
		Amount:           amount,
		EmergencyContact: input.Body.EmergencyContact,
		MedicalCondition: input.Body.MedicalCondition,
	}

	if err := h.db.Create(&registration).Error; err != nil {
		log.Error().Err(err).Msg("Failed to create registration")
		return registerError("Failed to process registration"), nil
	}

	res := &RegisterResponse{}
	res.Body.Status = "success"
	res.Body.RegID = registration.ID
	return res, nil
}

package handlers

import (
	"context"
	"errors"

	"github.com/athletix/events-api/internal/auth"
	"github.com/athletix/events-api/internal/models"
	"github.com/athletix/events-api/internal/notifier"
	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ModerationHandler struct {
	db          *gorm.DB
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
}

func NewModerationHandler(db *gorm.DB, notifier notifier.Notifier, authHandler *auth.AuthHandler) *ModerationHandler {
	return &ModerationHandler{db: db, notifier: notifier, authHandler: authHandler}
}

type ModerateEventInput struct {
	auth.AuthInput
	ID uint `path:"id" doc:"Event ID"`
}

type ModerationResponse struct {
	Body struct {
		Status models.EventStatus `json:"status"`
	}
}

func (h *ModerationHandler) HandleApprove(ctx context.Context, input *ModerateEventInput) (*ModerationResponse, error) {
	return h.moderate(ctx, input, models.StatusApproved)
}

func (h *ModerationHandler) HandleReject(ctx context.Context, input *ModerateEventInput) (*ModerationResponse, error) {
	return h.moderate(ctx, input, models.StatusRejected)
}

func (h *ModerationHandler) moderate(ctx context.Context, input *ModerateEventInput, to models.EventStatus) (*ModerationResponse, error) {
	moderator, err := h.authHandler.RequireModerator(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var event models.Event
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&event, input.ID).Error; err != nil {
			return err
		}

		from := event.Status
		if err := event.Transition(to); err != nil {
			return huma.Error409Conflict(err.Error())
		}
		if to == models.StatusApproved {
			event.ApprovedByID = &moderator.ID
		}

		if err := tx.Save(&event).Error; err != nil {
			return err
		}

		// Audit row rides in the same transaction as the decision.
		entry := models.ModerationLog{
			EventID:     event.ID,
			ModeratorID: moderator.ID,
			FromStatus:  from,
			ToStatus:    to,
		}
		return tx.Create(&entry).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		var statusErr huma.StatusError
		if errors.As(err, &statusErr) {
			return nil, statusErr
		}
		return nil, huma.Error500InternalServerError("Failed to update event: " + err.Error())
	}

	if h.notifier != nil {
		if err := h.notifier.EventModerated(event, *moderator); err != nil {
			log.Error().Err(err).Uint("event_id", event.ID).Msg("Failed to send moderation notification")
		}
	}

	res := &ModerationResponse{}
	res.Body.Status = event.Status
	return res, nil
}

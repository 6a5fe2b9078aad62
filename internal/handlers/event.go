package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/athletix/events-api/internal/auth"
	"github.com/athletix/events-api/internal/config"
	"github.com/athletix/events-api/internal/models"
	"github.com/athletix/events-api/internal/notifier"
	"github.com/athletix/events-api/internal/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const maxUploadBytes = 10 << 20

// organizerFallback is shown when an event has no creator on record.
const organizerFallback = "Event Organizer"

type EventHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	store    storage.Store
	notifier notifier.Notifier
}

func NewEventHandler(db *gorm.DB, cfg *config.Config, store storage.Store, notifier notifier.Notifier) *EventHandler {
	return &EventHandler{db: db, cfg: cfg, store: store, notifier: notifier}
}

type createEventResult struct {
	Status  string `json:"status"`
	EventID uint   `json:"event_id,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// HandleCreateEvent accepts the organizer's submission form. New events are
// always PENDING; created_by is recorded when the request carries a valid
// session.
func (h *EventHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeJSON(w, createEventResult{Status: "error", Message: "Failed to parse form: " + err.Error()})
			return
		}
	} else if err := r.ParseForm(); err != nil {
		writeJSON(w, createEventResult{Status: "error", Message: "Failed to parse form: " + err.Error()})
		return
	}

	event, err := h.eventFromForm(r)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected event submission")
		writeJSON(w, createEventResult{Status: "error", Message: err.Error()})
		return
	}

	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		event.CreatedByID = &userID
	}

	if err := h.db.Create(event).Error; err != nil {
		log.Error().Err(err).Msg("Failed to create event")
		writeJSON(w, createEventResult{Status: "error", Message: err.Error()})
		return
	}

	if h.notifier != nil {
		if err := h.notifier.EventSubmitted(*event); err != nil {
			log.Error().Err(err).Uint("event_id", event.ID).Msg("Failed to send submission notification")
		}
	}

	writeJSON(w, createEventResult{Status: "success", EventID: event.ID})
}

func (h *EventHandler) eventFromForm(r *http.Request) (*models.Event, error) {
	startDate, err := parseDate(r.FormValue("start_date"))
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	endDate, err := parseDate(r.FormValue("end_date"))
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}
	startTime, err := parseClock(r.FormValue("start_time"))
	if err != nil {
		return nil, fmt.Errorf("invalid start_time: %w", err)
	}
	endTime, err := parseClock(r.FormValue("end_time"))
	if err != nil {
		return nil, fmt.Errorf("invalid end_time: %w", err)
	}

	event := &models.Event{
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		Location:    r.FormValue("location"),
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   startTime,
		EndTime:     endTime,
		Distance:    r.FormValue("distance"),
		Description: r.FormValue("description"),
		Overview:    r.FormValue("overview"),
		Status:      models.StatusPending,
	}

	if v := r.FormValue("max_participants"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid max_participants: %w", err)
		}
		event.MaxParticipants = &n
	}
	if v := r.FormValue("fee"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fee: %w", err)
		}
		event.Fee = &f
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		path, err := h.store.Save("events", header.Filename, file)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		event.Image = path
	}

	return event, nil
}

func parseDate(v string) (string, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

func parseClock(v string) (string, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("%q is not a valid time", v)
}

func (h *EventHandler) imageURL(e models.Event) string {
	if e.Image == "" {
		return ""
	}
	return strings.TrimRight(h.cfg.MediaBaseURL, "/") + "/" + e.Image
}

// PendingEventView is the lean projection used by the moderation queue.
type PendingEventView struct {
	ID              uint     `json:"id"`
	Title           string   `json:"title"`
	Date            string   `json:"date"`
	MaxParticipants *int     `json:"maxParticipants"`
	Price           *float64 `json:"price"`
	Currency        string   `json:"currency"`
	ImageURL        string   `json:"imageUrl"`
}

type PendingEventsResponse struct {
	Body []PendingEventView
}

func (h *EventHandler) HandlePendingEvents(ctx context.Context, input *struct{}) (*PendingEventsResponse, error) {
	var events []models.Event
	if err := h.db.Where("status = ?", models.StatusPending).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending events: %w", err)
	}

	views := make([]PendingEventView, 0, len(events))
	for _, e := range events {
		views = append(views, PendingEventView{
			ID:              e.ID,
			Title:           e.Name,
			Date:            e.StartDate,
			MaxParticipants: e.MaxParticipants,
			Price:           e.Fee,
			Currency:        "USD",
			ImageURL:        h.imageURL(e),
		})
	}

	return &PendingEventsResponse{Body: views}, nil
}

// ApprovedEventView is the rich projection shown on public listings.
type ApprovedEventView struct {
	ID                   uint     `json:"id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Date                 string   `json:"date"`
	Location             string   `json:"location"`
	Distance             string   `json:"distance"`
	Price                *float64 `json:"price"`
	MaxParticipants      *int     `json:"maxParticipants"`
	Participants         int64    `json:"participants"`
	Organizer            string   `json:"organizer"`
	RegistrationDeadline string   `json:"registrationDeadline"`
	ImageURL             string   `json:"imageUrl"`
}

type ApprovedEventsResponse struct {
	Body []ApprovedEventView
}

func (h *EventHandler) HandleApprovedEvents(ctx context.Context, input *struct{}) (*ApprovedEventsResponse, error) {
	var events []models.Event
	if err := h.db.Preload("CreatedBy").Where("status = ?", models.StatusApproved).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list approved events: %w", err)
	}

	counts, err := h.registrationCounts()
	if err != nil {
		return nil, err
	}

	views := make([]ApprovedEventView, 0, len(events))
	for _, e := range events {
		organizer := organizerFallback
		if e.CreatedBy != nil {
			organizer = e.CreatedBy.Username
		}
		views = append(views, ApprovedEventView{
			ID:                   e.ID,
			Title:                e.Name,
			Description:          e.Description,
			Date:                 e.StartDate,
			Location:             e.Location,
			Distance:             e.Distance,
			Price:                e.Fee,
			MaxParticipants:      e.MaxParticipants,
			Participants:         counts[e.ID],
			Organizer:            organizer,
			RegistrationDeadline: e.EndDate,
			ImageURL:             h.imageURL(e),
		})
	}

	return &ApprovedEventsResponse{Body: views}, nil
}

func (h *EventHandler) registrationCounts() (map[uint]int64, error) {
	var rows []struct {
		EventID uint
		Total   int64
	}
	err := h.db.Model(&models.Registration{}).
		Select("event_id, count(*) as total").
		Group("event_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.EventID] = row.Total
	}
	return counts, nil
}

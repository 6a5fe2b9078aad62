package handlers

import (
	"net/http"

	"github.com/athletix/events-api/internal/auth"
	"github.com/athletix/events-api/internal/config"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// errorResponse is the error payload every failing operation returns.
type errorResponse struct {
	status  int
	Message string `json:"error"`
}

func (e *errorResponse) Error() string  { return e.Message }
func (e *errorResponse) GetStatus() int { return e.status }

func init() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		return &errorResponse{status: status, Message: message}
	}
}

func RegisterRoutes(
	r *chi.Mux,
	cfg *config.Config,
	authHandler *auth.AuthHandler,
	eventHandler *EventHandler,
	moderationHandler *ModerationHandler,
	registrationHandler *RegistrationHandler,
	receiptHandler *ReceiptHandler,
	apiKeyHandler *APIKeyHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	humaConfig := huma.DefaultConfig("Athletics Event API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, humaConfig)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	r.Get("/auth/discord/login", authHandler.HandleLogin)
	r.Get("/auth/discord/callback", authHandler.HandleCallback)

	// Public listings and registration intake
	huma.Get(api, "/pending-events", eventHandler.HandlePendingEvents)
	huma.Get(api, "/approved-events", eventHandler.HandleApprovedEvents)
	huma.Post(api, "/register-event", registrationHandler.HandleRegister)

	// Moderation
	secured := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}
	huma.Get(api, "/me", authHandler.HandleMe, secured)
	huma.Post(api, "/events/{id}/approve", moderationHandler.HandleApprove, secured)
	huma.Post(api, "/events/{id}/reject", moderationHandler.HandleReject, secured)

	// API keys
	huma.Post(api, "/api-keys", apiKeyHandler.HandleCreate, secured)
	huma.Get(api, "/api-keys", apiKeyHandler.HandleList, secured)
	huma.Delete(api, "/api-keys/{id}", apiKeyHandler.HandleDelete, secured)

	// Event submission takes a multipart form with an optional image, so it
	// stays a plain handler. The session middleware picks up created_by when
	// the organizer is logged in but never blocks anonymous submissions.
	r.Group(func(r chi.Router) {
		r.Use(authHandler.SessionMiddleware)
		r.Post("/create-event", eventHandler.HandleCreateEvent)
	})

	r.Get("/download-receipt/{regID}", receiptHandler.HandleDownloadReceipt)

	// Stored event images
	fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir)))
	r.Handle("/media/*", fileServer)
}

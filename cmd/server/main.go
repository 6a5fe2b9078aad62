package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/athletix/events-api/internal/auth"
	"github.com/athletix/events-api/internal/config"
	"github.com/athletix/events-api/internal/database"
	"github.com/athletix/events-api/internal/handlers"
	"github.com/athletix/events-api/internal/notifier"
	"github.com/athletix/events-api/internal/storage"
	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.LoadConfig()
	db := database.Connect(cfg)

	store, err := storage.NewDiskStore(cfg.MediaDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up media storage")
	}

	var notif notifier.Notifier
	var roles auth.RoleChecker
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Warn().Err(err).Msg("Discord notifier not initialized")
		} else {
			discordNotifier := notifier.NewDiscordNotifier(session, cfg.DiscordGuildID, cfg.DiscordModerationChannelID)
			notif = discordNotifier
			roles = discordNotifier
		}
	} else {
		log.Info().Msg("Discord notifier not initialized: no bot token")
	}

	authHandler := auth.NewAuthHandler(cfg, db, roles)
	eventHandler := handlers.NewEventHandler(db, cfg, store, notif)
	moderationHandler := handlers.NewModerationHandler(db, notif, authHandler)
	registrationHandler := handlers.NewRegistrationHandler(db)
	receiptHandler := handlers.NewReceiptHandler(db)
	apiKeyHandler := handlers.NewAPIKeyHandler(db, authHandler)

	r := chi.NewRouter()
	handlers.RegisterRoutes(r, cfg, authHandler, eventHandler, moderationHandler, registrationHandler, receiptHandler, apiKeyHandler)

	log.Info().Msgf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

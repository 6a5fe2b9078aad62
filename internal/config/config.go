package config

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port                       string `mapstructure:"PORT"`
	DatabasePath               string `mapstructure:"DATABASE_PATH"`
	MediaDir                   string `mapstructure:"MEDIA_DIR"`
	MediaBaseURL               string `mapstructure:"MEDIA_BASE_URL"`
	DiscordClientID            string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret        string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL         string `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordGuildID             string `mapstructure:"DISCORD_GUILD_ID"`
	DiscordBotToken            string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordModerationChannelID string `mapstructure:"DISCORD_MODERATION_CHANNEL_ID"`
	ModeratorRoleID            string `mapstructure:"MODERATOR_ROLE_ID"`
	JWTSecret                  string `mapstructure:"JWT_SECRET"`
}

func LoadConfig() *Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "athletix.db")
	viper.SetDefault("MEDIA_DIR", "media")
	viper.SetDefault("MEDIA_BASE_URL", "http://127.0.0.1:8080/media")
	viper.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")

	viper.BindEnv("DISCORD_CLIENT_ID")
	viper.BindEnv("DISCORD_CLIENT_SECRET")
	viper.BindEnv("DISCORD_GUILD_ID")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_MODERATION_CHANNEL_ID")
	viper.BindEnv("MODERATOR_ROLE_ID")
	viper.BindEnv("JWT_SECRET")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal().Err(err).Msg("Unable to decode config")
	}

	return &config
}

package notifier

import (
	"fmt"

	"github.com/athletix/events-api/internal/models"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Notifier posts event lifecycle updates to the moderation channel.
type Notifier interface {
	EventSubmitted(event models.Event) error
	EventModerated(event models.Event, moderator models.User) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	guildID   string
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, guildID, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		guildID:   guildID,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send discord message")
		return err
	}
	return nil
}

func (n *DiscordNotifier) EventSubmitted(event models.Event) error {
	fee := "free"
	if event.Fee != nil {
		fee = fmt.Sprintf("%.2f USD", *event.Fee)
	}
	message := fmt.Sprintf("📥 **New event awaiting review**\n**Event:** %s (#%d)\n**Category:** %s\n**Location:** %s\n**Dates:** %s - %s\n**Fee:** %s",
		event.Name,
		event.ID,
		event.Category,
		event.Location,
		event.StartDate,
		event.EndDate,
		fee,
	)
	return n.send(message)
}

func (n *DiscordNotifier) EventModerated(event models.Event, moderator models.User) error {
	verdict := "approved ✅"
	if event.Status == models.StatusRejected {
		verdict = "rejected ❌"
	}
	message := fmt.Sprintf("⚖️ **Moderation update**\n**Event:** %s (#%d)\n**Decision:** %s\n**Moderator:** %s (<@%s>)",
		event.Name,
		event.ID,
		verdict,
		moderator.Username,
		moderator.DiscordID,
	)
	return n.send(message)
}

// HasRole reports whether the guild member holds the given role. Implements
// auth.RoleChecker.
func (n *DiscordNotifier) HasRole(discordID, roleID string) (bool, error) {
	if n.session == nil {
		return false, fmt.Errorf("discord session is nil")
	}
	member, err := n.session.GuildMember(n.guildID, discordID)
	if err != nil {
		return false, err
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true, nil
		}
	}
	return false, nil
}

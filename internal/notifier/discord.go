package notifier

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

// messageSender is the part of a discordgo session the notifier needs
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts results to a Discord channel through a bot account
type DiscordNotifier struct {
	session   messageSender
	channelID string
}

// NewDiscordNotifier creates a notifier for the given bot token and channel.
// Messages go through the REST API, so no gateway connection is opened.
func NewDiscordNotifier(botToken, channelID string) (*DiscordNotifier, error) {
	if botToken == "" {
		return nil, errors.New("discord bot token is required")
	}
	if channelID == "" {
		return nil, errors.New("discord channel ID is required")
	}

	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	return &DiscordNotifier{session: session, channelID: channelID}, nil
}

// Notify sends one channel message per tournament
func (n *DiscordNotifier) Notify(tournaments []*tournament.Tournament) error {
	for _, t := range tournaments {
		msg, err := n.session.ChannelMessageSend(n.channelID, truncate(FormatAnnouncement(t), discordLimit))
		if err != nil {
			return fmt.Errorf("sending discord message for tournament %s: %w", t.URL, err)
		}
		logger.Info("posted discord message", logger.Fields{"tournament": t.URL, "message_id": msg.ID})
	}
	return nil
}

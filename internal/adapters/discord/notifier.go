package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
	discordpkg "eventledger/pkg/discord"
)

// MessageSender is the part of *discordgo.Session the notifier uses.
type MessageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ MessageSender = (*discordgo.Session)(nil)

var _ output.Notifier = (*Notifier)(nil)

// Notifier posts reminders as an embed in one Discord channel.
type Notifier struct {
	sender    MessageSender
	channelID string
	loc       *time.Location
}

// NewSession opens a REST-only bot session. No gateway connection is made.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return s, nil
}

func NewNotifier(sender MessageSender, channelID string, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{sender: sender, channelID: channelID, loc: loc}
}

func (n *Notifier) NotifyReminder(ctx context.Context, event *entities.Event, recipients []entities.Registration) error {
	if len(recipients) == 0 {
		return nil
	}
	_, err := n.sender.ChannelMessageSendComplex(n.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{discordpkg.BuildReminderEmbed(event, recipients, n.loc)},
	}, discordgo.WithContext(ctx))
	return discordpkg.DescribeError(err)
}

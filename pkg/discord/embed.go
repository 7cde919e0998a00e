package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventledger/internal/domain/entities"
)

const (
	embedColor = 0x5865F2
	embedTitle = "⏰ Event reminder"

	// Discord rejects embed descriptions over 4096 characters.
	maxListed = 40
)

func formatPlaces(capacity, registered int) string {
	if capacity <= 0 {
		return fmt.Sprintf("%d (unlimited)", registered)
	}
	return fmt.Sprintf("%d/%d", registered, capacity)
}

func buildDescription(event *entities.Event, recipients []entities.Registration, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("**%s**\n", event.Title))
	if event.Description != "" {
		b.WriteString(event.Description)
		b.WriteString("\n")
	}
	if when := FormatEventDateTime(event.Date, loc); when != "" {
		b.WriteString(fmt.Sprintf("\n**When:** %s", when))
	}
	if event.Location != "" {
		b.WriteString(fmt.Sprintf("\n**Where:** %s", event.Location))
	}
	b.WriteString(fmt.Sprintf("\n**Places:** %s", formatPlaces(event.Capacity, event.RegistrationCount)))

	b.WriteString(fmt.Sprintf("\n\n**Not checked in yet (%d):**\n", len(recipients)))
	b.WriteString(strings.Join(FormatRecipients(recipients), "\n"))
	return b.String()
}

// BuildReminderEmbed builds the channel message listing who has not checked
// in for the event yet.
func BuildReminderEmbed(event *entities.Event, recipients []entities.Registration, loc *time.Location) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       embedTitle,
		Description: buildDescription(event, recipients, loc),
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Event #%d", event.ID)},
	}
}

// FormatRecipients lists recipients as "- Name (department)", truncated after
// maxListed lines.
func FormatRecipients(recipients []entities.Registration) []string {
	lines := make([]string, 0, len(recipients))
	for i, r := range recipients {
		if i == maxListed {
			lines = append(lines, fmt.Sprintf("… and %d more", len(recipients)-maxListed))
			break
		}
		line := "- " + r.Name
		if r.Department != "" {
			line += " (" + r.Department + ")"
		}
		lines = append(lines, line)
	}
	return lines
}

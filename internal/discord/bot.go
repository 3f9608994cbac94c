package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/remindme/internal/assistant"
)

// Discord rejects messages longer than this.
const maxMessageLen = 2000

type Bot struct {
	session   *discordgo.Session
	assistant *assistant.Assistant
}

func NewBot(token string, a *assistant.Assistant) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}

	bot := &Bot{session: s, assistant: a}
	s.AddHandler(bot.onMessage)
	s.AddHandler(bot.onInteraction)
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages

	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("opening Discord connection: %w", err)
	}

	log.Printf("Discord bot connected as %s", s.State.User.Username)
	return bot, nil
}

// SendDM sends content to a user's direct-message channel, split to fit
// Discord's length limit.
func (b *Bot) SendDM(ctx context.Context, userID, content string) error {
	ch, err := b.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("opening DM channel for %s: %w", userID, err)
	}
	for _, chunk := range splitMessage(content, maxMessageLen) {
		if _, err := b.session.ChannelMessageSend(ch.ID, chunk, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("sending DM to %s: %w", userID, err)
		}
	}
	return nil
}

func (b *Bot) Close() {
	b.session.Close()
}

package discord

import (
	"log"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/remindme/internal/assistant"
)

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore own messages
	if m.Author.ID == s.State.User.ID {
		return
	}

	// Only respond to DMs or when mentioned
	isDM := m.GuildID == ""
	isMentioned := false
	for _, u := range m.Mentions {
		if u.ID == s.State.User.ID {
			isMentioned = true
			break
		}
	}
	if !isDM && !isMentioned {
		return
	}

	content := strings.TrimSpace(stripMention(m.Content, s.State.User.ID))
	replies := b.assistant.Handle(assistant.Turn{
		OwnerID: m.Author.ID,
		Action:  assistant.ActionText,
		Text:    content,
	})
	for _, r := range replies {
		b.sendReply(m.ChannelID, r)
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	data := i.MessageComponentData()
	turn, ok := parseCustomID(data.CustomID)
	if !ok {
		log.Printf("discord: unknown component %q", data.CustomID)
		b.ack(i)
		return
	}
	turn.OwnerID = interactionUserID(i)
	if turn.OwnerID == "" {
		b.ack(i)
		return
	}

	replies := b.assistant.Handle(turn)
	if len(replies) == 0 {
		b.ack(i)
		return
	}

	// The first reply answers the interaction, either by editing the message
	// that carried the button or with a new message. The rest follow in the
	// same channel.
	first := replies[0]
	chunks := splitMessage(first.Text, maxMessageLen)
	respType := discordgo.InteractionResponseChannelMessageWithSource
	if first.Edit {
		respType = discordgo.InteractionResponseUpdateMessage
	}
	resp := &discordgo.InteractionResponse{
		Type: respType,
		Data: &discordgo.InteractionResponseData{Content: chunks[0]},
	}
	rest := replies[1:]
	if len(chunks) == 1 {
		resp.Data.Components = components(first)
	} else {
		// Buttons go on the last chunk.
		tail := first
		tail.Text = strings.Join(chunks[1:], "")
		resp.Data.Components = []discordgo.MessageComponent{}
		rest = append([]assistant.Reply{tail}, rest...)
	}
	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		log.Printf("discord: responding to %q: %v", data.CustomID, err)
	}

	for _, r := range rest {
		b.sendReply(i.ChannelID, r)
	}
}

// ack acknowledges a component press without changing anything.
func (b *Bot) ack(i *discordgo.InteractionCreate) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Printf("discord: acknowledging interaction: %v", err)
	}
}

func (b *Bot) sendReply(channelID string, r assistant.Reply) {
	chunks := splitMessage(r.Text, maxMessageLen)
	for n, chunk := range chunks {
		msg := &discordgo.MessageSend{Content: chunk}
		if n == len(chunks)-1 {
			msg.Components = components(r)
		}
		if _, err := b.session.ChannelMessageSendComplex(channelID, msg); err != nil {
			log.Printf("discord: sending to %s: %v", channelID, err)
			return
		}
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func stripMention(s, userID string) string {
	s = strings.ReplaceAll(s, "<@"+userID+">", "")
	s = strings.ReplaceAll(s, "<@!"+userID+">", "")
	return s
}

func splitMessage(s string, maxLen int) []string {
	if len(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		end := maxLen
		if end >= len(s) {
			end = len(s)
		} else if idx := strings.LastIndex(s[:end], "\n"); idx > 0 {
			// Try to split at a newline
			end = idx + 1
		} else {
			// Never cut a multi-byte character in half.
			for end > 0 && !utf8.RuneStart(s[end]) {
				end--
			}
			if end == 0 {
				_, end = utf8.DecodeRuneInString(s)
			}
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}

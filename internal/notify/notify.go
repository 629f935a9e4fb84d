// Package notify delivers condensed game announcements to chat and mail endpoints.
package notify

import (
	"context"
	"fmt"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/videos"
)

// Message is one announcement. Text is the rendered plain-text body.
type Message struct {
	GameID  string
	Team    string
	Subject string
	Text    string
	Video   videos.Video
}

// Notifier delivers a message to one endpoint. A nil error means the endpoint confirmed delivery.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// NewMessage renders the announcement for a located video.
func NewMessage(gameID, team string, v videos.Video) Message {
	title := v.Title
	if title == "" {
		title = "Condensed Game"
	}
	return Message{
		GameID:  gameID,
		Team:    team,
		Subject: fmt.Sprintf("%s Condensed Game: %s", team, title),
		Text:    fmt.Sprintf("📽️ %s Condensed Game:\n%s\n%s", team, title, v.URL),
		Video:   v,
	}
}

package core

import (
	"fmt"
	"time"
)

// timeNow is swapped out in tests to pin message timestamps.
var timeNow = time.Now

// Message is a chat message as delivered to room members. Messages are
// ephemeral: forwarded to the room and discarded, never stored.
type Message struct {
	Username  string
	Text      string
	CreatedAt time.Time
}

// LocationMessage carries a shared map link instead of text.
type LocationMessage struct {
	Username  string
	URL       string
	CreatedAt time.Time
}

// NewMessage stamps a message with the current wall-clock time.
func NewMessage(username, text string) Message {
	return Message{
		Username:  username,
		Text:      text,
		CreatedAt: timeNow(),
	}
}

// NewLocationMessage stamps a location message with the current wall-clock time.
func NewLocationMessage(username, url string) LocationMessage {
	return LocationMessage{
		Username:  username,
		URL:       url,
		CreatedAt: timeNow(),
	}
}

// LocationURL encodes coordinates into a shareable map link.
func LocationURL(latitude, longitude float64) string {
	return fmt.Sprintf("https://google.com/maps?q=%v,%v", latitude, longitude)
}

package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned for missing or expired keys
var ErrNotFound = errors.New("not found")

// historyLimit is the number of links kept in the history
const historyLimit = 500

// Link is one generated calendar link
type Link struct {
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	EventName string    `json:"event_name"`
	Provider  string    `json:"provider"`
	At        time.Time `json:"at"`
}

type Storage interface {
	GetReply(key string) (string, error)                          // get cached completion, ErrNotFound if missing
	SetReply(key string, content string, ttl time.Duration) error // cache completion, zero ttl means forever

	AddLink(link Link) error            // add link to the history
	GetLinks(limit int) ([]Link, error) // get links from newest to oldest
}

// Package transcript keeps a short, flat history of each sender's chat.
package transcript

import (
	"context"
	"time"
)

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

type Entry struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Store appends entries per sender and trims to a fixed size.
type Store interface {
	Append(ctx context.Context, sender string, entries ...Entry) error
	Recent(ctx context.Context, sender string, n int) ([]Entry, error)
}

func tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

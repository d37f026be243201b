// Package session keeps the per-sender conversation state the router
// reads and writes. State is lightweight: the FSM mode plus the small
// context flags a menu conversation needs.
package session

import (
	"context"
	"time"
)

// Mode identifies the router's finite-state-machine step for a sender.
type Mode string

const (
	// ModeIdle indicates the sender is navigating the menu.
	ModeIdle Mode = "idle"
	// ModeAwaitingHandoff indicates the sender asked for a human and the
	// next messages are forwarded notes for the team.
	ModeAwaitingHandoff Mode = "awaiting_handoff"
)

// Session is the conversation state for one sender. The zero value is a
// fresh idle session.
type Session struct {
	Mode Mode `json:"mode"`
	// AwaitingMapReply is set right after the address option so a "sim"
	// follow-up can answer with the map link.
	AwaitingMapReply bool `json:"awaiting_map_reply,omitempty"`
	// Registered records that a CPF was captured for this sender. The flag
	// is monotonic within the session: leads never downgrade to intake.
	Registered bool      `json:"registered,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Normalize fills defaults on a zero or partially decoded session.
func (s Session) Normalize() Session {
	if s.Mode == "" {
		s.Mode = ModeIdle
	}
	return s
}

// Store persists sessions keyed by sender id. Implementations evict by
// TTL; none guarantee durability across restarts.
type Store interface {
	Get(ctx context.Context, senderID string) (Session, error)
	Put(ctx context.Context, senderID string, s Session) error
}

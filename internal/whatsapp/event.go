package whatsapp

import "time"

// Kind classifies an inbound event by message type.
type Kind string

const (
	KindText              Kind = "text"
	KindInteractiveButton Kind = "interactive_button"
	KindInteractiveList   Kind = "interactive_list"
	KindOther             Kind = "other"
)

// Event is the canonical, flattened form of one inbound message.
type Event struct {
	// MessageID is the provider-assigned id; empty when the provider omits
	// it. Redelivery repeats the same id.
	MessageID string
	// SenderID is the subscriber's wa_id.
	SenderID string
	// TargetID is the business number the event was addressed to.
	TargetID string
	Kind     Kind
	// Text is the normalized display text: trimmed body for text messages,
	// trimmed selected title for interactive replies, empty otherwise.
	Text       string
	ReceivedAt time.Time
}

// HasText reports whether the event carries routable display text.
func (e Event) HasText() bool {
	return e.Kind != KindOther
}

package whatsapp

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ParseEvents flattens a raw webhook body into zero or more canonical
// Events. It is total: malformed JSON, missing structure, and receipt-only
// values all yield zero events, never an error. When businessID is
// non-empty, messages addressed to a different phone_number_id are
// discarded so a shared webhook URL cannot leak events across tenants.
func ParseEvents(raw []byte, businessID string) []Event {
	var payload WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	var events []Event
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			value := change.Value

			// Delivery/read receipts need no reply.
			if len(value.Statuses) > 0 && len(value.Messages) == 0 {
				continue
			}

			if businessID != "" && value.Metadata != nil &&
				value.Metadata.PhoneNumberID != "" &&
				value.Metadata.PhoneNumberID != businessID {
				continue
			}

			for _, msg := range value.Messages {
				if msg.From == "" {
					continue
				}
				events = append(events, normalizeMessage(msg, value.Metadata))
			}
		}
	}
	return events
}

func normalizeMessage(msg Message, meta *Metadata) Event {
	ev := Event{
		MessageID:  msg.ID,
		SenderID:   msg.From,
		ReceivedAt: messageTime(msg.Timestamp),
	}

	if meta != nil {
		ev.TargetID = meta.DisplayPhoneNumber
		if ev.TargetID == "" {
			ev.TargetID = meta.PhoneNumberID
		}
	}

	switch msg.Type {
	case "text":
		ev.Kind = KindText
		if msg.Text != nil {
			ev.Text = strings.TrimSpace(msg.Text.Body)
		}
	case "interactive":
		ev.Kind, ev.Text = normalizeInteractive(msg.Interactive)
	default:
		ev.Kind = KindOther
	}
	return ev
}

func normalizeInteractive(in *Interactive) (Kind, string) {
	if in == nil {
		return KindOther, ""
	}
	if in.ButtonReply != nil {
		return KindInteractiveButton, strings.TrimSpace(in.ButtonReply.Title)
	}
	if in.ListReply != nil {
		return KindInteractiveList, strings.TrimSpace(in.ListReply.Title)
	}
	return KindOther, ""
}

// messageTime parses the provider's unix-seconds timestamp, falling back
// to the receive time when absent or unparseable.
func messageTime(ts string) time.Time {
	if sec, err := strconv.ParseInt(ts, 10, 64); err == nil && sec > 0 {
		return time.Unix(sec, 0)
	}
	return time.Now()
}

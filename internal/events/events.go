// Package events converts heterogeneous raw VK updates into a single
// internal event shape consumed by the conversation router.
package events

import (
	"encoding/json"
	"strings"

	"akvabot/internal/vk"
)

// Kind discriminates normalized events.
type Kind int

const (
	KindPermissionGranted Kind = iota + 1
	KindMessageReceived
	KindButtonClicked
)

func (k Kind) String() string {
	switch k {
	case KindPermissionGranted:
		return "permission_granted"
	case KindMessageReceived:
		return "message_received"
	case KindButtonClicked:
		return "button_clicked"
	}
	return "unknown"
}

// Event is the normalized update shape.
type Event struct {
	Kind    Kind
	UserID  int64
	PeerID  int64
	Text    string
	Payload json.RawMessage
	EventID string
}

type allowObject struct {
	UserID int64 `json:"user_id"`
}

type messageObject struct {
	Message struct {
		FromID  int64           `json:"from_id"`
		PeerID  int64           `json:"peer_id"`
		Text    string          `json:"text"`
		Payload json.RawMessage `json:"payload"`
	} `json:"message"`
}

type buttonObject struct {
	UserID  int64           `json:"user_id"`
	PeerID  int64           `json:"peer_id"`
	EventID string          `json:"event_id"`
	Payload json.RawMessage `json:"payload"`
}

// Normalize maps a raw update to an Event. Unrecognized update types
// return ok=false; the caller logs and moves on. Malformed objects of a
// known type also return ok=false rather than a partial event.
func Normalize(u vk.Update) (Event, bool) {
	switch u.Type {
	case "message_allow":
		var obj allowObject
		if err := json.Unmarshal(u.Object, &obj); err != nil || obj.UserID == 0 {
			return Event{}, false
		}
		return Event{Kind: KindPermissionGranted, UserID: obj.UserID, PeerID: obj.UserID}, true

	case "message_new":
		var obj messageObject
		if err := json.Unmarshal(u.Object, &obj); err != nil || obj.Message.FromID == 0 {
			return Event{}, false
		}
		return Event{
			Kind:    KindMessageReceived,
			UserID:  obj.Message.FromID,
			PeerID:  obj.Message.PeerID,
			Text:    obj.Message.Text,
			Payload: obj.Message.Payload,
		}, true

	case "message_event":
		var obj buttonObject
		if err := json.Unmarshal(u.Object, &obj); err != nil || obj.UserID == 0 {
			return Event{}, false
		}
		return Event{
			Kind:    KindButtonClicked,
			UserID:  obj.UserID,
			PeerID:  obj.PeerID,
			Payload: obj.Payload,
			EventID: obj.EventID,
		}, true
	}
	return Event{}, false
}

// CommandName extracts a stable command identifier for usage counters.
// Button payloads prefer command, then action, then type fields; parse
// failures fall back to the event id or message text deterministically.
// The result is never empty.
func (e Event) CommandName() string {
	if e.Kind == KindPermissionGranted {
		return "message_allow"
	}

	if len(e.Payload) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(e.Payload, &fields); err == nil {
			for _, key := range []string{"command", "action", "type"} {
				if v, ok := fields[key].(string); ok && v != "" {
					return v
				}
			}
		}
	}

	if e.EventID != "" {
		return e.EventID
	}
	if text := strings.TrimSpace(e.Text); text != "" {
		return strings.ToLower(text)
	}
	return e.Kind.String()
}

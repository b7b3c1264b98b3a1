package vk

import "encoding/json"

// Button colors understood by the VK message keyboard.
const (
	ColorPrimary   = "primary"
	ColorSecondary = "secondary"
	ColorPositive  = "positive"
	ColorNegative  = "negative"
)

// Keyboard is the VK interactive keyboard descriptor attached to
// messages.send calls.
type Keyboard struct {
	OneTime bool       `json:"one_time"`
	Inline  bool       `json:"inline,omitempty"`
	Buttons [][]Button `json:"buttons"`
}

type Button struct {
	Action Action `json:"action"`
	Color  string `json:"color,omitempty"`
}

type Action struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Payload string `json:"payload,omitempty"`
}

// TextButton builds a plain text button with an optional command payload.
func TextButton(label, command, color string) Button {
	b := Button{
		Action: Action{Type: "text", Label: label},
		Color:  color,
	}
	if command != "" {
		payload, err := json.Marshal(map[string]string{"command": command})
		if err == nil {
			b.Action.Payload = string(payload)
		}
	}
	return b
}

// Row groups buttons into a single keyboard row.
func Row(buttons ...Button) []Button {
	return buttons
}

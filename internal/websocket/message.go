package websocket

import "encoding/json"

// Message is a JSON control message sent to the page. HTML fragments are sent
// raw instead, so the client can tell the two apart by the leading brace.
type Message struct {
	Type    string  `json:"type"`
	Command Command `json:"command"`
}

// Command represents a command the page should carry out.
type Command struct {
	Name    string `json:"name"`
	Payload any    `json:"payload,omitempty"`
}

// Command names understood by the page script.
const (
	CmdReload      = "reload"
	CmdOpenPicker  = "open_picker"
	CmdResetPicker = "reset_picker"
)

// NewCommand encodes a command message.
func NewCommand(name string, payload ...any) []byte {
	cmd := Command{Name: name}
	if len(payload) > 0 {
		cmd.Payload = payload[0]
	}
	data, _ := json.Marshal(Message{Type: "command", Command: cmd})
	return data
}

package customizer

import "github.com/katariyakhushi/umbrella-customiser/internal/websocket"

// socketPicker drives the page's hidden file input over one websocket connection.
type socketPicker struct {
	client *websocket.Client
}

func (p *socketPicker) Open() {
	p.client.Send(websocket.NewCommand(websocket.CmdOpenPicker))
}

func (p *socketPicker) Reset() {
	p.client.Send(websocket.NewCommand(websocket.CmdResetPicker))
}

package customizer

import "github.com/katariyakhushi/umbrella-customiser/internal/pubsub"

// ViewUpdatedPayload announces that a view changed outside of a request.
type ViewUpdatedPayload struct {
	ViewID  string `json:"view_id"`
	Version uint64 `json:"version"`
}

// ViewUpdated is published when a logo read finishes or an error banner expires.
var ViewUpdated = pubsub.NewEvent[ViewUpdatedPayload]("customizer.view.updated")

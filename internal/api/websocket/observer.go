package websocket

import (
	"github.com/ramonehamilton/pokemon-catcher/internal/events"
)

// Observer forwards dispatched events to WebSocket clients.
type Observer struct {
	hub *Hub
}

var _ events.Observer = (*Observer)(nil)

// NewObserver creates an observer broadcasting through hub.
func NewObserver(hub *Hub) *Observer {
	return &Observer{hub: hub}
}

// OnEvent broadcasts the event payload.
func (o *Observer) OnEvent(event events.Event) error {
	if o.hub == nil {
		return nil
	}
	o.hub.BroadcastEvent(Event{Type: event.Type, Data: event.Data})
	return nil
}

// GetName returns the observer's name.
func (o *Observer) GetName() string {
	return "WebSocketObserver"
}

// ShouldHandle forwards every event type.
func (o *Observer) ShouldHandle(string) bool {
	return true
}

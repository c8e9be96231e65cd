package spectate

import (
	"bytes"
	"encoding/json"

	"github.com/plus3/blockfall/game"
)

// Publisher is a driver.Renderer that publishes a snapshot whenever the
// visible state changes.
type Publisher struct {
	hub  *Hub
	last []byte
}

// NewPublisher publishes to hub.
func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

// Render implements driver.Renderer.
func (p *Publisher) Render(s *game.Session) error {
	snap := s.Snapshot()

	keyed := snap
	keyed.Tick = 0
	key, err := json.Marshal(keyed)
	if err != nil {
		return err
	}
	if bytes.Equal(key, p.last) {
		return nil
	}
	p.last = key
	return p.hub.Publish(snap)
}

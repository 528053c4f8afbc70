package probe

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event describes one completed probe. It carries the key fingerprint,
// never the key.
type Event struct {
	ID          string        `json:"id"`
	Fingerprint string        `json:"fingerprint"`
	Outcome     Outcome       `json:"outcome"`
	Kind        string        `json:"kind,omitempty"`
	Detail      string        `json:"detail,omitempty"`
	Model       string        `json:"model"`
	Duration    time.Duration `json:"duration_ns"`
	CreatedAt   time.Time     `json:"created_at"`
}

func NewEvent(fingerprint string, res Result, took time.Duration) Event {
	return Event{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		Outcome:     res.Outcome,
		Kind:        res.Kind,
		Detail:      res.Detail,
		Model:       Model,
		Duration:    took,
		CreatedAt:   time.Now().UTC(),
	}
}

// Observer is notified after every probe.
type Observer interface {
	ObserveProbe(ctx context.Context, ev Event) error
}

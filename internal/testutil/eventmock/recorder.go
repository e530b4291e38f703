package eventmock

import (
	"context"
	"sync"

	"aura-lend/internal/domain/event"
)

var _ event.Emitter = (*Recorder)(nil)

// Recorder keeps emitted events in memory. Emit is safe for concurrent use;
// set EmitErr to make every Emit fail after recording.
type Recorder struct {
	mu      sync.Mutex
	Events  []event.Event
	Calls   int
	EmitErr error
}

func (r *Recorder) Emit(_ context.Context, events []event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	r.Events = append(r.Events, events...)
	return r.EmitErr
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events, r.Calls, r.EmitErr = nil, 0, nil
}

package syncclient

import (
	"context"
	"sync"

	"orgchart-backend/domain/chart"
)

// State is the lifecycle of one mutation request
type State int

const (
	StateIdle State = iota
	StateSending
	StateApplied
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateApplied:
		return "applied"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the server's answer to a mutation. Err is set when the request
// failed, either with the server's message or a TRANSPORT error.
type Result struct {
	Success           bool
	Message           string
	UpdatedCollection chart.Collection
	Err               error
}

// Pending tracks a mutation that was applied locally and is being confirmed
// by the server.
type Pending struct {
	mu     sync.Mutex
	state  State
	result Result
	done   chan struct{}
}

func newPending() *Pending {
	return &Pending{state: StateIdle, done: make(chan struct{})}
}

// State returns the current lifecycle state
func (p *Pending) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Done is closed once the request reached Applied or Failed
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the request settles or ctx is done
func (p *Pending) Wait(ctx context.Context) (Result, error) {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// settled returns a Pending that never needed the server
func settled(r Result) *Pending {
	p := newPending()
	p.settle(r)
	return p
}

func (p *Pending) sending() {
	p.mu.Lock()
	p.state = StateSending
	p.mu.Unlock()
}

func (p *Pending) settle(r Result) {
	p.mu.Lock()
	p.result = r
	if r.Success {
		p.state = StateApplied
	} else {
		p.state = StateFailed
	}
	p.mu.Unlock()
	close(p.done)
}

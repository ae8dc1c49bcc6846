package transferservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type state int

const (
	stateRequested state = iota
	stateValidated
	stateRejected
	stateApplied
	stateRecorded
)

func (s state) String() string {
	switch s {
	case stateRequested:
		return "requested"
	case stateValidated:
		return "validated"
	case stateRejected:
		return "rejected"
	case stateApplied:
		return "applied"
	case stateRecorded:
		return "recorded"
	}

	return fmt.Sprintf("state(%d)", int(s))
}

var transitions = map[state][]state{
	stateRequested: {stateValidated, stateRejected},
	stateValidated: {stateApplied, stateRejected},
	stateRejected:  {stateRecorded},
	stateApplied:   {stateRecorded},
}

// attempt tracks one transfer through its states.
type attempt struct {
	state state
	l     *zerolog.Logger
}

func newAttempt(ctx context.Context) *attempt {
	return &attempt{
		state: stateRequested,
		l:     zerolog.Ctx(ctx),
	}
}

// to moves the attempt to next and panics on a transition outside the graph.
func (a *attempt) to(next state) {
	for _, s := range transitions[a.state] {
		if s == next {
			a.l.Debug().Stringer("from", a.state).Stringer("to", next).Msg("transfer state")
			a.state = next

			return
		}
	}

	panic(fmt.Sprintf("transferservice: illegal transition %s -> %s", a.state, next))
}

/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import "fmt"

// State mengikuti model state pipeline: Null -> Ready -> Paused -> Playing.
type State int

const (
	StateNull State = iota
	StateReady
	StatePaused
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateNull:
		return "NULL"
	case StateReady:
		return "READY"
	case StatePaused:
		return "PAUSED"
	case StatePlaying:
		return "PLAYING"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type EventKind int

const (
	EventError EventKind = iota + 1
	EventEndOfStream
	EventDurationChanged
	EventStateChanged
)

func (k EventKind) String() string {
	switch k {
	case EventError:
		return "ERROR"
	case EventEndOfStream:
		return "EOS"
	case EventDurationChanged:
		return "DURATION_CHANGED"
	case EventStateChanged:
		return "STATE_CHANGED"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one message from the pipeline bus. Message is set for
// EventError, Old and New for EventStateChanged.
type Event struct {
	Kind    EventKind
	Message string
	Old     State
	New     State
}

func (e Event) String() string {
	switch e.Kind {
	case EventError:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case EventStateChanged:
		return fmt.Sprintf("%s: %s -> %s", e.Kind, e.Old, e.New)
	default:
		return e.Kind.String()
	}
}

/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package controller

import "fmt"

type State int

const (
	Init State = iota
	Idle
	Starting
	Running
	Pausing
	Stopping
	Exit
)

func (s State) String() string {
	switch s {
	case Init:
		return "Init"
	case Idle:
		return "Idle"
	case Starting:
		return "Starting"
	case Running:
		return "Running"
	case Pausing:
		return "Pausing"
	case Stopping:
		return "Stopping"
	case Exit:
		return "Exit"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// edges lists every allowed transition. Exit has none.
var edges = map[State][]State{
	Init:     {Idle},
	Idle:     {Starting},
	Starting: {Running, Idle},
	Running:  {Stopping, Pausing},
	Pausing:  {Idle},
	Stopping: {Idle, Exit},
}

func canTransition(from, to State) bool {
	for _, s := range edges[from] {
		if s == to {
			return true
		}
	}
	return false
}

/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package display prints the playback position line.
package display

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// Position redraws "Position <pos> / <duration>" whenever the whole second
// of the position changes. On a terminal the line is rewritten in place.
type Position struct {
	w          io.Writer
	tty        bool
	lastSecond int64
	open       bool
}

// NewPosition writes to w. Terminal redraw is used when w is a terminal.
func NewPosition(w io.Writer) *Position {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return newPosition(w, tty)
}

func newPosition(w io.Writer, tty bool) *Position {
	return &Position{w: w, tty: tty, lastSecond: -1}
}

func (p *Position) Update(pos time.Duration, dur time.Duration, durKnown bool) {
	sec := int64(pos / time.Second)
	if sec == p.lastSecond {
		return
	}
	p.lastSecond = sec

	total := "99:99:99.999999999"
	if durKnown {
		total = Clock(dur)
	}

	if p.tty {
		fmt.Fprintf(p.w, "\rPosition %s / %s", Clock(pos), total)
		p.open = true
		return
	}
	fmt.Fprintf(p.w, "Position %s / %s\n", Clock(pos), total)
}

// Done ends an in-place line so following output starts on a fresh line.
func (p *Position) Done() {
	if p.open {
		fmt.Fprintln(p.w)
		p.open = false
	}
	p.lastSecond = -1
}

// Clock formats d as h:mm:ss.nnnnnnnnn.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	ns := d % time.Second
	return fmt.Sprintf("%d:%02d:%02d.%09d", h, m, s, ns)
}

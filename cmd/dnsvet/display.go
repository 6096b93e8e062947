// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/siemens/dnsvet/types"
)

// tally keeps concurrency-safe running totals of the verdicts seen so far,
// for display purposes only; the authoritative verdicts are collected by the
// vetting pipeline itself.
type tally struct {
	mu      sync.Mutex
	total   int
	probing int
	alive   int
	dead    int
}

// tallyCounts is a consistent snapshot of a tally.
type tallyCounts struct {
	total   int
	probing int
	alive   int
	dead    int
}

// newTally returns a tally for the specified total number of candidates.
func newTally(total int) *tally {
	return &tally{total: total}
}

// Update the tally with another verdict from the prober's verdict stream.
func (t *tally) Update(v types.Verdict) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch v.Status {
	case types.Probing:
		t.probing++
	case types.Alive:
		t.probing--
		t.alive++
	case types.Dead:
		t.probing--
		t.dead++
	}
}

// Counts returns a consistent snapshot of the current tally.
func (t *tally) Counts() tallyCounts {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tallyCounts{
		total:   t.total,
		probing: t.probing,
		alive:   t.alive,
		dead:    t.dead,
	}
}

// renderer renders the live probing tally to the terminal.
type renderer struct {
	w       io.Writer
	spinner *spinner
}

// newRenderer returns a renderer object rendering to the specified
// io.Writer.
func newRenderer(w io.Writer) *renderer {
	sp := newSpinner()
	sp.Start(spinnerInterval)
	return &renderer{
		w:       w,
		spinner: sp,
	}
}

// Stop the renderer's background ticker.
func (r *renderer) Stop() {
	r.spinner.Stop()
}

// Render the given tally snapshot as a single status line.
func (r *renderer) Render(c tallyCounts) {
	done := c.alive + c.dead
	marker := "  "
	if done < c.total {
		marker = r.spinner.Spinner()
	}
	fmt.Fprintf(r.w, "%s%d/%d nameservers probed: %s %s %s\n",
		marker, done, c.total,
		aliveStyle.Styled(fmt.Sprintf("✔ %d alive", c.alive)),
		deadStyle.Styled(fmt.Sprintf("× %d dead", c.dead)),
		probingStyle.Styled(fmt.Sprintf("? %d probing", c.probing)))
}

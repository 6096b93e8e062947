// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package vet

import (
	"context"
	"sort"

	"github.com/siemens/dnsvet/probe"
	"github.com/siemens/dnsvet/types"
)

// All probes all of the specified candidate nameservers, running at most
// size probes concurrently, and returns the complete set of terminal
// verdicts only after every single probe has come back: one verdict per
// candidate, no drops, no duplicates. The order of the returned verdicts is
// whatever order the concurrent probes happened to finish in.
//
// The optional progress function (nil is fine) is called for every verdict
// as it streams in, terminal or not, so interactive callers can render a
// live tally. It is always called from the same goroutine All was called on.
//
// Cancelling the context abandons the not-yet-probed candidates; All then
// returns the verdicts gathered so far.
func All(ctx context.Context, candidates []types.Candidate, size int, progress func(types.Verdict), options ...probe.ProberOption) []types.Verdict {
	prober, verdicts := probe.New(size, options...)
	go func() {
		for _, cand := range candidates {
			prober.Vet(ctx, cand)
		}
		prober.StopWait()
	}()
	return Collect(ctx, verdicts, progress)
}

// Collect drains the given verdict stream until it gets closed (or the
// context cancelled) and returns the terminal verdicts seen. In-flight
// probing notices are reported to the optional progress function but never
// collected.
func Collect(ctx context.Context, verdicts <-chan types.Verdict, progress func(types.Verdict)) []types.Verdict {
	var collected []types.Verdict
	for {
		select {
		case verdict, ok := <-verdicts:
			if !ok {
				return collected
			}
			if progress != nil {
				progress(verdict)
			}
			if verdict.Status.Done() {
				collected = append(collected, verdict)
			}
		case <-ctx.Done():
			return collected
		}
	}
}

// Survivors reduces a set of verdicts to the raw input lines of the alive
// nameservers: filtered to Alive, de-duplicated, and sorted in ascending
// bytewise order. Sorting makes runs reproducible regardless of the order
// in which the concurrent probes finished, or in which the input lines were
// listed. An all-dead set of verdicts yields an empty (non-nil) slice.
func Survivors(verdicts []types.Verdict) []string {
	seen := map[string]bool{}
	lines := []string{}
	for _, verdict := range verdicts {
		if verdict.Status != types.Alive || seen[verdict.RawLine] {
			continue
		}
		seen[verdict.RawLine] = true
		lines = append(lines, verdict.RawLine)
	}
	sort.Strings(lines)
	return lines
}

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"time"

	"github.com/siemens/dnsvet/list"
	"github.com/siemens/dnsvet/probe"
	"github.com/siemens/dnsvet/types"
	"github.com/siemens/dnsvet/vet"

	"github.com/gosuri/uilive"
	log "github.com/sirupsen/logrus"
)

// VetAndSave reads the nameserver list from inpath, probes all listed
// nameservers concurrently, and writes the surviving entries, sorted and
// otherwise byte-for-byte as read, to outpath. An unreadable input list is
// fatal and outpath is then left completely untouched; a list in which
// nothing survives is not an error, it just makes for a rather short output
// file.
func VetAndSave(ctx context.Context, inpath string, outpath string) error {
	candidates, err := list.ParseFile(inpath)
	if err != nil {
		return err
	}
	log.Debugf("%d candidate nameservers in %s", len(candidates), inpath)

	var verdicts []types.Verdict
	if len(candidates) > 0 {
		verdicts = vetAll(ctx, candidates)
	}
	survivors := vet.Survivors(verdicts)
	if err := list.SaveFile(outpath, survivors); err != nil {
		return err
	}
	log.Infof("%d of %d nameservers alive, saved to %s",
		len(survivors), len(candidates), outpath)
	return nil
}

// vetAll probes the given candidates with the configured worker count,
// domain, and timeout, rendering a live tally on the terminal while the
// probes are underway (unless switched off).
func vetAll(ctx context.Context, candidates []types.Candidate) []types.Verdict {
	tally := newTally(len(candidates))
	progress := tally.Update
	renderingDone := make(chan struct{})
	trackingDone := make(chan struct{})
	if *noProgress {
		progress = nil
		close(renderingDone)
	} else {
		go func() {
			// Avoid uilive's background updating mode using Start(): it may
			// trigger anytime with the rendering into the buffer not yet
			// complete, thus making the terminal output very flickery. So we
			// instead trigger explicit flushes after complete renderings.
			term := uilive.New()
			renderer := newRenderer(term)
			defer func() {
				renderer.Render(tally.Counts())
				renderer.Stop()
				term.Flush()
				close(renderingDone)
			}()
			ticker := time.NewTicker(50 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					renderer.Render(tally.Counts())
					term.Flush()
				case <-trackingDone:
					return
				}
			}
		}()
	}
	verdicts := vet.All(ctx, candidates, int(*workerNumber), progress,
		probe.WithDomain(*domain),
		probe.WithTimeout(*timeout),
		probe.WithPort(*port))
	close(trackingDone)
	<-renderingDone
	return verdicts
}

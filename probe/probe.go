// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/siemens/dnsvet/types"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
)

// Prober checks the liveness of DNS servers by sending each one a single
// test query and then streaming the [types.Verdict] outcomes to a
// result/output channel. Probers use a goroutine-limited worker pool, so at
// most pool-size probes are ever in flight simultaneously; submitting more
// candidates only queues them up, it never drops them.
type Prober struct {
	domain  string        // name to query in test probes.
	timeout time.Duration // per-probe deadline, dial plus exchange.
	port    uint16        // DNS port of the probed servers.

	workers  *workerpool.WorkerPool // probe workers running queued probes concurrently.
	verdicts chan types.Verdict     // results/status stream channel.
	stopOnce sync.Once
}

// ProberOption can be passed to New when creating new Prober objects.
type ProberOption func(*Prober)

// New returns a new [Prober] with a maximum worker pool of the specified
// size, as well as a “verdict stream”. The verdict channel will not only
// send the final liveness verdicts, but also a probing notice for each
// candidate as it gets submitted, so interactive consumers can show what is
// currently in flight.
//
// The new prober defaults to querying for “google.com” with a per-probe
// timeout of 1s against port 53.
//
// The prober can be configured during creation using several options:
//   - [WithDomain]
//   - [WithTimeout]
//   - [WithPort]
func New(size int, options ...ProberOption) (*Prober, <-chan types.Verdict) {
	verdicts := make(chan types.Verdict, size)
	prober := &Prober{
		domain:   "google.com",
		timeout:  time.Second,
		port:     53,
		workers:  workerpool.New(size),
		verdicts: verdicts,
	}
	for _, opt := range options {
		opt(prober)
	}
	return prober, verdicts
}

// WithDomain sets the domain name queried when testing the liveness of a
// nameserver.
func WithDomain(domain string) ProberOption {
	return func(p *Prober) {
		p.domain = domain
	}
}

// WithTimeout sets the per-probe deadline; a nameserver not answering within
// this duration is considered dead.
func WithTimeout(timeout time.Duration) ProberOption {
	if timeout <= 0 {
		panic(fmt.Errorf("Prober: timeout must be positive, got: %s", timeout))
	}
	return func(p *Prober) {
		p.timeout = timeout
	}
}

// WithPort sets the (UDP) port the test queries are directed at, instead of
// the usual DNS port 53.
func WithPort(port uint16) ProberOption {
	return func(p *Prober) {
		p.port = port
	}
}

// Probe sends a single test query to the nameserver with the specified IP
// address (IPv4 or IPv6 literal) and reports nil if the server answered
// within the prober's timeout with an unbroken NOERROR response. An empty
// answer section is fine: we're vetting for “answers the phone”, not for
// “knows the number we asked for”. Exactly one query is sent, there are no
// retries and no fallback transports.
//
// Probe depends only on its arguments and the prober's read-only
// configuration, so it is safe for concurrent use.
func (p *Prober) Probe(ctx context.Context, address string) error {
	clnt := dns.Client{Timeout: p.timeout}
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(p.domain), dns.TypeA)
	// JoinHostPort brackets IPv6 literals as needed, so both address
	// families take the exact same path from here on.
	server := net.JoinHostPort(address, strconv.Itoa(int(p.port)))
	r, _, err := clnt.ExchangeContext(ctx, msg, server)
	if err != nil {
		return fmt.Errorf("probing %s: %w", server, err)
	}
	if r.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("probing %s: server answered with %s",
			server, dns.RcodeToString[r.Rcode])
	}
	return nil
}

// Vet the specified candidate nameserver by probing it. The verdict is then
// sent to the channel returned together with the newly created [Prober].
// Additionally, an initial probing notice for the candidate is also sent
// beforehand.
//
// Vet never blocks on a saturated worker pool: probes get queued and each
// queued probe eventually runs, emitting exactly one terminal verdict. A
// probe failing in whatever way (timeout, refused, broken response, weird
// rcode) becomes a Dead verdict carrying the error detail; it never aborts
// sibling probes.
//
// If the specified context gets cancelled, pending probes are skipped and
// their verdicts won't be emitted at all, not even as Dead. Spurious
// verdicts might still appear on the stream due to the uncontrollable order
// of verdict sending and context cancellation detection.
func (p *Prober) Vet(ctx context.Context, cand types.Candidate) {
	verdict := types.NewVerdict(cand).WithStatus(types.Probing, nil)
	// Allow cancelling a blocked verdict send to avoid leaking goroutines.
	select {
	case p.verdicts <- verdict: // not yet the final one ;)
	case <-ctx.Done():
		return
	}
	p.workers.Submit(func() {
		// A quick non-blocking check whether the context has been cancelled
		// while this probe sat in the queue...
		select {
		case <-ctx.Done():
			return
		default:
		}
		var final types.Verdict
		if err := p.Probe(ctx, cand.Address); err != nil {
			final = verdict.WithStatus(types.Dead, err)
		} else {
			final = verdict.WithStatus(types.Alive, nil)
		}
		// Again, allow cancelling a blocked verdict send.
		select {
		case p.verdicts <- final: // the final one this time.
		case <-ctx.Done():
		}
	})
}

// VetStream reads candidates to be probed from a channel until the channel
// is closed or the specified context gets cancelled. It does not return
// until then, so callers typically might run VetStream in a separate
// goroutine.
func (p *Prober) VetStream(ctx context.Context, ch <-chan types.Candidate) {
	for {
		select {
		case cand, ok := <-ch:
			if !ok {
				return
			}
			p.Vet(ctx, cand)
		case <-ctx.Done():
			return
		}
	}
}

// StopWait waits for all queued probes to get processed and then finally
// closes the verdict channel.
func (p *Prober) StopWait() {
	p.stopOnce.Do(func() {
		p.workers.StopWait()
		close(p.verdicts)
	})
}

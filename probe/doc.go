/*
Package probe implements a DNS nameserver liveness prober.

[Prober] objects support concurrent liveness probes with maximum goroutine
limits. Individual probe verdicts are streamed as they are decided, to a
channel returned when creating a new Prober object. Here, a [types.Verdict]
consists of the probed candidate as well as its [types.Status], notably
[types.Alive] and [types.Dead], but also [types.Probing] while in flight.

	            +---+
	Candidate-->| P +-->ch Verdict
	            +---+

⚠ Please note that a [Prober] initially emits any newly submitted candidate
before it undergoes probing (with its status set to “probing”), as well as
later the final verdict. The rationale is that especially interactive
clients can more easily manage their display so that all enqueued probes are
early visible.

A probe is exactly one UDP query for an A record, answered-with-NOERROR
counts as alive. Deliberately, responding with an empty answer section still
counts as alive: the probe tests whether the server is responsive, not
whether it resolves the particular test domain.

If needed, a Prober can read the candidates it has to probe from an input
channel until this input channel is closed.

# Acknowledgements

Under its hood, [Prober] leverages [gammazero/workerpool] as the limiting
goroutine pool, and [miekg/dns] for talking wire-format DNS.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[miekg/dns]: https://github.com/miekg/dns
*/
package probe

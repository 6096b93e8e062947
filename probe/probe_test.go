// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/siemens/dnsvet/test"
	"github.com/siemens/dnsvet/types"

	"github.com/miekg/dns"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

var _ = Describe("prober", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	Context("single probes", func() {

		It("considers a NOERROR answer alive, even an empty one", NodeTimeout(10*time.Second), func(ctx context.Context) {
			addr, port, shutdown, err := test.NewServer(test.RcodeHandler(dns.RcodeSuccess))
			Expect(err).NotTo(HaveOccurred())
			defer shutdown()

			prober, _ := New(1, WithPort(port), WithTimeout(time.Second))
			Expect(prober.Probe(ctx, addr)).To(Succeed())
			prober.StopWait()
		})

		It("considers SERVFAIL dead", NodeTimeout(10*time.Second), func(ctx context.Context) {
			addr, port, shutdown, err := test.NewServer(test.RcodeHandler(dns.RcodeServerFailure))
			Expect(err).NotTo(HaveOccurred())
			defer shutdown()

			prober, _ := New(1, WithPort(port), WithTimeout(time.Second))
			Expect(prober.Probe(ctx, addr)).To(MatchError(ContainSubstring("SERVFAIL")))
			prober.StopWait()
		})

		It("considers REFUSED dead", NodeTimeout(10*time.Second), func(ctx context.Context) {
			addr, port, shutdown, err := test.NewServer(test.RcodeHandler(dns.RcodeRefused))
			Expect(err).NotTo(HaveOccurred())
			defer shutdown()

			prober, _ := New(1, WithPort(port), WithTimeout(time.Second))
			Expect(prober.Probe(ctx, addr)).To(MatchError(ContainSubstring("REFUSED")))
			prober.StopWait()
		})

		It("considers a never-answering server dead after the timeout", NodeTimeout(10*time.Second), func(ctx context.Context) {
			addr, port, shutdown, err := test.NewBlackhole()
			Expect(err).NotTo(HaveOccurred())
			defer shutdown()

			prober, _ := New(1, WithPort(port), WithTimeout(100*time.Millisecond))
			start := time.Now()
			Expect(prober.Probe(ctx, addr)).NotTo(Succeed())
			Expect(time.Since(start)).To(BeNumerically("<", 5*time.Second))
			prober.StopWait()
		})

		It("considers a bogus address literal dead", NodeTimeout(10*time.Second), func(ctx context.Context) {
			prober, _ := New(1, WithTimeout(100*time.Millisecond))
			Expect(prober.Probe(ctx, "256.256.256.256")).NotTo(Succeed())
			prober.StopWait()
		})

	})

	Context("concurrent vetting", func() {

		It("emits exactly one terminal verdict per candidate", NodeTimeout(30*time.Second), func(ctx context.Context) {
			addr, port, shutdown, err := test.NewServer(test.RcodeHandler(dns.RcodeSuccess))
			Expect(err).NotTo(HaveOccurred())
			defer shutdown()

			const numcands = 20
			prober, verdicts := New(3, WithPort(port), WithTimeout(time.Second))
			go func() {
				for i := 0; i < numcands; i++ {
					prober.Vet(ctx, types.Candidate{
						Address: addr,
						RawLine: fmt.Sprintf("%s server-%02d", addr, i),
					})
				}
				prober.StopWait()
			}()

			terminals := map[string]int{}
			for verdict := range verdicts {
				if !verdict.Status.Done() {
					continue
				}
				terminals[verdict.RawLine]++
			}
			Expect(terminals).To(HaveLen(numcands))
			for line, count := range terminals {
				Expect(count).To(Equal(1), "candidate %q got %d verdicts", line, count)
			}
		})

		It("never exceeds the worker limit, however many candidates", NodeTimeout(30*time.Second), func(ctx context.Context) {
			const poolsize = 3
			const numcands = 24

			var mu sync.Mutex
			inflight := 0
			maxinflight := 0
			addr, port, shutdown, err := test.NewServer(dns.HandlerFunc(
				func(w dns.ResponseWriter, r *dns.Msg) {
					mu.Lock()
					inflight++
					if inflight > maxinflight {
						maxinflight = inflight
					}
					mu.Unlock()
					time.Sleep(50 * time.Millisecond)
					mu.Lock()
					inflight--
					mu.Unlock()
					m := new(dns.Msg)
					m.SetRcode(r, dns.RcodeSuccess)
					_ = w.WriteMsg(m)
				}))
			Expect(err).NotTo(HaveOccurred())
			defer shutdown()

			prober, verdicts := New(poolsize, WithPort(port), WithTimeout(time.Second))
			go func() {
				for i := 0; i < numcands; i++ {
					prober.Vet(ctx, types.Candidate{
						Address: addr,
						RawLine: fmt.Sprintf("%s server-%02d", addr, i),
					})
				}
				prober.StopWait()
			}()
			alive := 0
			for verdict := range verdicts {
				if verdict.Status == types.Alive {
					alive++
				}
			}
			Expect(alive).To(Equal(numcands))
			mu.Lock()
			defer mu.Unlock()
			Expect(maxinflight).To(BeNumerically("<=", poolsize))
		})

		It("doesn't let one dead server spoil the batch", NodeTimeout(30*time.Second), func(ctx context.Context) {
			addr, port, shutdown, err := test.NewServer(test.RcodeHandler(dns.RcodeSuccess))
			Expect(err).NotTo(HaveOccurred())
			defer shutdown()

			prober, verdicts := New(2, WithPort(port), WithTimeout(250*time.Millisecond))
			go func() {
				prober.Vet(ctx, types.Candidate{Address: addr, RawLine: addr + " fine"})
				prober.Vet(ctx, types.Candidate{Address: "256.256.256.256", RawLine: "256.256.256.256 broken"})
				prober.Vet(ctx, types.Candidate{Address: addr, RawLine: addr + " also fine"})
				prober.StopWait()
			}()
			statuses := map[string]types.Status{}
			for verdict := range verdicts {
				if verdict.Status.Done() {
					statuses[verdict.RawLine] = verdict.Status
				}
			}
			Expect(statuses).To(Equal(map[string]types.Status{
				addr + " fine":           types.Alive,
				"256.256.256.256 broken": types.Dead,
				addr + " also fine":      types.Alive,
			}))
		})

		It("handles multiple stops", func() {
			prober, _ := New(1)
			for i := 0; i < 2; i++ {
				By(fmt.Sprintf("%d round", i+1))
				done := make(chan struct{})
				go func() {
					defer GinkgoRecover()
					prober.StopWait()
					close(done)
				}()
				Eventually(done).WithTimeout(1 * time.Second).Should(BeClosed())
			}
		})

		It("abandons queued probes on cancellation", NodeTimeout(10*time.Second), func(ctx context.Context) {
			vetctx, cancel := context.WithCancel(ctx)
			cancel() // the run is already over before it begins.

			prober, verdicts := New(1, WithTimeout(10*time.Second))
			prober.Vet(vetctx, types.Candidate{Address: "127.0.0.1", RawLine: "127.0.0.1"})
			prober.Vet(vetctx, types.Candidate{Address: "127.0.0.1", RawLine: "127.0.0.1 again"})
			go prober.StopWait()
			terminals := 0
			for verdict := range verdicts {
				if verdict.Status.Done() {
					terminals++
				}
			}
			Expect(terminals).To(BeZero())
		})

	})

})

var _ = Describe("prober options", func() {

	It("rejects a non-positive timeout", func() {
		Expect(func() { WithTimeout(0) }).To(PanicWith(MatchError(ContainSubstring("timeout"))))
	})

	It("configures domain, timeout, and port", func() {
		prober, _ := New(1,
			WithDomain("example.org"),
			WithTimeout(42*time.Millisecond),
			WithPort(5353))
		Expect(prober.domain).To(Equal("example.org"))
		Expect(prober.timeout).To(Equal(42 * time.Millisecond))
		Expect(prober.port).To(Equal(uint16(5353)))
		prober.StopWait()
	})

})

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// Candidate is a single nameserver entry taken from an input list: the IP
// address (v4 or v6) extracted from the beginning of the line, plus the
// complete original line. The original line is carried along unmodified so
// that surviving entries can later be written back byte-for-byte, including
// any trailing annotations.
//
// Candidates are immutable once parsed.
type Candidate struct {
	Address string `json:"address"` // leading IP address token of the line
	RawLine string `json:"rawline"` // the verbatim input line
}

// Verdict associates a Candidate with its liveness [Status]. Verdicts travel
// over channels from the prober to consumers; they are value types and never
// mutated, instead use WithStatus to derive an updated Verdict.
type Verdict struct {
	Candidate
	Status Status `json:"status"`
	err    error  // optional error detail for dead candidates
}

// NewVerdict returns an initial (unprobed) Verdict for the given Candidate.
func NewVerdict(c Candidate) Verdict {
	return Verdict{Candidate: c}
}

// Err returns the optional error that rendered a candidate dead, or nil.
func (v Verdict) Err() error { return v.err }

// WithStatus returns a new Verdict for the same Candidate, but with the
// specified status and optional error detail.
func (v Verdict) WithStatus(s Status, err error) Verdict {
	return Verdict{
		Candidate: v.Candidate,
		Status:    s,
		err:       err,
	}
}

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Status indicates the liveness state of a nameserver candidate, such as
// unprobed, probing, et cetera.
type Status int

// The liveness states of a nameserver candidate.
const (
	Unprobed Status = iota // candidate neither in probing nor probed.
	Probing                // probe currently in flight.
	Dead                   // no (successful) answer within the timeout.
	Alive                  // answered the test query with NOERROR in time.
)

// String returns the clear-text representation of a Status value.
func (s Status) String() string {
	switch s {
	case Unprobed:
		return "unprobed"
	case Probing:
		return "probing"
	case Dead:
		return "dead"
	case Alive:
		return "alive"
	}
	return fmt.Sprintf("Status(%d)", s)
}

// Done returns true if a status is a terminal verdict, that is, either Alive
// or Dead.
func (s Status) Done() bool {
	switch s {
	case Alive, Dead:
		return true
	default:
		return false
	}
}

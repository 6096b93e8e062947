// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package list

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/siemens/dnsvet/types"

	log "github.com/sirupsen/logrus"
)

// Parse reads a nameserver list from r, emitting one [types.Candidate] per
// usable line. Lines are processed in a single pass, in input order:
//
//   - empty (or all-whitespace) lines are skipped;
//   - lines whose first non-whitespace character is '#' are comments and
//     skipped;
//   - otherwise the leading whitespace-delimited token becomes the
//     candidate's address and the complete, unmodified line its raw line.
//
// The address token is not validated against IP literal syntax here; a
// candidate with a bogus address simply won't answer any probe and thus ends
// up dead. Only tokens that cannot possibly be an IP address, lacking both
// '.' and ':', are skipped with a warning.
func Parse(r io.Reader) ([]types.Candidate, error) {
	var candidates []types.Candidate
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		address := strings.Fields(trimmed)[0]
		if !strings.ContainsAny(address, ".:") {
			log.Warnf("line %d: %q doesn't look like an IP address, skipping", lineno, address)
			continue
		}
		candidates = append(candidates, types.Candidate{
			Address: address,
			RawLine: line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read nameserver list: %w", err)
	}
	return candidates, nil
}

// ParseFile reads the nameserver list from the file with the specified path.
func ParseFile(path string) ([]types.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read nameserver list: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Save writes the given (raw) nameserver lines to w, one line per entry,
// without any decoration. An empty set of lines results in empty output,
// which is perfectly fine.
func Save(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("cannot write nameserver list: %w", err)
		}
	}
	return nil
}

// SaveFile writes the given (raw) nameserver lines to the file with the
// specified path, creating or truncating it as necessary.
func SaveFile(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot write nameserver list: %w", err)
	}
	if err := Save(f, lines); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot write nameserver list: %w", err)
	}
	return nil
}

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	log "github.com/sirupsen/logrus"
)

var (
	domain       *string
	timeout      *time.Duration
	workerNumber *uint
	port         *uint16
	noProgress   *bool
	debug        *bool
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:     "dnsvet [flags] inputfile outputfile",
		Short:   "dnsvet removes dead nameservers from a server list by test-querying each one",
		Version: "1.0",
		Args:    cobra.ExactArgs(2),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if *workerNumber < 1 || *workerNumber > 100 {
				return fmt.Errorf("--workers out of range [1..100]")
			}
			if *timeout < 10*time.Millisecond {
				return fmt.Errorf("--timeout must be at least 10ms")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			return VetAndSave(context.Background(), args[0], args[1])
		},
	}
	// Sets up the flags.
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	domain = rootCmd.PersistentFlags().StringP(
		"domain", "d", "google.com", "domain to query when testing a nameserver")
	timeout = rootCmd.PersistentFlags().DurationP(
		"timeout", "t", time.Second, "timeout for each test query")
	workerNumber = rootCmd.PersistentFlags().UintP(
		"workers", "w", 10, "number of parallel probe workers")
	port = rootCmd.PersistentFlags().Uint16P(
		"port", "p", 53, "port the listed nameservers serve on")
	noProgress = rootCmd.PersistentFlags().Bool(
		"no-progress", false, "don't render live progress on the terminal")
	return
}

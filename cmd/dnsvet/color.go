// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	probingStyle = termenv.Style{}.Foreground(termenv.ANSIYellow)
	aliveStyle   = termenv.Style{}.Foreground(termenv.ANSIGreen)
	deadStyle    = termenv.Style{}.Foreground(termenv.ANSIRed)
)

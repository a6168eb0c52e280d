// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cobb

import (
	"fmt"
	"io"
	"os"
)

// LogLevel controls the frequency and type of logger output
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print only the final report
	LogLast LogLevel = 0
	// LogEval print also every improvement of the objective
	LogEval LogLevel = 1
	// LogVerbose print every evaluated bundle
	LogVerbose LogLevel = 101
)

// Logger handles logging output for the solvers.
// Note the writers must be thread-safe.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
	Out   io.Writer // Writer for output data.
}

// Quiet returns a logger that generates no output.
func Quiet() *Logger {
	return &Logger{Level: LogNoop, Msg: io.Discard, Out: io.Discard}
}

// Normalize fills the missing writers and replaces nil with a quiet logger.
func (l *Logger) Normalize() *Logger {
	if l == nil {
		return Quiet()
	}
	c := *l
	if c.Msg == nil {
		c.Msg = os.Stderr
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	return &c
}

// Enable reports whether output at the given level is produced.
func (l *Logger) Enable(level LogLevel) bool {
	return l.Level >= level
}

// Log writes a diagnostic message.
func (l *Logger) Log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}

// Print writes result data.
func (l *Logger) Print(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Out, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Out, format)
	}
}

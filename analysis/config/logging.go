// Copyright The tacanalyzer Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"io"
	"log"
	"os"

	"golang.org/x/term"
)

// LogLevel is the verbosity of a LogGroup.
type LogLevel int

const (
	// ErrLevel=1 - the minimum level of logging.
	ErrLevel LogLevel = iota + 1

	// WarnLevel=2 - the level for logging warnings, and errors
	WarnLevel

	// InfoLevel=3 - the level for logging high-level information, results
	InfoLevel

	// DebugLevel=4 - the level for debugging information. The analyses run
	// properly on large programs with that level of information.
	DebugLevel

	// TraceLevel=5 - the level for tracing fixed-point iterations. The
	// analyses will not run properly on large programs with that level of
	// information, but this is useful on smaller testing programs.
	TraceLevel
)

// LogGroup holds a logger per level. Loggers write to stderr by default;
// prefixes are colored when stderr is a terminal.
type LogGroup struct {
	level LogLevel
	trace *log.Logger
	debug *log.Logger
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
}

func prefix(tag, color string) string {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return "\033[" + color + "m" + tag + "\033[0m "
	}
	return tag + " "
}

// NewLogGroup returns a log group that is configured to the logging settings
// stored inside the config.
func NewLogGroup(config *Config) *LogGroup {
	return &LogGroup{
		level: LogLevel(config.LogLevel),
		trace: log.New(os.Stderr, prefix("[TRACE]", "35"), 0),
		debug: log.New(os.Stderr, prefix("[DEBUG]", "36"), 0),
		info:  log.New(os.Stderr, prefix("[INFO] ", "32"), 0),
		warn:  log.New(os.Stderr, prefix("[WARN] ", "33"), 0),
		err:   log.New(os.Stderr, prefix("[ERROR]", "31"), 0),
	}
}

// NewDiscardLogGroup returns a log group that drops everything. Analyses use
// it when the caller does not supply a logger.
func NewDiscardLogGroup() *LogGroup {
	g := NewLogGroup(&Config{LogLevel: int(ErrLevel)})
	g.SetAllOutput(io.Discard)
	return g
}

// SetAllOutput sets all the output writers to the writer provided
func (l *LogGroup) SetAllOutput(w io.Writer) {
	l.trace.SetOutput(w)
	l.debug.SetOutput(w)
	l.info.SetOutput(w)
	l.warn.SetOutput(w)
	l.err.SetOutput(w)
}

// SetAllFlags sets the flag of all loggers in the log group to the argument provided
func (l *LogGroup) SetAllFlags(x int) {
	l.trace.SetFlags(x)
	l.debug.SetFlags(x)
	l.info.SetFlags(x)
	l.warn.SetFlags(x)
	l.err.SetFlags(x)
}

// Tracef calls Printf on the trace logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Tracef(format string, v ...any) {
	if l.level >= TraceLevel {
		l.trace.Printf(format, v...)
	}
}

// Debugf calls Printf on the debug logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Debugf(format string, v ...any) {
	if l.level >= DebugLevel {
		l.debug.Printf(format, v...)
	}
}

// Infof calls Printf on the info logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Infof(format string, v ...any) {
	if l.level >= InfoLevel {
		l.info.Printf(format, v...)
	}
}

// Warnf calls Printf on the warning logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Warnf(format string, v ...any) {
	if l.level >= WarnLevel {
		l.warn.Printf(format, v...)
	}
}

// Errorf calls Printf on the error logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Errorf(format string, v ...any) {
	if l.level >= ErrLevel {
		l.err.Printf(format, v...)
	}
}

// Package errors provides diagnostic formatting for the QL pipeline: it
// renders a Diagnostic's source position with a source line and a caret,
// mirroring the source-context error presentation compilers in this style
// give their users.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-dws/pkg/token"
)

// Severity classifies a Diagnostic. Only Error severities fail a
// compilation (spec.md §7); Warning and Hint are informational.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "hint"
	default:
		return "error"
	}
}

// Diagnostic is the common shape of every parser and semantic diagnostic
// (spec.md §6: "each pass accepts a handle that records (ErrorKind,
// SourceLocation, human-readable message)").
type Diagnostic struct {
	Kind     string
	Message  string
	Pos      token.Position
	Severity Severity
}

func (d Diagnostic) Error() string { return d.Message }

// Sink collects diagnostics across a pass or a whole pipeline run. It is
// passed by pointer into every stage, per spec.md §6.
type Sink struct {
	Source string
	File   string
	Diags  []Diagnostic
}

// NewSink creates a Sink over the given source text (used to print source
// lines alongside diagnostics) and an optional file name.
func NewSink(source, file string) *Sink {
	return &Sink{Source: source, File: file}
}

// Add records a diagnostic.
func (s *Sink) Add(kind, message string, pos token.Position) {
	s.Diags = append(s.Diags, Diagnostic{Kind: kind, Message: message, Pos: pos, Severity: SeverityError})
}

// AddWarning records a non-fatal diagnostic.
func (s *Sink) AddWarning(kind, message string, pos token.Position) {
	s.Diags = append(s.Diags, Diagnostic{Kind: kind, Message: message, Pos: pos, Severity: SeverityWarning})
}

// HasErrors reports whether any error-severity diagnostic was recorded.
// The driver consults this after every pass (spec.md §7 propagation
// policy) and skips remaining passes when it is true.
func (s *Sink) HasErrors() bool {
	for _, d := range s.Diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Format renders every diagnostic in the sink with source context.
func (s *Sink) Format(color bool) string {
	if len(s.Diags) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, d := range s.Diags {
		sb.WriteString(formatOne(d, s.Source, s.File, color))
		if i < len(s.Diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func formatOne(d Diagnostic, source, file string, color bool) string {
	var sb strings.Builder

	if file != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d: %s\n", strings.ToUpper(d.Severity.String()[:1])+d.Severity.String()[1:], file, d.Pos.Line, d.Pos.Column, d.Kind))
	} else {
		sb.WriteString(fmt.Sprintf("%s at %d:%d: %s\n", strings.ToUpper(d.Severity.String()[:1])+d.Severity.String()[1:], d.Pos.Line, d.Pos.Column, d.Kind))
	}

	if line := sourceLine(source, d.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+max(d.Pos.Column-1, 0)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Package errors renders semantic.SemanticError diagnostics with source
// context, a line/column header, and a caret pointing at the offending
// column, mirroring go-dws's CompilerError.Format.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/hulklang/hulkcore/internal/semantic"
)

// CompilerError pairs a *semantic.SemanticError with the source text it
// was reported against, so it can render a caret under the exact column.
type CompilerError struct {
	Err    *semantic.SemanticError
	Source string
	File   string
}

// NewCompilerError wraps err with the source it was checked from.
func NewCompilerError(err *semantic.SemanticError, source, file string) *CompilerError {
	return &CompilerError{Err: err, Source: source, File: file}
}

// Error implements the error interface with color disabled.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

var (
	boldStage  = color.New(color.Bold)
	redCaret   = color.New(color.FgRed, color.Bold)
	dimContext = color.New(color.Faint)
)

// Format renders the error: a "Stage: Kind in file:line:col" header
// ("Stage: Kind at line:col" when no file name is set), the
// offending source line, and a caret under the reported column. When
// color is true, the stage/kind and caret are styled via fatih/color;
// otherwise Format produces plain text suitable for piping or snapshotting.
func (e *CompilerError) Format(useColor bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s: %s", e.Err.Stage, e.Err.Kind)
	if useColor {
		header = boldStage.Sprint(header)
	}
	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%s\n", header, e.File, e.Err.Pos.String()))
	} else {
		sb.WriteString(fmt.Sprintf("%s at %s\n", header, e.Err.Pos.String()))
	}

	if line := e.sourceLine(e.Err.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Err.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Err.Pos.Column-1))
		if useColor {
			sb.WriteString(redCaret.Sprint("^"))
		} else {
			sb.WriteString("^")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(e.Err.Message)
	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders a batch of semantic errors produced by one
// semantic.Check run, prefixed with a count summary when there is more
// than one (spec.md §7: "the driver prints each error with a one-line
// description prefixed by the stage name").
func FormatAll(errs []*semantic.SemanticError, source, file string, useColor bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return NewCompilerError(errs[0], source, file).Format(useColor)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("check failed with %d error(s):\n\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("[%d/%d] ", i+1, len(errs)))
		sb.WriteString(NewCompilerError(err, source, file).Format(useColor))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter formats Diagnostics as multi-line text against the source
// file they were raised for. The CLI and the LSP server format
// diagnostics themselves and do not use it.
type Reporter struct {
	filename string
	source   string
	lines    []string
}

func NewReporter(filename, source string) *Reporter {
	return &Reporter{filename: filename, source: source, lines: strings.Split(source, "\n")}
}

// Format renders a diagnostic as a multi-line, Rust-style message:
// first line is the error kind and code, then the location (when the
// position names a file), the offending node's id, the source line at
// that position, the diagnostic's own source text, and finally the
// call-stack-like chain of enclosing scope openers. Each of the later
// lines is omitted when its field is empty.
func (r *Reporter) Format(d *Diagnostic) string {
	var b strings.Builder

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	levelColor := r.levelColor(d)

	b.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(d.Kind.String()), d.Code, d.Message))

	if d.Pos.Filename != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", dim("-->"), d.Pos))
	}
	if d.NodeID != 0 {
		b.WriteString(fmt.Sprintf("  %s node #%d\n", dim("id:"), d.NodeID))
	}

	if d.Pos.Line > 0 && d.Pos.Line <= len(r.lines) {
		b.WriteString(fmt.Sprintf("  %s %s\n", dim("│"), r.lines[d.Pos.Line-1]))
	}
	if d.SourceText != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", bold("source:"), d.SourceText))
	}

	if len(d.ScopeChain) > 0 {
		b.WriteString(fmt.Sprintf("  %s\n", dim("enclosing scopes:")))
		for depth, opener := range d.ScopeChain {
			b.WriteString(fmt.Sprintf("    %s%s\n", strings.Repeat("  ", depth), opener))
		}
	}

	return b.String()
}

func (r *Reporter) levelColor(d *Diagnostic) func(a ...any) string {
	if d.Severity == SeverityWarning {
		return color.New(color.FgYellow).SprintFunc()
	}
	return color.New(color.FgRed).SprintFunc()
}

package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/trebuchet-org/trebcfg/internal/domain"
)

var (
	labelStyle   = color.New(color.Bold)
	nameStyle    = color.New(color.FgCyan, color.Bold)
	faintStyle   = color.New(color.Faint)
	okStyle      = color.New(color.FgGreen)
	failStyle    = color.New(color.FgRed)
	warnStyle    = color.New(color.FgYellow)
	kindStyle    = color.New(color.FgRed, color.Bold)
	addressStyle = color.New(color.FgWhite)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error for the terminal. Configuration errors lead
// with their kind and the offending network or compiler; joined errors are
// printed one per line.
func FormatError(err error) string {
	cfgErrs := collectConfigErrors(err)
	if len(cfgErrs) == 0 {
		msg := err.Error()
		if len(msg) > 0 {
			msg = strings.ToUpper(msg[:1]) + msg[1:]
		}
		return failStyle.Sprintf("❌ %s", msg)
	}

	lines := make([]string, 0, len(cfgErrs))
	for _, e := range cfgErrs {
		lines = append(lines, formatConfigError(e))
	}
	return strings.Join(lines, "\n")
}

func formatConfigError(e *domain.ConfigurationError) string {
	var b strings.Builder
	b.WriteString(failStyle.Sprint("❌ "))
	b.WriteString(kindStyle.Sprint(e.Kind))
	if e.Network != "" {
		fmt.Fprintf(&b, " network %s", nameStyle.Sprint(e.Network))
	}
	if e.Profile != "" {
		fmt.Fprintf(&b, " compiler %s", nameStyle.Sprint(e.Profile))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(faintStyle.Sprintf(" (%v)", e.Err))
	}
	if len(e.Suggestions) > 0 {
		b.WriteString("\n   did you mean: ")
		b.WriteString(strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

// collectConfigErrors returns the outermost configuration errors in an error tree
func collectConfigErrors(err error) []*domain.ConfigurationError {
	if err == nil {
		return nil
	}
	if e, ok := err.(*domain.ConfigurationError); ok {
		return []*domain.ConfigurationError{e}
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		var out []*domain.ConfigurationError
		for _, inner := range u.Unwrap() {
			out = append(out, collectConfigErrors(inner)...)
		}
		return out
	case interface{ Unwrap() error }:
		return collectConfigErrors(u.Unwrap())
	}
	return nil
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return okStyle.Sprintf("✅ %s", message)
}

// newTable returns a borderless, left-aligned table writer
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	t.Style().Format.Header = text.FormatDefault
	return t
}

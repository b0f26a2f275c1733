// Package observability renders reports as boxed, human-readable summaries for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/compsherpa/compsherpa/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the text report format
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func dollars(d types.Dollars) string {
	return "$" + humanize.Comma(int64(d))
}

// PrintSalaryRange outputs the headline salary band.
func (p *Printer) PrintSalaryRange(sr *types.SalaryRange, source string) {
	if sr == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Range:   %s - %s\n", dollars(sr.Min), dollars(sr.Max)))
	sb.WriteString(fmt.Sprintf("Median:  %s\n", dollars(sr.Median)))
	if sr.Confidence != "" {
		sb.WriteString(fmt.Sprintf("Confidence: %s\n", sr.Confidence))
	}
	if source != "" {
		sb.WriteString(fmt.Sprintf("Source:  %s\n", source))
	}

	p.printBox("SALARY RANGE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintList outputs up to maxItemsToShow items under title.
func (p *Printer) PrintList(title string, items []string) {
	if len(items) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoleComparisons outputs the role table shown to exploring users.
func (p *Printer) PrintRoleComparisons(roles []types.RoleComparison) {
	if len(roles) == 0 {
		return
	}

	var sb strings.Builder
	for _, rc := range roles {
		marker := " "
		if rc.Recommended {
			marker = "★"
		}
		sb.WriteString(fmt.Sprintf("%s %-30s %s - %s\n", marker, rc.Role, dollars(rc.Min), dollars(rc.Max)))
	}

	p.printBox("ROLE COMPARISONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComparablePositions outputs the market comparison positions.
func (p *Printer) PrintComparablePositions(positions []types.ComparablePosition) {
	if len(positions) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(positions), maxItemsToShow)
	for i := 0; i < count; i++ {
		pos := positions[i]
		sb.WriteString(fmt.Sprintf("%s, %s\n", pos.Position, pos.Employer))
		sb.WriteString(fmt.Sprintf("    %s  (%s match)\n", pos.SalaryRange, pos.RelevanceScore))
	}

	p.printBox("COMPARABLE POSITIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs every populated section of r.
func (p *Printer) PrintReport(r *types.Report, source string) {
	if r == nil {
		return
	}

	p.PrintSalaryRange(r.SalaryRange, source)
	if r.MarketAnalysis != "" {
		p.printBox("MARKET ANALYSIS", wrap(r.MarketAnalysis, boxWidth-4))
	}
	p.PrintRoleComparisons(r.RoleComparisons)
	p.PrintList("NEGOTIATION TIPS", r.NegotiationTips)
	p.PrintList("LEVERAGE POINTS", r.LeveragePoints)
	if r.KeyStrengths != "" {
		p.printBox("KEY STRENGTHS", wrap(r.KeyStrengths, boxWidth-4))
	}
	p.PrintComparablePositions(r.ComparablePositions)
	p.PrintList("BEYOND SALARY", r.BeyondSalary)
}

// wrap breaks text into lines of at most width runes at word boundaries.
func wrap(text string, width int) string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(word)) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

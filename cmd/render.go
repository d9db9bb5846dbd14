package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/frahmantamala/performance-tracker/internal/classify"
	"github.com/frahmantamala/performance-tracker/internal/employee"
)

var (
	highRisk   = color.New(color.FgRed, color.Bold).SprintFunc()
	mediumRisk = color.New(color.FgYellow).SprintFunc()
	lowRisk    = color.New(color.FgGreen).SprintFunc()
	heading    = color.New(color.Bold, color.Underline).SprintFunc()
	dim        = color.New(color.Faint).SprintFunc()
)

func riskBadge(level classify.RiskLevel) string {
	switch level {
	case classify.High:
		return highRisk(level.Label())
	case classify.Medium:
		return mediumRisk(level.Label())
	default:
		return lowRisk(level.Label())
	}
}

func gradeBadge(score *float64) string {
	if score == nil {
		return dim(classify.DisplayGrade(nil))
	}
	text := fmt.Sprintf("%s (%.1f)", classify.GradeOf(*score), *score)
	switch classify.PerformanceBand(*score) {
	case classify.BandGood:
		return lowRisk(text)
	case classify.BandFair:
		return mediumRisk(text)
	default:
		return highRisk(text)
	}
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func renderEmployees(out io.Writer, emps []employee.Employee) {
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNAME\tDEPARTMENT\tPERFORMANCE\tATTRITION\tRISK\tACTIVE")
	for _, e := range emps {
		active := "yes"
		if !e.IsActive {
			active = dim("no")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.0f%%\t%s\t%s\n",
			e.ID, e.Name, e.Department,
			gradeBadge(e.PerformanceScore),
			e.AttritionProbability*100,
			riskBadge(classify.RiskLevelOf(e.AttritionProbability)),
			active)
	}
	_ = tw.Flush()
}

// bar draws count as a run of blocks scaled against max.
func bar(count, max, width int) string {
	if max <= 0 || count <= 0 {
		return ""
	}
	n := count * width / max
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// Package query narrows, focuses and pages employee collections the way the
// employee list view does.
package query

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/classify"
	"github.com/frahmantamala/performance-tracker/internal/core/employee"
)

// Filter is the base stage. Zero values leave a criterion unconstrained.
type Filter struct {
	Search     string
	Department string
	Active     *bool
}

func (f Filter) Matches(e employee.Employee) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Name), needle) &&
			!strings.Contains(strings.ToLower(e.Email), needle) {
			return false
		}
	}
	if f.Department != "" && e.Department != f.Department {
		return false
	}
	if f.Active != nil && e.IsActive != *f.Active {
		return false
	}
	return true
}

type Preset string

const (
	PresetNone          Preset = ""
	PresetHighRisk      Preset = "high_risk"
	PresetTopPerformers Preset = "top_performers"
)

const topPerformerScore = 80

func ParsePreset(s string) (Preset, error) {
	switch p := Preset(strings.TrimSpace(s)); p {
	case PresetNone, PresetHighRisk, PresetTopPerformers:
		return p, nil
	}
	return PresetNone, internal.NewValidationFieldError("preset",
		fmt.Sprintf("unknown preset %q", s), internal.ErrCodeInvalidPreset)
}

func (p Preset) Matches(e employee.Employee) bool {
	switch p {
	case PresetHighRisk:
		return classify.RiskLevelOf(e.AttritionProbability) == classify.High
	case PresetTopPerformers:
		return e.PerformanceScore != nil && *e.PerformanceScore >= topPerformerScore
	}
	return true
}

// Page addresses a zero-based window of Size rows.
type Page struct {
	Index int
	Size  int
}

// Paginate copies the requested window. Out of range or non-positive sizes
// give an empty slice.
func Paginate[T any](items []T, p Page) []T {
	if p.Size <= 0 || p.Index < 0 {
		return []T{}
	}
	start := p.Index * p.Size
	if start >= len(items) {
		return []T{}
	}
	end := min(start+p.Size, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// PageCount is the number of pages needed to show total rows.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Apply runs the filter then the preset, preserving input order.
func Apply(emps []employee.Employee, f Filter, p Preset) []employee.Employee {
	out := make([]employee.Employee, 0, len(emps))
	for _, e := range emps {
		if f.Matches(e) && p.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

type Spec struct {
	Filter Filter
	Preset Preset
	Page   Page
}

type Result struct {
	Items []employee.Employee
	Total int
	Pages int
	Page  Page
}

func Run(emps []employee.Employee, spec Spec) Result {
	matched := Apply(emps, spec.Filter, spec.Preset)
	return Result{
		Items: Paginate(matched, spec.Page),
		Total: len(matched),
		Pages: PageCount(len(matched), spec.Page.Size),
		Page:  spec.Page,
	}
}

// Package classify maps raw model outputs and review scores onto the
// discrete labels shown across the dashboard.
package classify

import "fmt"

type RiskLevel int

const (
	Low RiskLevel = iota
	Medium
	High
)

const (
	highRiskAbove   = 0.6
	mediumRiskAbove = 0.3
	attritionAbove  = 0.5
)

// RiskLevelOf buckets an attrition probability. Each boundary belongs to the
// lower bucket. Values outside [0,1] are not rejected.
func RiskLevelOf(p float64) RiskLevel {
	switch {
	case p > highRiskAbove:
		return High
	case p > mediumRiskAbove:
		return Medium
	default:
		return Low
	}
}

func (r RiskLevel) String() string {
	switch r {
	case High:
		return "High"
	case Medium:
		return "Medium"
	case Low:
		return "Low"
	}
	return fmt.Sprintf("RiskLevel(%d)", int(r))
}

// Label is the badge text.
func (r RiskLevel) Label() string {
	return r.String() + " Risk"
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RiskLevel) UnmarshalText(b []byte) error {
	switch string(b) {
	case "High":
		*r = High
	case "Medium":
		*r = Medium
	case "Low":
		*r = Low
	default:
		return fmt.Errorf("unknown risk level %q", b)
	}
	return nil
}

type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
)

// GradeOf letters a performance score on the 0-100 scale.
func GradeOf(score float64) Grade {
	switch {
	case score >= 90:
		return GradeAPlus
	case score >= 80:
		return GradeA
	case score >= 70:
		return GradeB
	case score >= 60:
		return GradeC
	default:
		return GradeD
	}
}

// GradeOfPtr reports false for an absent score instead of grading it.
func GradeOfPtr(score *float64) (Grade, bool) {
	if score == nil {
		return "", false
	}
	return GradeOf(*score), true
}

func DisplayGrade(score *float64) string {
	g, ok := GradeOfPtr(score)
	if !ok {
		return "N/A"
	}
	return string(g)
}

type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

func PerformanceBand(score float64) Band {
	switch {
	case score >= 80:
		return BandGood
	case score >= 60:
		return BandFair
	default:
		return BandPoor
	}
}

// AttritionLabel is the binary model verdict stored on the employee row.
func AttritionLabel(p float64) string {
	if p > attritionAbove {
		return "Y"
	}
	return "N"
}

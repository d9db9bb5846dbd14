// Package analytics reduces employee collections to the figures the
// dashboard and the stats endpoint report.
package analytics

import (
	"math"

	"github.com/frahmantamala/performance-tracker/internal/classify"
	"github.com/frahmantamala/performance-tracker/internal/core/employee"
)

type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

func (r RiskCounts) Total() int {
	return r.High + r.Medium + r.Low
}

type Averages struct {
	Performance  float64 `json:"performance"`
	Satisfaction float64 `json:"satisfaction"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// Snapshot is the headline view of a collection.
type Snapshot struct {
	TotalEmployees         int               `json:"total_employees"`
	AttritionRisk          RiskCounts        `json:"attrition_risk"`
	Averages               Averages          `json:"averages"`
	DepartmentDistribution []DepartmentCount `json:"department_distribution"`
}

// Rounded returns a copy with averages at two decimals.
func (s Snapshot) Rounded() Snapshot {
	s.Averages.Performance = round2(s.Averages.Performance)
	s.Averages.Satisfaction = round2(s.Averages.Satisfaction)
	return s
}

// Summarize never fails; an empty input gives an all-zero snapshot.
func Summarize(emps []employee.Employee) Snapshot {
	snap := Snapshot{
		TotalEmployees:         len(emps),
		DepartmentDistribution: []DepartmentCount{},
	}

	var perf, sat mean
	for _, e := range emps {
		switch classify.RiskLevelOf(e.AttritionProbability) {
		case classify.High:
			snap.AttritionRisk.High++
		case classify.Medium:
			snap.AttritionRisk.Medium++
		default:
			snap.AttritionRisk.Low++
		}
		perf.addPtr(e.PerformanceScore, 1)
		sat.addPtr(e.SatisfactionLevel, 1)
	}
	snap.Averages = Averages{Performance: perf.value(), Satisfaction: sat.value()}

	for _, g := range groupByDepartment(emps) {
		snap.DepartmentDistribution = append(snap.DepartmentDistribution, DepartmentCount{
			Department: g.name,
			Count:      len(g.members),
		})
	}
	return snap
}

// DepartmentMetric holds per department means; ratios are scaled to 0-100.
type DepartmentMetric struct {
	Department   string  `json:"department"`
	Performance  float64 `json:"performance"`
	Satisfaction float64 `json:"satisfaction"`
	Evaluation   float64 `json:"evaluation"`
	Employees    int     `json:"employees"`
}

func DepartmentMetrics(emps []employee.Employee) []DepartmentMetric {
	groups := groupByDepartment(emps)
	out := make([]DepartmentMetric, 0, len(groups))
	for _, g := range groups {
		var perf, sat, eval mean
		for _, e := range g.members {
			perf.addPtr(e.PerformanceScore, 1)
			sat.addPtr(e.SatisfactionLevel, 100)
			eval.addPtr(e.LastEvaluationScore, 100)
		}
		out = append(out, DepartmentMetric{
			Department:   g.name,
			Performance:  perf.value(),
			Satisfaction: sat.value(),
			Evaluation:   eval.value(),
			Employees:    len(g.members),
		})
	}
	return out
}

type DepartmentSalary struct {
	Department    string  `json:"department"`
	AverageSalary float64 `json:"average_salary"`
}

func SalaryByDepartment(emps []employee.Employee) []DepartmentSalary {
	groups := groupByDepartment(emps)
	out := make([]DepartmentSalary, 0, len(groups))
	for _, g := range groups {
		out = append(out, DepartmentSalary{Department: g.name, AverageSalary: AverageSalary(g.members)})
	}
	return out
}

func AverageSalary(emps []employee.Employee) float64 {
	var m mean
	for _, e := range emps {
		m.add(e.Salary)
	}
	return m.value()
}

type DepartmentRisk struct {
	Department string `json:"department"`
	RiskCounts
}

func RiskByDepartment(emps []employee.Employee) []DepartmentRisk {
	groups := groupByDepartment(emps)
	out := make([]DepartmentRisk, 0, len(groups))
	for _, g := range groups {
		snap := Summarize(g.members)
		out = append(out, DepartmentRisk{Department: g.name, RiskCounts: snap.AttritionRisk})
	}
	return out
}

type Bin struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

var binLabels = [...]string{"0-20", "20-40", "40-60", "60-80", "80-100"}

// PerformanceDistribution bins present scores in fifths of the 0-100 scale.
// The last bin is closed so a perfect score lands in 80-100.
func PerformanceDistribution(emps []employee.Employee) []Bin {
	bins := make([]Bin, len(binLabels))
	for i, l := range binLabels {
		bins[i].Range = l
	}
	for _, e := range emps {
		if e.PerformanceScore == nil {
			continue
		}
		idx := int(math.Floor(*e.PerformanceScore / 20))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(bins) {
			idx = len(bins) - 1
		}
		bins[idx].Count++
	}
	return bins
}

type Point struct {
	EmployeeID  int64   `json:"employee_id"`
	Name        string  `json:"name"`
	Experience  int     `json:"experience"`
	Performance float64 `json:"performance"`
}

func PerformanceVsExperience(emps []employee.Employee) []Point {
	out := make([]Point, 0, len(emps))
	for _, e := range emps {
		if e.PerformanceScore == nil {
			continue
		}
		out = append(out, Point{
			EmployeeID:  e.ID,
			Name:        e.Name,
			Experience:  e.Experience,
			Performance: *e.PerformanceScore,
		})
	}
	return out
}

// ByDepartment narrows to one department; "" and "all" keep everything.
func ByDepartment(emps []employee.Employee, dept string) []employee.Employee {
	if dept == "" || dept == "all" {
		return emps
	}
	out := make([]employee.Employee, 0, len(emps))
	for _, e := range emps {
		if e.Department == dept {
			out = append(out, e)
		}
	}
	return out
}

type group struct {
	name    string
	members []employee.Employee
}

// groupByDepartment keeps departments in order of first appearance.
func groupByDepartment(emps []employee.Employee) []group {
	index := make(map[string]int)
	var groups []group
	for _, e := range emps {
		i, ok := index[e.Department]
		if !ok {
			i = len(groups)
			index[e.Department] = i
			groups = append(groups, group{name: e.Department})
		}
		groups[i].members = append(groups[i].members, e)
	}
	return groups
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m *mean) addPtr(v *float64, scale float64) {
	if v != nil {
		m.add(*v * scale)
	}
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

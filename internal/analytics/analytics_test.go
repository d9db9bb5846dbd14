package analytics

import (
	"math"
	"testing"

	"github.com/frahmantamala/performance-tracker/internal/core/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAnalytics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Analytics Suite")
}

func f(v float64) *float64 { return &v }

func emp(id int64, dept string, p float64, perf, sat *float64) employee.Employee {
	return employee.Employee{
		ID:                   id,
		Name:                 "emp",
		Department:           dept,
		Salary:               50000,
		AttritionProbability: p,
		PerformanceScore:     perf,
		SatisfactionLevel:    sat,
	}
}

var _ = Describe("Summarize", func() {
	Context("when the collection is empty", func() {
		It("returns an all-zero snapshot", func() {
			snap := Summarize(nil)

			Expect(snap.TotalEmployees).To(BeZero())
			Expect(snap.AttritionRisk).To(Equal(RiskCounts{}))
			Expect(snap.Averages.Performance).To(BeZero())
			Expect(snap.Averages.Satisfaction).To(BeZero())
			Expect(math.IsNaN(snap.Averages.Performance)).To(BeFalse())
			Expect(snap.DepartmentDistribution).To(BeEmpty())
			Expect(snap.DepartmentDistribution).NotTo(BeNil())
		})
	})

	Context("with a mixed collection", func() {
		var emps []employee.Employee

		BeforeEach(func() {
			// Given
			emps = []employee.Employee{
				emp(1, "IT", 0.8, f(85), f(0.7)),
				emp(2, "Sales", 0.45, nil, f(0.5)),
				emp(3, "IT", 0.1, f(60), nil),
			}
		})

		It("partitions risk and averages present values only", func() {
			// When
			snap := Summarize(emps)

			// Then
			Expect(snap.TotalEmployees).To(Equal(3))
			Expect(snap.AttritionRisk).To(Equal(RiskCounts{High: 1, Medium: 1, Low: 1}))
			Expect(snap.Averages.Performance).To(BeNumerically("~", 72.5, 1e-9))
			Expect(snap.Averages.Satisfaction).To(BeNumerically("~", 0.6, 1e-9))
			Expect(snap.DepartmentDistribution).To(Equal([]DepartmentCount{
				{Department: "IT", Count: 2},
				{Department: "Sales", Count: 1},
			}))
		})

		It("keeps risk counts summing to the total", func() {
			snap := Summarize(emps)
			Expect(snap.AttritionRisk.Total()).To(Equal(snap.TotalEmployees))
		})

		It("does not mutate its input", func() {
			before := append([]employee.Employee(nil), emps...)
			Summarize(emps)
			Expect(emps).To(Equal(before))
		})
	})

	It("counts a zero probability as low risk", func() {
		snap := Summarize([]employee.Employee{emp(1, "HR", 0, nil, nil)})
		Expect(snap.AttritionRisk.Low).To(Equal(1))
		Expect(snap.Averages.Performance).To(BeZero())
	})

	It("rounds averages to two decimals on request", func() {
		snap := Summarize([]employee.Employee{
			emp(1, "HR", 0, f(70), nil),
			emp(2, "HR", 0, f(71), nil),
			emp(3, "HR", 0, f(71), nil),
		}).Rounded()
		Expect(snap.Averages.Performance).To(Equal(70.67))
	})
})

var _ = Describe("DepartmentMetrics", func() {
	It("scales ratios and excludes absent fields independently", func() {
		e1 := emp(1, "IT", 0, f(80), f(0.5))
		e1.LastEvaluationScore = f(0.9)
		e2 := emp(2, "IT", 0, nil, f(0.7))

		metrics := DepartmentMetrics([]employee.Employee{e1, e2})

		Expect(metrics).To(HaveLen(1))
		Expect(metrics[0].Department).To(Equal("IT"))
		Expect(metrics[0].Performance).To(BeNumerically("~", 80, 1e-9))
		Expect(metrics[0].Satisfaction).To(BeNumerically("~", 60, 1e-9))
		Expect(metrics[0].Evaluation).To(BeNumerically("~", 90, 1e-9))
		Expect(metrics[0].Employees).To(Equal(2))
	})

	It("reports zero for a field with no samples", func() {
		metrics := DepartmentMetrics([]employee.Employee{emp(1, "HR", 0, nil, nil)})
		Expect(metrics[0].Performance).To(BeZero())
		Expect(metrics[0].Evaluation).To(BeZero())
	})
})

var _ = Describe("salary and distribution helpers", func() {
	It("averages salary per department", func() {
		a := emp(1, "IT", 0, nil, nil)
		a.Salary = 100
		b := emp(2, "IT", 0, nil, nil)
		b.Salary = 200
		c := emp(3, "HR", 0, nil, nil)
		c.Salary = 50

		out := SalaryByDepartment([]employee.Employee{a, b, c})
		Expect(out).To(Equal([]DepartmentSalary{
			{Department: "IT", AverageSalary: 150},
			{Department: "HR", AverageSalary: 50},
		}))
		Expect(AverageSalary(nil)).To(BeZero())
	})

	It("bins scores with 100 in the last bin", func() {
		bins := PerformanceDistribution([]employee.Employee{
			emp(1, "IT", 0, f(0), nil),
			emp(2, "IT", 0, f(19.9), nil),
			emp(3, "IT", 0, f(20), nil),
			emp(4, "IT", 0, f(100), nil),
			emp(5, "IT", 0, nil, nil),
		})
		Expect(bins).To(HaveLen(5))
		Expect(bins[0]).To(Equal(Bin{Range: "0-20", Count: 2}))
		Expect(bins[1].Count).To(Equal(1))
		Expect(bins[4].Count).To(Equal(1))
	})

	It("splits risk per department", func() {
		out := RiskByDepartment([]employee.Employee{
			emp(1, "IT", 0.9, nil, nil),
			emp(2, "Sales", 0.5, nil, nil),
			emp(3, "IT", 0.2, nil, nil),
		})
		Expect(out).To(HaveLen(2))
		Expect(out[0].Department).To(Equal("IT"))
		Expect(out[0].RiskCounts).To(Equal(RiskCounts{High: 1, Low: 1}))
		Expect(out[1].Medium).To(Equal(1))
	})

	It("plots only scored employees", func() {
		pts := PerformanceVsExperience([]employee.Employee{
			emp(1, "IT", 0, f(75), nil),
			emp(2, "IT", 0, nil, nil),
		})
		Expect(pts).To(HaveLen(1))
		Expect(pts[0].EmployeeID).To(Equal(int64(1)))
	})

	It("narrows by department", func() {
		emps := []employee.Employee{emp(1, "IT", 0, nil, nil), emp(2, "HR", 0, nil, nil)}
		Expect(ByDepartment(emps, "all")).To(HaveLen(2))
		Expect(ByDepartment(emps, "")).To(HaveLen(2))
		Expect(ByDepartment(emps, "HR")).To(ConsistOf(emps[1]))
	})
})

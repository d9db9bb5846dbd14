package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/performance-tracker/internal/analytics"
	"github.com/frahmantamala/performance-tracker/internal/classify"
	"github.com/frahmantamala/performance-tracker/internal/employee"
	"github.com/frahmantamala/performance-tracker/internal/query"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type analyticsReport struct {
	Server      analytics.Snapshot
	Local       analytics.Snapshot
	Departments []analytics.DepartmentMetric
	Risk        []analytics.DepartmentRisk
	Salaries    []analytics.DepartmentSalary
	Bins        []analytics.Bin
}

// loadAnalytics fetches the server snapshot and the employee directory concurrently,
// then computes the per-department figures for active employees locally.
func (d *dashboard) loadAnalytics(ctx context.Context, department string) (analyticsReport, error) {
	if err := d.requireAdmin(); err != nil {
		return analyticsReport{}, err
	}

	var (
		report analyticsReport
		emps   []employee.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := d.api.Employees.Stats(gctx)
		report.Server = snap
		return err
	})
	g.Go(func() error {
		all, err := d.api.Employees.All(gctx, employee.ListParams{Limit: employee.MaxLimit})
		emps = all
		return err
	})
	if err := g.Wait(); err != nil {
		return analyticsReport{}, err
	}

	active := true
	scoped := analytics.ByDepartment(query.Apply(emps, query.Filter{Active: &active}, query.PresetNone), department)

	report.Local = analytics.Summarize(scoped).Rounded()
	report.Departments = analytics.DepartmentMetrics(scoped)
	report.Risk = analytics.RiskByDepartment(scoped)
	report.Salaries = analytics.SalaryByDepartment(scoped)
	report.Bins = analytics.PerformanceDistribution(scoped)
	return report, nil
}

func (d *dashboard) renderAnalytics(r analyticsReport, department string) {
	out := d.out
	scope := "all departments"
	if department != "" && department != "all" {
		scope = department
	}

	fmt.Fprintln(out, heading("Company overview"))
	fmt.Fprintf(out, "Active employees:  %d\n", r.Server.TotalEmployees)
	fmt.Fprintf(out, "Avg performance:   %.2f\n", r.Server.Averages.Performance)
	fmt.Fprintf(out, "Avg satisfaction:  %.2f\n", r.Server.Averages.Satisfaction)
	fmt.Fprintf(out, "Attrition risk:    %s %d  %s %d  %s %d\n\n",
		riskBadge(classify.High), r.Server.AttritionRisk.High,
		riskBadge(classify.Medium), r.Server.AttritionRisk.Medium,
		riskBadge(classify.Low), r.Server.AttritionRisk.Low)

	fmt.Fprintln(out, heading("Departments ("+scope+")"))
	tw := newTable(out)
	fmt.Fprintln(tw, "DEPARTMENT\tEMPLOYEES\tPERFORMANCE\tSATISFACTION\tEVALUATION\tHIGH\tMEDIUM\tLOW")
	risk := make(map[string]analytics.RiskCounts, len(r.Risk))
	for _, dr := range r.Risk {
		risk[dr.Department] = dr.RiskCounts
	}
	for _, m := range r.Departments {
		rc := risk[m.Department]
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%s\t%s\t%s\n",
			m.Department, m.Employees, m.Performance, m.Satisfaction, m.Evaluation,
			highRisk(rc.High), mediumRisk(rc.Medium), lowRisk(rc.Low))
	}
	_ = tw.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, heading("Average salary"))
	tw = newTable(out)
	for _, s := range r.Salaries {
		fmt.Fprintf(tw, "%s\t%.0f\n", s.Department, s.AverageSalary)
	}
	_ = tw.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, heading("Performance distribution"))
	peak := 0
	for _, b := range r.Bins {
		peak = max(peak, b.Count)
	}
	tw = newTable(out)
	for _, b := range r.Bins {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", b.Range, b.Count, bar(b.Count, peak, 30))
	}
	_ = tw.Flush()
}

var analyticsDepartment string

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Dashboard statistics (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDashboard(cmd)
		if err != nil {
			return err
		}
		report, err := d.loadAnalytics(cmd.Context(), analyticsDepartment)
		if err != nil {
			return err
		}
		d.renderAnalytics(report, analyticsDepartment)
		return nil
	},
}

func init() {
	analyticsCmd.Flags().StringVar(&analyticsDepartment, "department", "all", "limit the department tables to one department")
	rootCmd.AddCommand(analyticsCmd)
}

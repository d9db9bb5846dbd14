package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/performance-tracker/internal/employee"
	"github.com/frahmantamala/performance-tracker/internal/query"
	"github.com/spf13/cobra"
)

type employeesOptions struct {
	Search     string
	Department string
	Active     *bool
	Preset     string
	Page       int
	Size       int
}

// listEmployees loads the whole directory once and filters locally, the way the
// dashboard list does, so presets and page counts agree with the analytics view.
func (d *dashboard) listEmployees(ctx context.Context, opts employeesOptions) (query.Result, error) {
	if _, err := d.requireLogin(); err != nil {
		return query.Result{}, err
	}

	preset, err := query.ParsePreset(opts.Preset)
	if err != nil {
		return query.Result{}, err
	}

	emps, err := d.api.Employees.All(ctx, employee.ListParams{Limit: employee.MaxLimit})
	if err != nil {
		return query.Result{}, err
	}

	if opts.Department == "all" {
		opts.Department = ""
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	res := query.Run(emps, query.Spec{
		Filter: query.Filter{Search: opts.Search, Department: opts.Department, Active: opts.Active},
		Preset: preset,
		Page:   query.Page{Index: page - 1, Size: d.pageSize(opts.Size)},
	})

	renderEmployees(d.out, res.Items)
	if res.Total == 0 {
		fmt.Fprintln(d.out, dim("no employees match"))
		return res, nil
	}
	fmt.Fprintf(d.out, "\npage %d of %d, %d matching employees\n", page, max(res.Pages, 1), res.Total)
	return res, nil
}

var (
	employeesFlags  employeesOptions
	employeesActive bool
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "List employees with search, filters and presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDashboard(cmd)
		if err != nil {
			return err
		}

		opts := employeesFlags
		if cmd.Flags().Changed("active") {
			opts.Active = &employeesActive
		}
		_, err = d.listEmployees(cmd.Context(), opts)
		return err
	},
}

func init() {
	f := employeesCmd.Flags()
	f.StringVar(&employeesFlags.Search, "search", "", "case-insensitive match on name or email")
	f.StringVar(&employeesFlags.Department, "department", "", "only this department (all for every department)")
	f.BoolVar(&employeesActive, "active", true, "only active (true) or inactive (false) employees")
	f.StringVar(&employeesFlags.Preset, "preset", "", "high_risk or top_performers")
	f.IntVar(&employeesFlags.Page, "page", 1, "page number, starting at 1")
	f.IntVar(&employeesFlags.Size, "size", 0, "rows per page (defaults to client.page_size)")

	rootCmd.AddCommand(employeesCmd)
}

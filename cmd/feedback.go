package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/frahmantamala/performance-tracker/internal/feedback"
	"github.com/spf13/cobra"
)

func (d *dashboard) addFeedback(ctx context.Context, employeeID int64, rating float64, comments string) (feedback.Feedback, error) {
	if err := d.requireAdmin(); err != nil {
		return feedback.Feedback{}, err
	}
	fb, err := d.api.Feedback.Create(ctx, employeeID, rating, comments)
	if err != nil {
		return feedback.Feedback{}, err
	}
	fmt.Fprintf(d.out, "Recorded feedback #%d for employee #%d (rating %.1f)\n", fb.ID, fb.EmployeeID, fb.Rating)
	return fb, nil
}

// listFeedback defaults to the caller's own employee record when no id is given.
func (d *dashboard) listFeedback(ctx context.Context, employeeID int64) ([]feedback.Feedback, error) {
	if _, err := d.requireLogin(); err != nil {
		return nil, err
	}
	if employeeID == 0 {
		own, ok := d.session.EmployeeID()
		if !ok {
			return nil, fmt.Errorf("this account has no employee record, pass an employee id")
		}
		employeeID = own
	}

	entries, err := d.api.Feedback.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		fmt.Fprintln(d.out, dim("no feedback yet"))
		return entries, nil
	}

	tw := newTable(d.out)
	fmt.Fprintln(tw, "DATE\tRATING\tCOMMENTS")
	for _, fb := range entries {
		fmt.Fprintf(tw, "%s\t%.1f\t%s\n", fb.FeedbackDate.Local().Format("2006-01-02"), fb.Rating, fb.Comments)
	}
	_ = tw.Flush()
	return entries, nil
}

var (
	feedbackEmployee int64
	feedbackRating   float64
	feedbackComments string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record or read performance feedback",
}

var feedbackAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record feedback for an employee (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDashboard(cmd)
		if err != nil {
			return err
		}
		_, err = d.addFeedback(cmd.Context(), feedbackEmployee, feedbackRating, feedbackComments)
		return err
	},
}

var feedbackListCmd = &cobra.Command{
	Use:   "list [employee-id]",
	Short: "Show feedback, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if len(args) == 1 {
			parsed, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || parsed <= 0 {
				return fmt.Errorf("invalid employee id %q", args[0])
			}
			id = parsed
		}

		d, err := openDashboard(cmd)
		if err != nil {
			return err
		}
		_, err = d.listFeedback(cmd.Context(), id)
		return err
	},
}

func init() {
	f := feedbackAddCmd.Flags()
	f.Int64Var(&feedbackEmployee, "employee", 0, "employee id")
	f.Float64Var(&feedbackRating, "rating", 0, "rating from 0 to 5 in half steps")
	f.StringVar(&feedbackComments, "comments", "", "review comments")
	_ = feedbackAddCmd.MarkFlagRequired("employee")
	_ = feedbackAddCmd.MarkFlagRequired("rating")

	feedbackCmd.AddCommand(feedbackAddCmd, feedbackListCmd)
	rootCmd.AddCommand(feedbackCmd)
}

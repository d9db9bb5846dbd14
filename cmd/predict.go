package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/frahmantamala/performance-tracker/internal/prediction"
	"github.com/spf13/cobra"
)

func (d *dashboard) predictOne(ctx context.Context, employeeID int64) (prediction.Response, error) {
	if _, err := d.requireLogin(); err != nil {
		return prediction.Response{}, err
	}
	resp, err := d.api.Predictions.PredictOne(ctx, employeeID)
	if err != nil {
		return prediction.Response{}, err
	}

	fmt.Fprintf(d.out, "Employee #%d\n", resp.EmployeeID)
	fmt.Fprintf(d.out, "  attrition:    %.1f%% (%s)\n", resp.AttritionProbability*100, riskBadge(resp.RiskLevel))
	fmt.Fprintf(d.out, "  will leave:   %s\n", resp.AttritionPrediction)
	fmt.Fprintf(d.out, "  performance:  %s\n", gradeBadge(&resp.PerformancePrediction))
	return resp, nil
}

func (d *dashboard) predictAll(ctx context.Context) (prediction.BatchResponse, error) {
	if err := d.requireAdmin(); err != nil {
		return prediction.BatchResponse{}, err
	}
	resp, err := d.api.Predictions.PredictBatch(ctx)
	if err != nil {
		return prediction.BatchResponse{}, err
	}
	fmt.Fprintln(d.out, resp.Message)
	return resp, nil
}

var predictAllFlag bool

var predictCmd = &cobra.Command{
	Use:   "predict [employee-id]",
	Short: "Refresh attrition and performance predictions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if predictAllFlag == (len(args) == 1) {
			return errors.New("pass either an employee id or --all")
		}

		d, err := openDashboard(cmd)
		if err != nil {
			return err
		}
		if predictAllFlag {
			_, err = d.predictAll(cmd.Context())
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid employee id %q", args[0])
		}
		_, err = d.predictOne(cmd.Context(), id)
		return err
	},
}

func init() {
	predictCmd.Flags().BoolVar(&predictAllFlag, "all", false, "score every active employee (admin)")
	rootCmd.AddCommand(predictCmd)
}

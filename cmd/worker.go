package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/performance-tracker/internal/core/events"
	"github.com/frahmantamala/performance-tracker/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run background jobs",
	Long:  `Run background jobs that share the server's worker pool, such as refreshing attrition predictions.`,
}

var predictWorkerCmd = &cobra.Command{
	Use:   "predict",
	Short: "Refresh predictions for every active employee",
	Long:  `Score every active employee through the prediction worker pool and store the results, then exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPredictionWorker()
	},
}

var (
	maxWorkers     int
	jobQueueSize   int
	workerPoolSize int
	modelURL       string
	modelAPIKey    string
)

func runPredictionWorker() error {
	config, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	config.Prediction.ServiceURL = getStringFlag(modelURL, config.Prediction.ServiceURL)
	config.Prediction.APIKey = getStringFlag(modelAPIKey, config.Prediction.APIKey)
	config.Prediction.MaxWorkers = getIntFlag(maxWorkers, config.Prediction.MaxWorkers)
	config.Prediction.JobQueueSize = getIntFlag(jobQueueSize, config.Prediction.JobQueueSize)
	config.Prediction.WorkerPoolSize = getIntFlag(workerPoolSize, config.Prediction.WorkerPoolSize)

	db, err := initDB(config.Database)
	if err != nil {
		return err
	}
	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return err
	}

	lg := logger.LoggerWrapper().With("component", "prediction_worker")
	deps := &Dependencies{Config: config, DB: db, Gorm: gormDB, Bus: events.NewEventBus(lg), Logger: lg}
	deps.wireServices()
	defer deps.Close()

	deps.Logger.Info("starting prediction worker",
		"max_workers", config.Prediction.MaxWorkers,
		"job_queue_size", config.Prediction.JobQueueSize,
		"worker_pool_size", config.Prediction.WorkerPoolSize,
		"model_url", config.Prediction.ServiceURL)

	// Ctrl+C cancels the batch; jobs already running finish before the pool stops.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resp, err := deps.PredictionService.PredictBatch(ctx)
	if err != nil {
		return fmt.Errorf("batch prediction failed: %w", err)
	}

	fmt.Fprintln(os.Stdout, resp.Message)
	return nil
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	predictWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	predictWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	predictWorkerCmd.Flags().IntVar(&workerPoolSize, "worker-pool-size", 0, "Worker pool channel size (overrides config)")
	predictWorkerCmd.Flags().StringVar(&modelURL, "model-url", "", "Prediction model service URL (overrides config)")
	predictWorkerCmd.Flags().StringVar(&modelAPIKey, "api-key", "", "Prediction model API key (overrides config)")

	workerCmd.AddCommand(predictWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}

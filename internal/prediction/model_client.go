package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/performance-tracker/internal"
	predictiontypes "github.com/frahmantamala/performance-tracker/internal/core/datamodel/prediction"
)

// Model scores one employee's features.
type Model interface {
	Predict(ctx context.Context, features predictiontypes.Features) (predictiontypes.Output, error)
}

type ModelConfig struct {
	ServiceURL string
	APIKey     string
	Timeout    time.Duration
}

// ModelClient calls the external model service over HTTP.
type ModelClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewModelClient(config ModelConfig, logger *slog.Logger) *ModelClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ModelClient{
		baseURL:    strings.TrimRight(config.ServiceURL, "/"),
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

var _ Model = (*ModelClient)(nil)

func (c *ModelClient) Predict(ctx context.Context, features predictiontypes.Features) (predictiontypes.Output, error) {
	if err := features.Validate(); err != nil {
		return predictiontypes.Output{}, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	body, err := json.Marshal(features)
	if err != nil {
		return predictiontypes.Output{}, fmt.Errorf("failed to marshal features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return predictiontypes.Output{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return predictiontypes.Output{}, internal.ErrPredictionFailed.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("model service returned an error",
			"status_code", resp.StatusCode,
			"body", string(snippet))
		return predictiontypes.Output{}, internal.ErrPredictionFailed.WithCause(
			fmt.Errorf("model service returned status %d", resp.StatusCode))
	}

	var out predictiontypes.Output
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return predictiontypes.Output{}, internal.ErrPredictionFailed.WithCause(fmt.Errorf("failed to decode response: %w", err))
	}
	if err := out.Validate(); err != nil {
		return predictiontypes.Output{}, internal.ErrPredictionFailed.WithCause(err)
	}

	return out.Clamped(), nil
}

// PingContext checks that the model service answers its health endpoint.
func (c *ModelClient) PingContext(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model service health returned status %d", resp.StatusCode)
	}
	return nil
}

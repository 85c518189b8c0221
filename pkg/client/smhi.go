package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const DefaultWarningsURL = "https://opendata-download-warnings.smhi.se/ibww/api/version/1/warning.json"

// SMHIClient fetches the raw IBWW warning document. The endpoint takes no
// parameters, pagination or auth; the body is a JSON array of events.
type SMHIClient struct {
	*BaseClient
	warningsURL string
}

func NewSMHIClient(warningsURL string, config ClientConfig, logger *zap.Logger) *SMHIClient {
	if warningsURL == "" {
		warningsURL = DefaultWarningsURL
	}
	return &SMHIClient{
		BaseClient:  NewBaseClient("SMHI", config, logger),
		warningsURL: warningsURL,
	}
}

// FetchWarnings returns the undecoded response body.
func (c *SMHIClient) FetchWarnings(ctx context.Context) ([]byte, error) {
	data, err := c.GetWithRetry(ctx, c.warningsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch warnings: %w", err)
	}
	return data, nil
}

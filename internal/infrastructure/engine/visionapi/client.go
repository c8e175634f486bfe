package visionapi

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/Shashank2985/Cannon/internal/core/domain"
	"github.com/Shashank2985/Cannon/internal/infrastructure/resilience"
)

// Client talks to the face analysis service. One Analyze call covers
// the whole model pipeline; partial results never leave the service.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

type analyzeRequest struct {
	Model  string        `json:"model"`
	Images analyzeImages `json:"images"`
}

type analyzeImages struct {
	Front string `json:"front"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

type analyzeResponse struct {
	Analysis *domain.ScanAnalysis `json:"analysis"`
}

func (c *Client) Analyze(ctx context.Context, front, left, right []byte) (*domain.ScanAnalysis, error) {
	request := analyzeRequest{
		Model: c.model,
		Images: analyzeImages{
			Front: base64.StdEncoding.EncodeToString(front),
			Left:  base64.StdEncoding.EncodeToString(left),
			Right: base64.StdEncoding.EncodeToString(right),
		},
	}

	var response analyzeResponse
	err := c.executor.Execute(ctx, "engine.analyze", func(ctx context.Context) error {
		return c.postJSON(ctx, "/v1/analyze", request, &response, "analyze")
	}, classifyEngineError)
	if err != nil {
		return nil, wrapEngineError("analyze", err)
	}
	if response.Analysis == nil {
		return nil, domain.WrapError(domain.ErrEngine, "analyze", errEmptyResult)
	}
	return response.Analysis, nil
}

package textgen

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/insight"
)

const (
	apiVersion        = "v1beta"
	defaultRetryCount = 2
	defaultRetryDelay = 300 * time.Millisecond
)

// GeminiClient generates text with the Gemini API.
type GeminiClient struct {
	models     *genai.Models
	model      string
	retryCount int
	retryDelay time.Duration
	logger     core.Logger
}

var _ insight.Generator = (*GeminiClient)(nil)

func NewGeminiClient(conf *core.Config, logger core.Logger) (*GeminiClient, error) {
	opts := genai.HTTPOptions{APIVersion: apiVersion}
	if conf.Gemini.BaseURL != "" {
		opts.BaseURL = strings.TrimRight(conf.Gemini.BaseURL, "/") + "/"
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      conf.Gemini.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: conf.Gemini.Timeout},
		HTTPOptions: opts,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating gemini client")
	}

	return &GeminiClient{
		models:     client.Models,
		model:      conf.Gemini.Model,
		retryCount: defaultRetryCount,
		retryDelay: defaultRetryDelay,
		logger:     logger,
	}, nil
}

// NewGenerator returns a Gemini client when an API key is configured, insight.Disabled otherwise.
func NewGenerator(conf *core.Config, logger core.Logger) insight.Generator {
	if conf.Gemini.APIKey == "" {
		return insight.Disabled{}
	}
	c, err := NewGeminiClient(conf, logger)
	if err != nil {
		logger.Error("text generation disabled", err)
		return insight.Disabled{}
	}
	return c
}

func (c *GeminiClient) Summarize(ctx context.Context, facts insight.InstituteFacts) (string, error) {
	return c.Generate(ctx, insight.SummaryPrompt(facts))
}

func (c *GeminiClient) Feedback(ctx context.Context, req insight.FeedbackRequest) (string, error) {
	return c.Generate(ctx, insight.FeedbackPrompt(req))
}

// Generate sends prompt to the model and returns the text of the first candidate.
// An answer without candidates (eg. a blocked prompt) yields empty text.
// Server errors and rate limits are retried; client errors are not.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for i := 0; i <= c.retryCount; i++ {
		if i > 0 {
			c.logger.Warn("retrying text generation", map[string]interface{}{"attempt": i, "error": lastErr.Error()})
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(i)):
			}
		}

		resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
		if err == nil {
			if resp == nil {
				return "", nil
			}
			return resp.Text(), nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			break
		}
	}
	return "", errors.Wrap(lastErr, "generating content")
}

// retryable reports whether err is a rate limit, a server error or a transport failure.
func retryable(ctx context.Context, err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retryableCode(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return retryableCode(apiErrPtr.Code)
	}
	return ctx.Err() == nil
}

func retryableCode(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

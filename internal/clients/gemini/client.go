package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

type Model string

const (
	//Model15Flash is fastest multimodal model with great performance for diverse, repetitive tasks
	Model15Flash Model = "gemini-1.5-flash"
	//Model15Pro is next-generation model with a breakthrough 2 million context window
	Model15Pro Model = "gemini-1.5-pro"
)

const retryDelay = 2 * time.Second

type Client struct {
	client            *genai.Client
	model             *genai.GenerativeModel
	maxAttempts       int
	minuteRateLimiter *rate.Limiter
	dayRateLimiter    *rate.Limiter
}

// NewClient creates a client answering in JSON with zero temperature.
func NewClient(ctx context.Context, apiKey string, model Model) (*Client, error) {

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	genModel := client.GenerativeModel(string(model))
	genModel.SetTemperature(0)
	genModel.ResponseMIMEType = "application/json"

	service := Client{
		client:      client,
		model:       genModel,
		maxAttempts: 1,
	}

	return &service, nil
}

func (c *Client) SetMaxRetries(retries int) {
	c.maxAttempts = retries + 1
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	if maxRequestsPerMinute > 0 {
		c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
	}
}

func (c *Client) SetDayRateLimit(maxRequestsPerDay float32) {
	if maxRequestsPerDay > 0 {
		c.dayRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerDay/86400), int(maxRequestsPerDay))
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) GenerateResponse(ctx context.Context, text string) (string, error) {

	var resp string
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(c.maxAttempts, retryDelay, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warnf("gemini api returned server error, retrying (attempt %d)...", i+1)
		}
		resp, err = c.waitAndGenerateResponse(ctx, text)
		return err, isServerError(err) && ctx.Err() == nil
	})

	return resp, err
}

func (c *Client) waitAndGenerateResponse(ctx context.Context, text string) (string, error) {

	limiters := []*rate.Limiter{c.minuteRateLimiter, c.dayRateLimiter}
	for _, limiter := range limiters {
		if limiter != nil {
			err := limiter.Wait(ctx)
			if err != nil {
				return "", err
			}
		}
	}

	return c.tryGenerateResponse(ctx, text)
}

func (c *Client) tryGenerateResponse(ctx context.Context, text string) (string, error) {

	response, err := c.model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", err
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil ||
		len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("response has no content")
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		textPart, ok := part.(genai.Text)
		if !ok {
			return "", fmt.Errorf("response part is not text")
		}
		sb.WriteString(string(textPart))
	}
	return sb.String(), nil
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Error 500") || strings.Contains(msg, "Error 503")
}

// Package ratings provides a client for the player ratings service.
package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/models"
)

const circuitBreakerMax = 5

// Rating is a single player or team rating as served by the ratings service
type Rating struct {
	Name      string    `json:"name"`
	Sport     string    `json:"sport"`
	Elo       float64   `json:"elo"`
	Rank      int       `json:"rank"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client fetches player ratings over HTTP with retries and rate limiting
type Client struct {
	baseURL           string
	apiKey            string
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	consecutiveErrors int
	isOpen            bool
	lastError         error
	logger            *logrus.Logger
}

// NewClient creates a new ratings client from configuration
func NewClient(cfg *config.RatingsConfig, logger *logrus.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout()
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.CheckRetry = retryPolicy()
	retryClient.Logger = nil

	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 5
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// GetRating fetches the current rating of a single player or team
func (c *Client) GetRating(ctx context.Context, sport models.Sport, name string) (*Rating, error) {
	endpoint := fmt.Sprintf("%s/v1/ratings/%s/%s", c.baseURL, sport, url.PathEscape(name))

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrRatingNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var rating Rating
	if err := json.NewDecoder(resp.Body).Decode(&rating); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &rating, nil
}

// GetRatings fetches the full rating table for a sport
func (c *Client) GetRatings(ctx context.Context, sport models.Sport) ([]*Rating, error) {
	endpoint := fmt.Sprintf("%s/v1/ratings/%s", c.baseURL, sport)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var ratings []*Rating
	if err := json.NewDecoder(resp.Body).Decode(&ratings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	c.logger.WithFields(logrus.Fields{
		"sport": sport,
		"count": len(ratings),
	}).Debug("Fetched rating table")

	return ratings, nil
}

// get executes a rate-limited GET with circuit breaking
func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	if c.isOpen {
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, c.lastError)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.consecutiveErrors++
		c.lastError = err
		if c.consecutiveErrors >= circuitBreakerMax {
			c.isOpen = true
			metrics.RecordRatingsCircuitTrip()
			c.logger.WithError(err).WithField("consecutive_errors", c.consecutiveErrors).
				Warn("Ratings circuit breaker opened")
		}
		return nil, err
	}

	if resp.StatusCode < 500 {
		c.consecutiveErrors = 0
		c.isOpen = false
	}

	return resp, nil
}

// Close closes any resources held by the client
func (c *Client) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// retryPolicy defines which HTTP responses should trigger a retry
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			// Retry on network errors
			return true, err
		}

		// Retry on rate limit (429) and server errors
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			return true, nil
		}

		return false, nil
	}
}

// Package ossindex queries Sonatype OSS Index for known vulnerabilities on
// sets of package coordinates.
//
// Coordinates are partitioned into batches of at most [DefaultMaxBatchSize]
// purls, each POSTed to the component-report endpoint. Batches run
// concurrently under a small connection cap and are retried with
// exponential backoff; a 429 anywhere flips the report's sticky
// RateLimited flag. A batch that exhausts its retries contributes zero
// items and its accumulated diagnostics, never an aborted scan.
package ossindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/sandijean90/SecurityAgent/pkg/httputil"
	"github.com/sandijean90/SecurityAgent/pkg/integrations"
)

// Tuning defaults. The 128-coordinate cap is the OSS Index per-request limit.
const (
	DefaultMaxBatchSize  = 128
	DefaultMaxRetries    = 3
	DefaultBackoffBase   = 1.5
	DefaultMaxConcurrent = 5
)

// Client queries the OSS Index component-report API.
//
// If both Email and Token are set, every request carries HTTP Basic
// authentication, which raises the provider's rate limits. Unauthenticated
// use works but is throttled more aggressively.
//
// All methods are safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	email   string
	token   string

	// MaxBatchSize caps coordinates per request.
	MaxBatchSize int
	// MaxRetries is the number of attempts per batch.
	MaxRetries int
	// BackoffBase grows inter-attempt delays as BackoffBase^attempt seconds.
	BackoffBase float64
	// MaxConcurrent caps in-flight batch requests.
	MaxConcurrent int
}

// NewClient creates an OSS Index client. Pass empty strings for
// unauthenticated access.
func NewClient(email, token string) *Client {
	return &Client{
		http:          integrations.NewHTTPClient(),
		baseURL:       "https://ossindex.sonatype.org/api/v3",
		email:         email,
		token:         token,
		MaxBatchSize:  DefaultMaxBatchSize,
		MaxRetries:    DefaultMaxRetries,
		BackoffBase:   DefaultBackoffBase,
		MaxConcurrent: DefaultMaxConcurrent,
	}
}

// WithBaseURL points the client at a different API root, e.g. a caching
// proxy in front of OSS Index. Returns the client for chaining.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// ComponentReports looks up vulnerabilities for the given purl coordinates
// and aggregates the per-batch results into a single Report. The method
// never fails outright: network errors and bad statuses become entries in
// Report.Errors. Cancelling ctx abandons remaining batches and returns
// whatever was already aggregated.
func (c *Client) ComponentReports(ctx context.Context, coordinates []string) *Report {
	report := &Report{Results: make(map[string]ComponentReport)}
	if len(coordinates) == 0 {
		return report
	}

	batchSize := c.MaxBatchSize
	if batchSize <= 0 {
		batchSize = DefaultMaxBatchSize
	}
	concurrent := c.MaxConcurrent
	if concurrent <= 0 {
		concurrent = DefaultMaxConcurrent
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, concurrent)
	)

	for start := 0; start < len(coordinates); start += batchSize {
		batch := coordinates[start:min(start+batchSize, len(coordinates))]

		wg.Add(1)
		go func(batch []string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			items, rateLimited, errs := c.fetchBatch(ctx, batch)

			mu.Lock()
			defer mu.Unlock()
			if rateLimited {
				report.RateLimited = true
			}
			report.Errors = append(report.Errors, errs...)
			for _, item := range items {
				key := item.Coordinates
				if key == "" {
					key = item.Purl
				}
				if key == "" {
					// Item doesn't identify its package; drop it.
					continue
				}
				report.Results[key] = item
			}
		}(batch)
	}

	wg.Wait()
	return report
}

// fetchBatch issues one batch with retries. It returns the parsed items
// (nil if every attempt failed), whether a 429 was seen, and one
// diagnostic string per failed attempt.
func (c *Client) fetchBatch(ctx context.Context, batch []string) ([]ComponentReport, bool, []string) {
	payload, err := json.Marshal(reportRequest{Coordinates: batch})
	if err != nil {
		return nil, false, []string{fmt.Sprintf("encode batch (size=%d): %v", len(batch), err)}
	}

	var (
		items       []ComponentReport
		errs        []string
		rateLimited bool
	)

	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/component-report", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.email != "" && c.token != "" {
			req.SetBasicAuth(c.email, c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			errs = append(errs, fmt.Sprintf("request error: %v", err))
			return httputil.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			var parsed []ComponentReport
			if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
				errs = append(errs, fmt.Sprintf("decode response (size=%d): %v", len(batch), err))
				return httputil.Retryable(err)
			}
			items = parsed
			return nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			rateLimited = true
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		errs = append(errs, fmt.Sprintf("HTTP %d for batch (size=%d): %s", resp.StatusCode, len(batch), body))
		return httputil.Retryable(fmt.Errorf("status %d", resp.StatusCode))
	}

	_ = httputil.Retry(ctx, c.MaxRetries, httputil.ExponentialBackoff(c.BackoffBase), attempt)
	return items, rateLimited, errs
}

// Package fetch implements the bounded-timeout page fetch client using gocolly.
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"partnerscout/internal/scout"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
}

// Client implements scout.Fetcher using the Colly collector. Each Fetch
// clones the base collector so per-request timeouts never leak between
// concurrent subject pipelines.
type Client struct {
	cfg           Config
	transport     http.RoundTripper
	baseCollector *colly.Collector
}

// New builds a Client.
func New(cfg Config) *Client {
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.AllowURLRevisit = true

	transport := newHTTPTransport()
	c.WithTransport(transport)

	return &Client{
		cfg:           cfg,
		transport:     transport,
		baseCollector: c,
	}
}

// Fetch executes a single HTTP GET. Any HTTP response, including 4xx/5xx,
// yields a Page with its status code and body; only transport-level
// failures (DNS, connect, timeout) return an error.
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) (scout.Page, error) {
	// The collector goroutine may still be writing these when a canceled
	// ctx unblocks runCollector, so every access goes through the mutex.
	var (
		mu       sync.Mutex
		result   scout.Page
		captured bool
	)
	start := time.Now()

	collector := c.baseCollector.Clone()
	collector.IgnoreRobotsTxt = true
	collector.AllowURLRevisit = true
	if c.cfg.UserAgent != "" {
		collector.UserAgent = c.cfg.UserAgent
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	collector.SetRequestTimeout(timeout)
	collector.WithTransport(c.transport)

	collector.OnResponse(func(r *colly.Response) {
		mu.Lock()
		defer mu.Unlock()
		result = scout.Page{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
		captured = true
	})
	collector.OnError(func(r *colly.Response, _ error) {
		// Colly reports non-2xx statuses through OnError with the response
		// attached. Those are data for the caller, not failures.
		if r != nil && r.StatusCode > 0 {
			mu.Lock()
			defer mu.Unlock()
			result = scout.Page{
				URL:        url,
				StatusCode: r.StatusCode,
				Body:       append([]byte(nil), r.Body...),
				Duration:   time.Since(start),
			}
			captured = true
		}
	})

	err := c.runCollector(ctx, collector, url)
	mu.Lock()
	defer mu.Unlock()
	if err != nil && !captured {
		return scout.Page{}, err
	}
	if !captured {
		return scout.Page{}, fmt.Errorf("fetch %s: no response", url)
	}
	return result, nil
}

func (c *Client) runCollector(ctx context.Context, collector *colly.Collector, url string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("fetch %s: %w", url, err)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}

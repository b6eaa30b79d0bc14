// Package crm provides a resilient HTTP client for the tenant's record store
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"

	perr "dncsweep/internal/platform/errors"
	"dncsweep/internal/platform/logger"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultUA          = "dncsweep"
	defaultMaxRetry    = 5
	defaultRetryBase   = 500 * time.Millisecond
	defaultMinInterval = 100 * time.Millisecond
	maxBackoff         = 30 * time.Second
	maxBody            = 4 << 20
)

// Client is a paced CRM REST client with retry on transient failures
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)

	mu   sync.Mutex
	next time.Time
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.MinInterval < 0 {
		o.MinInterval = defaultMinInterval
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("crm"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// pace blocks until the minimum inter-call spacing has elapsed.
// Concurrent callers queue behind a shared schedule, so the spacing
// holds across the whole worker pool, not per goroutine
func (c *Client) pace() {
	if c.opts.MinInterval <= 0 {
		return
	}
	c.mu.Lock()
	now := c.now()
	at := c.next
	if at.Before(now) {
		at = now
	}
	c.next = at.Add(c.opts.MinInterval)
	c.mu.Unlock()
	if wait := at.Sub(now); wait > 0 {
		c.sleep(wait)
	}
}

// do issues one request with pacing, auth, retry, and status mapping.
// 429 and 5xx retry with capped exponential backoff and jitter; everything
// else maps straight through FromCRMStatus
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return perr.JSONErrf("crm marshal request: %v", err)
		}
		payload = b
	}

	url := c.opts.BaseURL + path
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.pace()

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "crm new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !c.shouldRetry(attempts) {
				return perr.Wrapf(err, perr.ErrorCodeUnavailable, "crm do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("crm transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("crm http response")

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			defer func() {
				if cerr := resp.Body.Close(); cerr != nil {
					c.log.Error().Err(cerr).Str("path", path).Msg("crm close body failed")
				}
			}()
			if out == nil {
				_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
				return nil
			}
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
			if err != nil {
				return perr.Wrapf(err, perr.ErrorCodeUnavailable, "crm read body")
			}
			if err := json.Unmarshal(b, out); err != nil {
				return perr.JSONErrf("crm decode %s: %v", path, err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests ||
			(resp.StatusCode >= 500 && resp.StatusCode <= 599):
			wait := retryAfter(resp.Header)
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return perr.FromCRMStatus(resp.StatusCode, "crm "+method+" "+path)
			}
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			c.log.Warn().Dur("retry_in", wait).Int("status", resp.StatusCode).Msg("crm transient error retrying")
			c.sleep(wait)
			attempts++
			continue

		default:
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return perr.FromCRMStatus(resp.StatusCode, "crm "+method+" "+path+" body "+string(tail))
		}
	}
}

// backoff is exponential with a cap and half-width jitter
func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d > maxBackoff || d <= 0 {
		d = maxBackoff
	}
	half := d / 2
	return half + rand.N(half+1)
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func retryAfter(h http.Header) time.Duration {
	s := h.Get("Retry-After")
	if s == "" {
		return 0
	}
	sec, err := strconv.Atoi(s)
	if err != nil || sec <= 0 {
		return 0
	}
	return time.Duration(sec) * time.Second
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

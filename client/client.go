// Package client talks to the Kattis judge and the cpbook.net hint table.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/chrismacdonaldw/kattis-grind/internal/config"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	log "github.com/sirupsen/logrus"
)

const (
	UserAgent      = "kattis-grind (https://github.com/chrismacdonaldw/kattis-grind)"
	DefaultHintURL = "https://cpbook.net/methodstosolve?oj=kattis&topic=all&quality=all"

	// pages are capped at a few MB; anything bigger is not a Kattis page
	maxBodySize = 32 << 20
)

type Options struct {
	// BaseURL is scheme and host, e.g. https://open.kattis.com.
	BaseURL       string
	LoginURL      string
	SubmissionURL string
	HintURL       string
	Timeout       time.Duration
	PollInterval  time.Duration
	MaxPolls      int
}

// Client holds one cookie jar, so a Login carries over to Submit and Status.
type Client struct {
	http *http.Client
	opts Options
}

func New(opts Options) *Client {
	if opts.HintURL == "" {
		opts.HintURL = DefaultHintURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultScraperTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = config.DefaultPollInterval
	}
	if opts.MaxPolls <= 0 {
		opts.MaxPolls = config.DefaultMaxPolls
	}
	// cookiejar.New only fails on a bad PublicSuffixList
	jar, _ := cookiejar.New(nil)
	return &Client{
		http: &http.Client{Timeout: opts.Timeout, Jar: jar},
		opts: opts,
	}
}

// FromConfig builds a client for the judge named in cfg.
func FromConfig(cfg *config.Config) *Client {
	return New(Options{
		BaseURL:       cfg.Kattis.BaseURL(),
		LoginURL:      cfg.Kattis.LoginURL,
		SubmissionURL: cfg.Kattis.SubmissionURL,
		Timeout:       cfg.Settings.ScraperTimeout,
		PollInterval:  cfg.Settings.PollInterval,
		MaxPolls:      cfg.Settings.MaxPolls,
	})
}

func (c *Client) BaseURL() string {
	return c.opts.BaseURL
}

// ProblemURL is the statement page of id.
func (c *Client) ProblemURL(id string) string {
	return fmt.Sprintf("%s/problems/%s", c.opts.BaseURL, id)
}

// SubmissionPageURL is the human-readable page of a submission.
func (c *Client) SubmissionPageURL(id string) string {
	return fmt.Sprintf("%s/submissions/%s", c.opts.BaseURL, id)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

// do sends req and returns the body of a 200 reply. Other statuses are
// mapped onto the error classes in kgerrors.
func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", UserAgent)

	log.WithFields(log.Fields{"method": req.Method, "url": req.URL.String()}).Debug("request")
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w, %s %s: %v", kgerrors.ErrNetwork, req.Method, req.URL.Redacted(), err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w, failed to read response body: %v", kgerrors.ErrNetwork, err)
	}
	log.WithFields(log.Fields{"status": res.StatusCode, "bytes": len(body)}).Debug("response")

	if res.StatusCode != http.StatusOK {
		return body, statusError(res.StatusCode, req.URL.Redacted(), body)
	}
	return body, nil
}

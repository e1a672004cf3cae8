package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	log "github.com/sirupsen/logrus"
)

// Login exchanges the username and token from .kattisrc for a session
// cookie, which stays in the client's jar.
func (c *Client) Login(ctx context.Context, username, token string) error {
	if c.opts.LoginURL == "" {
		return fmt.Errorf("%w, no login URL configured", kgerrors.ErrConfigParse)
	}

	form := url.Values{}
	form.Set("user", username)
	form.Set("token", token)
	form.Set("script", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err := c.do(req); err != nil {
		if errors.Is(err, kgerrors.ErrAuth) {
			return fmt.Errorf("%w, Kattis rejected the login for '%s'", kgerrors.ErrAuth, username)
		}
		return err
	}
	log.WithField("user", username).Debug("logged in")
	return nil
}

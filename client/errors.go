package client

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
)

// statusError maps a non-200 reply onto an error class.
func statusError(code int, url string, body []byte) error {
	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%w, %s", kgerrors.ErrNotFound, url)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w, HTTP %d from %s", kgerrors.ErrAuth, code, url)
	default:
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200] + "..."
		}
		if msg == "" {
			msg = "unknown error"
		}
		return fmt.Errorf("%w, HTTP %d from %s - %s", kgerrors.ErrNetwork, code, url, msg)
	}
}

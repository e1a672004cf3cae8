package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cenkalti/backoff/v4"
	"github.com/chrismacdonaldw/kattis-grind/internal/extract"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	log "github.com/sirupsen/logrus"
)

type SubmitRequest struct {
	Problem string
	// Language is the name Kattis uses, e.g. "C++" or "Python 3".
	Language  string
	MainClass string
	Tag       string
	Files     []string
}

// Update is one poll of a submission's status.
type Update struct {
	Status         Status
	TestcaseIndex  int
	Judgement      extract.Judgement
	CompilerOutput string
}

type statusReply struct {
	StatusID      int    `json:"status_id"`
	TestcaseIndex int    `json:"testcase_index"`
	RowHTML       string `json:"row_html"`
	FeedbackHTML  string `json:"feedback_html"`
}

var errNotFinal = errors.New("submission still being judged")

// Submit uploads the files of r and returns the submission id. The client
// must be logged in.
func (c *Client) Submit(ctx context.Context, r SubmitRequest) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := []struct{ key, value string }{
		{"submit", "true"},
		{"submit_ctr", "2"},
		{"language", r.Language},
		{"mainclass", r.MainClass},
		{"problem", r.Problem},
		{"tag", r.Tag},
		{"script", "true"},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.key, f.value); err != nil {
			return "", fmt.Errorf("failed to build submission: %w", err)
		}
	}
	for _, path := range r.Files {
		if err := attach(mw, path); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.SubmissionURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create submit request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	reply, err := c.do(req)
	if err != nil {
		return "", err
	}
	id, err := extract.SubmissionID(string(reply))
	if err != nil {
		log.WithField("reply", string(reply)).Debug("unexpected submit reply")
		return "", err
	}
	log.WithField("id", id).Debug("submission accepted for judging")
	return id, nil
}

func attach(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	part, err := mw.CreateFormFile("sub_file[]", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to attach %s: %w", path, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to attach %s: %w", path, err)
	}
	return nil
}

// Status fetches the current judging state of submission id.
func (c *Client) Status(ctx context.Context, id string) (Update, error) {
	raw, err := c.get(ctx, c.SubmissionPageURL(id)+"?json")
	if err != nil {
		return Update{}, err
	}

	var reply statusReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return Update{}, fmt.Errorf("%w, submission status is not JSON: %v", kgerrors.ErrParse, err)
	}

	u := Update{
		Status:        Status(reply.StatusID),
		TestcaseIndex: reply.TestcaseIndex,
		Judgement:     extract.SubmissionRow(reply.RowHTML),
	}
	if u.Status == StatusCompileError {
		u.CompilerOutput = extract.CompilerOutput(reply.FeedbackHTML)
	}
	return u, nil
}

// WaitForVerdict polls Status at a fixed interval until the verdict is
// final, calling onUpdate after every poll. When the poll budget runs out
// the returned Update has StatusUnknown.
func (c *Client) WaitForVerdict(ctx context.Context, id string, onUpdate func(Update)) (Update, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.opts.PollInterval), uint64(c.opts.MaxPolls-1)),
		ctx,
	)

	var last Update
	err := backoff.Retry(func() error {
		u, err := c.Status(ctx, id)
		if err != nil {
			if errors.Is(err, kgerrors.ErrNetwork) {
				log.WithError(err).Debug("status poll failed, retrying")
				return err
			}
			return backoff.Permanent(err)
		}
		last = u
		if onUpdate != nil {
			onUpdate(u)
		}
		if !u.Status.Final() {
			return errNotFinal
		}
		return nil
	}, policy)

	switch {
	case err == nil:
		return last, nil
	case errors.Is(err, errNotFinal):
		last.Status = StatusUnknown
		return last, nil
	default:
		return last, err
	}
}

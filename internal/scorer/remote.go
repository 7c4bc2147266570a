package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Remote calls the ML scoring service. Every call is bounded by the client
// timeout so a dead service costs at most one timeout before the caller's
// fallback kicks in.
type Remote struct {
	url    string
	client *http.Client
}

var _ MasteryUpdater = (*Remote)(nil)

// RemoteError distinguishes "service unreachable" from "service returned
// garbage"; both trigger the local fallback.
type RemoteError struct {
	Reason  string
	Wrapped error
}

func (e *RemoteError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("remote scorer: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("remote scorer: %s", e.Reason)
}

func (e *RemoteError) Unwrap() error {
	return e.Wrapped
}

func NewRemote(url string, timeout time.Duration) *Remote {
	return &Remote{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type masteryRequest struct {
	MasteryLevel float64 `json:"masteryLevel"`
	IsCorrect    bool    `json:"isCorrect"`
}

type masteryResponse struct {
	MasteryLevel float64 `json:"masteryLevel"`
}

func (r *Remote) Update(ctx context.Context, current float64, correct bool) (float64, error) {
	body, err := json.Marshal(masteryRequest{MasteryLevel: current, IsCorrect: correct})
	if err != nil {
		return 0, &RemoteError{Reason: "encode request", Wrapped: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+"/mastery", bytes.NewReader(body))
	if err != nil {
		return 0, &RemoteError{Reason: "build request", Wrapped: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, &RemoteError{Reason: "service unreachable", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &RemoteError{Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var out masteryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, &RemoteError{Reason: "decode response", Wrapped: err}
	}

	if out.MasteryLevel < 0 || out.MasteryLevel > 1 {
		return 0, &RemoteError{Reason: fmt.Sprintf("mastery %f out of range", out.MasteryLevel)}
	}
	return out.MasteryLevel, nil
}

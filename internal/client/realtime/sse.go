// Package realtime maintains the server-sent-events connection that carries
// incremental change notifications. The channel reconnects on its own with a
// capped exponential backoff; the server does not replay missed events, so
// the handler gets told about every (re)connect and is expected to close the
// gap with a snapshot refresh.
package realtime

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/riya9927/balkanid-capstone/internal/common"
	"github.com/riya9927/balkanid-capstone/internal/logging"
)

// Handler consumes the channel's lifecycle.
type Handler interface {
	// HandleConnected runs after every successful (re)connect, before any
	// message from the new connection is delivered.
	HandleConnected(ctx context.Context)

	// HandleMessage receives the data payload of one SSE event. Messages the
	// handler cannot parse must be dropped there, never bubbled up.
	HandleMessage(ctx context.Context, data []byte)
}

// Channel is a reconnecting SSE subscription to GET /realtime.
type Channel struct {
	url        string
	username   string
	client     *http.Client
	minBackoff time.Duration
	maxBackoff time.Duration
	log        logging.Logger
}

func NewChannel(baseURL, username string, minBackoff, maxBackoff time.Duration, log logging.Logger) *Channel {
	return &Channel{
		url:      strings.TrimRight(baseURL, "/") + "/realtime",
		username: username,
		// No overall timeout: the response body is an endless stream.
		client:     &http.Client{},
		minBackoff: minBackoff,
		maxBackoff: maxBackoff,
		log:        log.With("component", "realtime"),
	}
}

// Run connects and consumes events until ctx is cancelled. Connection
// failures and dropped streams are retried forever with capped exponential
// backoff plus jitter; the backoff resets after every successful connect.
// The returned error is always ctx's error.
func (c *Channel) Run(ctx context.Context, h Handler) error {
	for {
		resp, err := c.connectWithBackoff(ctx)
		if err != nil {
			return err
		}

		h.HandleConnected(ctx)
		c.consume(ctx, resp, h)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn(ctx, "push channel dropped, reconnecting")
	}
}

func (c *Channel) connectWithBackoff(ctx context.Context) (*http.Response, error) {
	b := retry.WithCappedDuration(c.maxBackoff, retry.NewExponential(c.minBackoff))
	b = retry.WithJitterPercent(10, b)

	var resp *http.Response
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		r, err := c.connect(ctx)
		if err != nil {
			c.log.Warn(ctx, "push channel connect failed", "error", err)
			return retry.RetryableError(err)
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Channel) connect(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set(common.UserHeaderName, c.username)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTransientNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status %s", common.ErrTransientNetwork, resp.Status)
	}
	return resp, nil
}

// consume reads SSE frames and forwards each event's data payload until the
// stream breaks or ctx is cancelled.
func (c *Channel) consume(ctx context.Context, resp *http.Response, h Handler) {
	defer resp.Body.Close()

	// Close the body when ctx is cancelled so the scanner unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			resp.Body.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(resp.Body)
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			// Blank line terminates one event.
			if data.Len() > 0 {
				h.HandleMessage(ctx, []byte(data.String()))
				data.Reset()
			}
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// event:/id:/retry: fields and comments are irrelevant here; the
			// payload alone identifies the event.
		}
	}
}

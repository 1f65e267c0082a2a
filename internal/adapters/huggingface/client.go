// internal/adapters/huggingface/client.go
package huggingface

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"insightify/internal/adapters/observability"
)

const DefaultModel = "w11wo/indonesian-roberta-base-sentiment-classifier"

// warmupText is classified once at load time to prove the model answers.
const warmupText = "produk ini bagus"

type Client struct {
	base  string
	model string
	hc    *http.Client
	token string
	rl    *rate.Limiter
}

func New(base, model, token string, rps int) (*Client, error) {
	if strings.TrimSpace(base) == "" {
		return nil, fmt.Errorf("inference base URL is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		model: model,
		hc:    &http.Client{Timeout: 30 * time.Second},
		token: token,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

// Classify returns the highest-scoring label for text.
func (c *Client) Classify(ctx context.Context, text string) (string, error) {
	var out scores
	if err := c.post(ctx, fmt.Sprintf("%s/models/%s", c.base, c.model), request{Inputs: text}, &out); err != nil {
		return "", err
	}
	best, ok := out.best()
	if !ok {
		return "", ErrEmptyResult
	}
	return NormalizeLabel(best.Label), nil
}

// Warmup classifies a short text so that network or model failures surface
// while the classifier is being loaded rather than on the first review.
func (c *Client) Warmup(ctx context.Context) error {
	_, err := c.Classify(ctx, warmupText)
	return err
}

// NormalizeLabel maps generic LABEL_n outputs of 3-class sentiment heads to
// negative/neutral/positive; other labels pass through.
func NormalizeLabel(l string) string {
	switch strings.ToUpper(strings.TrimSpace(l)) {
	case "LABEL_0":
		return "negative"
	case "LABEL_1":
		return "neutral"
	case "LABEL_2":
		return "positive"
	}
	return l
}

// ---- Wire types ----

type request struct {
	Inputs string `json:"inputs"`
}

type score struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// scores accepts both [[{label,score}...]] and [{label,score}...].
type scores []score

func (s *scores) UnmarshalJSON(b []byte) error {
	var nested [][]score
	if err := json.Unmarshal(b, &nested); err == nil {
		if len(nested) > 0 {
			*s = nested[0]
		}
		return nil
	}
	var flat []score
	if err := json.Unmarshal(b, &flat); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	*s = flat
	return nil
}

func (s scores) best() (score, bool) {
	var out score
	found := false
	for _, sc := range s {
		if sc.Label == "" {
			continue
		}
		if !found || sc.Score > out.Score {
			out, found = sc, true
		}
	}
	return out, found
}

// ---- Internals ----

var (
	ErrNotFound          = errors.New("huggingface: model not found")
	ErrUnauthorized      = errors.New("huggingface: unauthorized")
	ErrEmptyResult       = errors.New("huggingface: empty classification result")
	ErrMalformedResponse = errors.New("huggingface: malformed response")
)

// post performs a POST with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429, transient 5xx and 503 "model loading", honoring Retry-After when provided.
func (c *Client) post(ctx context.Context, url string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "insightify/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("huggingface", "classify", 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("huggingface", "classify", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil && !errors.Is(err, ErrMalformedResponse) {
				return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			if wait == 0 {
				wait = loadingWait(resp)
			}
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// maxLoadingWait caps the server's estimated model warm-up time per attempt.
const maxLoadingWait = 10 * time.Second

// loadingWait reads {"error":"Model ... is currently loading","estimated_time":N}.
func loadingWait(resp *http.Response) time.Duration {
	if resp.StatusCode != http.StatusServiceUnavailable {
		return 0
	}
	var body struct {
		EstimatedTime float64 `json:"estimated_time"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err != nil || body.EstimatedTime <= 0 {
		return 0
	}
	d := time.Duration(body.EstimatedTime * float64(time.Second))
	if d > maxLoadingWait {
		d = maxLoadingWait
	}
	return d
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with up to +50% jitter.
// i = retry attempt (0,1,2,...); base doubles from 200ms.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}

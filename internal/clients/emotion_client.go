package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/spacesedan/emotiscope/config"
	"github.com/spacesedan/emotiscope/internal/models"
)

type FailureKind string

const (
	FailureNetwork   FailureKind = "network"
	FailureStatus    FailureKind = "status"
	FailureMalformed FailureKind = "malformed"
	FailureTimeout   FailureKind = "timeout"
)

// AnalysisFailure describes why the analyzer could not produce a usable
// result. Callers are expected to recover from it, never to surface it.
type AnalysisFailure struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (f *AnalysisFailure) Error() string {
	switch {
	case f.Kind == FailureStatus && f.Err == nil:
		return fmt.Sprintf("analyzer %s failure: status code %d", f.Kind, f.StatusCode)
	case f.Err == nil:
		return fmt.Sprintf("analyzer %s failure", f.Kind)
	}
	return fmt.Sprintf("analyzer %s failure: %v", f.Kind, f.Err)
}

func (f *AnalysisFailure) Unwrap() error {
	return f.Err
}

// RemoteOutcome holds either the analyzer result or the reason it failed.
type RemoteOutcome struct {
	Result  models.AnalysisResult
	Failure *AnalysisFailure
}

func (o RemoteOutcome) OK() bool {
	return o.Failure == nil
}

var (
	emotionClientInstance *EmotionClient
	emotionClientOnce     sync.Once
)

type EmotionClient struct {
	Client     *http.Client
	endpoint   string
	timeout    time.Duration
	maxRetries uint64
	backoff    time.Duration
}

type EmotionClientOption func(*EmotionClient)

func WithHTTPClient(c *http.Client) EmotionClientOption {
	return func(ec *EmotionClient) {
		ec.Client = c
	}
}

func WithBackoff(d time.Duration) EmotionClientOption {
	return func(ec *EmotionClient) {
		ec.backoff = d
	}
}

// GetEmotionClient returns the process-wide analyzer client, built from cfg
// on first use.
func GetEmotionClient(cfg config.AnalyzerConfig) *EmotionClient {
	emotionClientOnce.Do(func() {
		slog.Info("[EmotionClient] Initializing Client",
			slog.String("endpoint", cfg.Endpoint),
			slog.Duration("timeout", cfg.Timeout),
			slog.Bool("oauth", cfg.OAuth.Enabled()))
		emotionClientInstance = NewEmotionClient(cfg)
	})
	return emotionClientInstance
}

func NewEmotionClient(cfg config.AnalyzerConfig, opts ...EmotionClientOption) *EmotionClient {
	ec := &EmotionClient{
		Client:     newHTTPClient(cfg),
		endpoint:   cfg.Endpoint,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		backoff:    INITIAL_BACKOFF,
	}
	if ec.timeout <= 0 {
		ec.timeout = config.PRODUCTION_TIMEOUT
	}
	for _, opt := range opts {
		opt(ec)
	}
	return ec
}

func newHTTPClient(cfg config.AnalyzerConfig) *http.Client {
	base := &http.Client{Timeout: cfg.Timeout}
	if !cfg.OAuth.Enabled() {
		return base
	}

	oauthConf := &clientcredentials.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		TokenURL:     cfg.OAuth.TokenURL,
		Scopes:       cfg.OAuth.Scopes,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	return oauthConf.Client(ctx)
}

// Analyze posts text to the analyzer. It never returns an error: every
// problem is reported through RemoteOutcome.Failure.
func (ec *EmotionClient) Analyze(ctx context.Context, text string) RemoteOutcome {
	ctx, cancel := context.WithTimeout(ctx, ec.timeout)
	defer cancel()

	slog.Debug("[EmotionClient] Requesting emotion analysis", slog.Int("text_length", len(text)))
	start := time.Now()

	var resp models.AnalyzeResponse
	err := ec.postJSON(ctx, models.AnalyzeRequest{
		Text:    text,
		Options: models.DefaultAnalyzeOptions(),
	}, &resp)
	if err != nil {
		failure := classifyFailure(err)
		slog.Warn("[EmotionClient] Emotion analysis request failed",
			slog.String("kind", string(failure.Kind)),
			slog.String("error", failure.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return RemoteOutcome{Failure: failure}
	}

	if resp.Scores == nil {
		return RemoteOutcome{Failure: &AnalysisFailure{Kind: FailureMalformed, Err: errors.New("response has no scores")}}
	}
	scores := models.ScoresFromMap(resp.Scores)
	if scores.AllZero() {
		return RemoteOutcome{Failure: &AnalysisFailure{Kind: FailureMalformed, Err: errors.New("response scores are all zero")}}
	}

	label := models.Emotion(resp.Emotion)
	if !label.IsValid() {
		slog.Warn("[EmotionClient] Unknown emotion label, using top score",
			slog.String("emotion", resp.Emotion))
		label = scores.Top()
	}

	slog.Info("[EmotionClient] Emotion analysis request successful",
		slog.String("emotion", string(label)),
		slog.Float64("confidence", resp.Confidence),
		slog.Duration("elapsed", time.Since(start)))

	return RemoteOutcome{Result: models.AnalysisResult{
		Emotion:    label,
		Confidence: resp.Confidence,
		Scores:     scores,
	}}
}

// Health reports whether the analyzer answers GET /health with a 2xx.
func (ec *EmotionClient) Health(ctx context.Context) error {
	healthURL, err := ec.healthURL()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, ec.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return fmt.Errorf("[EmotionClient] failed to build health request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := ec.Client.Do(req)
	if err != nil {
		return fmt.Errorf("[EmotionClient] health request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("[EmotionClient] health check returned status code %d", resp.StatusCode)
	}
	return nil
}

func (ec *EmotionClient) healthURL() (string, error) {
	u, err := url.Parse(ec.endpoint)
	if err != nil {
		return "", fmt.Errorf("[EmotionClient] invalid endpoint %q: %w", ec.endpoint, err)
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String(), nil
}

// postJSON sends input and decodes the reply into output, retrying
// transport errors and 5xx responses with exponential backoff.
func (ec *EmotionClient) postJSON(ctx context.Context, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		return &AnalysisFailure{Kind: FailureMalformed, Err: fmt.Errorf("failed to marshal input: %w", err)}
	}

	attempt := 0
	backoff := retry.WithMaxRetries(ec.maxRetries, retry.NewExponential(ec.backoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ec.endpoint, bytes.NewReader(body))
		if err != nil {
			return &AnalysisFailure{Kind: FailureNetwork, Err: fmt.Errorf("failed to build request: %w", err)}
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)

		resp, err := ec.Client.Do(req)
		if err != nil {
			if isTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return &AnalysisFailure{Kind: FailureTimeout, Err: err}
			}
			if ctx.Err() != nil {
				return &AnalysisFailure{Kind: FailureNetwork, Err: err}
			}
			slog.Warn("[EmotionClient] Request failed, will retry",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return retry.RetryableError(&AnalysisFailure{Kind: FailureNetwork, Err: err})
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return &AnalysisFailure{Kind: FailureNetwork, Err: fmt.Errorf("failed to read response: %w", err)}
		}

		if resp.StatusCode >= 500 {
			slog.Warn("[EmotionClient] Analyzer returned server error, will retry",
				slog.Int("attempt", attempt),
				slog.Int("status", resp.StatusCode),
				getPreview(respBody))
			return retry.RetryableError(&AnalysisFailure{Kind: FailureStatus, StatusCode: resp.StatusCode})
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &AnalysisFailure{Kind: FailureStatus, StatusCode: resp.StatusCode}
		}

		if err := json.Unmarshal(respBody, output); err != nil {
			slog.Error("[EmotionClient] Failed to unmarshal response",
				slog.String("error", err.Error()),
				getPreview(respBody),
				slog.Int("raw_response_length", len(respBody)))
			return &AnalysisFailure{Kind: FailureMalformed, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
		}
		return nil
	})
}

func classifyFailure(err error) *AnalysisFailure {
	var failure *AnalysisFailure
	if errors.As(err, &failure) {
		return failure
	}
	if isTimeout(err) {
		return &AnalysisFailure{Kind: FailureTimeout, Err: err}
	}
	return &AnalysisFailure{Kind: FailureNetwork, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

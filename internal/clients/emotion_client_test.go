package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/emotiscope/config"
	"github.com/spacesedan/emotiscope/internal/models"
)

func newTestClient(t *testing.T, endpoint string, retries uint64, timeout time.Duration) *EmotionClient {
	t.Helper()
	return NewEmotionClient(config.AnalyzerConfig{
		Endpoint:   endpoint,
		Timeout:    timeout,
		MaxRetries: retries,
	}, WithBackoff(time.Millisecond), WithHTTPClient(&http.Client{}))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestAnalyzeSuccess(t *testing.T) {
	var got models.AnalyzeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `{"emotion":"joy","confidence":82,"scores":{"sadness":2,"joy":82,"love":9,"anger":1,"fear":3,"surprise":3}}`)
	}))
	defer srv.Close()

	outcome := newTestClient(t, srv.URL+"/analyze", 0, time.Second).Analyze(context.Background(), "I am so happy today!!!")

	require.True(t, outcome.OK(), "unexpected failure: %v", outcome.Failure)
	assert.Equal(t, models.EmotionJoy, outcome.Result.Emotion)
	assert.Equal(t, 82.0, outcome.Result.Confidence)
	assert.Equal(t, 82.0, outcome.Result.Scores.Joy)
	assert.Zero(t, outcome.Result.Scores.Neutral)

	assert.Equal(t, "I am so happy today!!!", got.Text)
	assert.Equal(t, models.DefaultAnalyzeOptions(), got.Options)
}

func TestAnalyzeRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusServiceUnavailable, `{"error":"warming up"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"emotion":"fear","confidence":64,"scores":{"fear":64,"sadness":20}}`)
	}))
	defer srv.Close()

	outcome := newTestClient(t, srv.URL, 2, time.Second).Analyze(context.Background(), "there is something in the dark")

	require.True(t, outcome.OK())
	assert.Equal(t, models.EmotionFear, outcome.Result.Emotion)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAnalyzeGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, `{"error":"boom"}`)
	}))
	defer srv.Close()

	outcome := newTestClient(t, srv.URL, 2, time.Second).Analyze(context.Background(), "hello world")

	require.False(t, outcome.OK())
	assert.Equal(t, FailureStatus, outcome.Failure.Kind)
	assert.Equal(t, http.StatusInternalServerError, outcome.Failure.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestAnalyzeDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadRequest, `{"error":"bad"}`)
	}))
	defer srv.Close()

	outcome := newTestClient(t, srv.URL, 3, time.Second).Analyze(context.Background(), "hello world")

	require.False(t, outcome.OK())
	assert.Equal(t, FailureStatus, outcome.Failure.Kind)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnalyzeMalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"missing scores": `{"emotion":"joy","confidence":90}`,
		"null scores":    `{"emotion":"joy","confidence":90,"scores":null}`,
		"zero scores":    `{"emotion":"joy","confidence":0,"scores":{"joy":0,"sadness":0}}`,
		"not json":       `<html>oops</html>`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, body)
			}))
			defer srv.Close()

			outcome := newTestClient(t, srv.URL, 0, time.Second).Analyze(context.Background(), "hello world")
			require.False(t, outcome.OK())
			assert.Equal(t, FailureMalformed, outcome.Failure.Kind)
		})
	}
}

func TestAnalyzeNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	outcome := newTestClient(t, endpoint, 1, time.Second).Analyze(context.Background(), "hello world")

	require.False(t, outcome.OK())
	assert.Equal(t, FailureNetwork, outcome.Failure.Kind)
	assert.Error(t, outcome.Failure)
}

func TestAnalyzeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	outcome := newTestClient(t, srv.URL, 2, 50*time.Millisecond).Analyze(context.Background(), "hello world")

	require.False(t, outcome.OK())
	assert.Equal(t, FailureTimeout, outcome.Failure.Kind)
}

func TestAnalyzeUnknownLabelUsesTopScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"emotion":"awe","confidence":55,"scores":{"surprise":55,"joy":30}}`)
	}))
	defer srv.Close()

	outcome := newTestClient(t, srv.URL, 0, time.Second).Analyze(context.Background(), "wow look at that")

	require.True(t, outcome.OK())
	assert.Equal(t, models.EmotionSurprise, outcome.Result.Emotion)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			writeJSON(w, http.StatusOK, `{"status":"ok"}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.NoError(t, newTestClient(t, srv.URL+"/analyze", 0, time.Second).Health(context.Background()))
	assert.NoError(t, newTestClient(t, srv.URL+"/v1/analyze?x=1", 0, time.Second).Health(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	assert.Error(t, newTestClient(t, down.URL+"/analyze", 0, time.Second).Health(context.Background()))
}

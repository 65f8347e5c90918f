package textgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edumanage/core/insight"
	"github.com/trezcool/edumanage/tests"
)

type (
	testPart struct {
		Text string `json:"text"`
	}

	testContent struct {
		Role  string     `json:"role,omitempty"`
		Parts []testPart `json:"parts"`
	}

	testRequest struct {
		Contents []testContent `json:"contents"`
	}

	testCandidate struct {
		Content testContent `json:"content"`
	}

	testResponse struct {
		Candidates []testCandidate `json:"candidates"`
	}
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := testutil.Config()
	conf.Gemini.APIKey = "test-key"
	conf.Gemini.Model = "test-model"
	conf.Gemini.BaseURL = srv.URL + "/"
	conf.Gemini.Timeout = time.Second

	c, err := NewGeminiClient(conf, testutil.NewLogger(conf))
	require.NoError(t, err)
	c.retryDelay = time.Millisecond
	return c
}

func writeText(w http.ResponseWriter, texts ...string) {
	resp := testResponse{Candidates: []testCandidate{{Content: testContent{Role: "model"}}}}
	for _, txt := range texts {
		resp.Candidates[0].Content.Parts = append(resp.Candidates[0].Content.Parts, testPart{Text: txt})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error": {"code": %d, "message": "nope", "status": "X"}}`, status)
}

func TestGeminiClient_Summarize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1beta/models/test-model:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req testRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Total Students: 3")

		writeText(w, "The institute is healthy. ", "Keep it up.")
	})

	text, err := c.Summarize(context.Background(), insight.InstituteFacts{TotalStudents: 3, TotalBatches: 2, AttendanceRate: 75})
	require.NoError(t, err)
	assert.Equal(t, "The institute is healthy. Keep it up.", text)
}

func TestGeminiClient_retries(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantCalls: defaultRetryCount + 1},
		{name: "server error", status: http.StatusServiceUnavailable, wantCalls: defaultRetryCount + 1},
		{name: "bad request", status: http.StatusBadRequest, wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				writeError(w, tt.status)
			})

			_, err := c.Generate(context.Background(), "hi")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "nope")
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestGeminiClient_recovers(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			writeError(w, http.StatusInternalServerError)
			return
		}
		writeText(w, "Good job.")
	})

	text, err := c.Feedback(context.Background(), insight.FeedbackRequest{TaskTitle: "API", StudentName: "Mike", Grade: 95})
	require.NoError(t, err)
	assert.Equal(t, "Good job.", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGeminiClient_noCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	text, err := c.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Empty(t, text)

	conf := testutil.Config()
	svc := insight.NewService(c, testutil.NewLogger(conf))
	assert.Equal(t, insight.SummaryEmpty, svc.Summary(context.Background(), insight.InstituteFacts{TotalStudents: 3}))
	assert.Equal(t, insight.FeedbackEmpty, svc.Feedback(context.Background(), insight.FeedbackRequest{TaskTitle: "API"}))
}

func TestNewGenerator(t *testing.T) {
	conf := testutil.Config()
	assert.Equal(t, insight.Disabled{}, NewGenerator(conf, testutil.NewLogger(conf)))

	conf.Gemini.APIKey = "key"
	assert.IsType(t, &GeminiClient{}, NewGenerator(conf, testutil.NewLogger(conf)))
}

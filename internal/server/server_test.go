package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spacesedan/sentilyze/internal/metrics"
	"github.com/spacesedan/sentilyze/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScorer struct {
	out []models.ScoredSentence
}

func (s stubScorer) ScoreSentences(string) []models.ScoredSentence { return s.out }

func mixedScorer() stubScorer {
	return stubScorer{out: []models.ScoredSentence{
		{Text: "I love this tool!", Polarity: 0.8},
		{Text: "Errors are annoying.", Polarity: -0.3},
		{Text: "It runs on Linux.", Polarity: 0.0},
	}}
}

type testServer struct {
	*Server
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, scorer stubScorer, checks ...HealthCheck) testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	srv, err := NewServer(scorer, Options{
		Port:         "0",
		MaxTextBytes: 1000,
		HealthChecks: checks,
		Metrics:      m,
		MetricsPage:  metrics.Handler(reg),
	})
	require.NoError(t, err)
	return testServer{Server: srv, metrics: m}
}

func (ts testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func postForm(text string) *http.Request {
	form := url.Values{"text": {text}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandleIndex(t *testing.T) {
	ts := newTestServer(t, mixedScorer())

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Sentiment Analysis Tool")
	assert.Contains(t, body, "Analyze Sentiment")
	assert.NotContains(t, body, "Analysis Results")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestHandleAnalyzeForm_EmptyAndBlankText(t *testing.T) {
	ts := newTestServer(t, mixedScorer())

	for _, text := range []string{"", "   \n\t "} {
		rec := ts.do(postForm(text))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, MESSAGE_NO_TEXT)
		assert.NotContains(t, body, "Analysis Results")
		assert.NotContains(t, body, "<svg")
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.AnalysesTotal.WithLabelValues(metrics.OUTCOME_NO_TEXT)))
}

func TestHandleAnalyzeForm_NoSentences(t *testing.T) {
	ts := newTestServer(t, stubScorer{})

	rec := ts.do(postForm("..."))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, MESSAGE_NO_SENTENCES)
	assert.NotContains(t, body, MESSAGE_NO_TEXT)
	assert.NotContains(t, body, "Analysis Results")
}

func TestHandleAnalyzeForm_Results(t *testing.T) {
	ts := newTestServer(t, mixedScorer())

	rec := ts.do(postForm("I love this tool! Errors are annoying. It runs on Linux."))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Analysis Results")
	assert.Contains(t, body, "33.3%")
	assert.Contains(t, body, "<svg")
	assert.NotContains(t, body, "<?xml")
	for _, want := range []string{"0.80", "-0.30", "0.00", `class="label-positive"`, `class="label-negative"`, `class="label-neutral"`} {
		assert.Contains(t, body, want)
	}
	// submitted text is echoed back into the textarea
	assert.Contains(t, body, "Errors are annoying. It runs on Linux.</textarea>")

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.SentencesTotal.WithLabelValues("Positive")))
}

func TestHandleAnalyzeForm_EscapesUserText(t *testing.T) {
	ts := newTestServer(t, stubScorer{out: []models.ScoredSentence{{Text: "<script>x</script>", Polarity: 0}}})

	rec := ts.do(postForm("<script>x</script>"))

	assert.NotContains(t, rec.Body.String(), "<script>x</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestHandleAnalyzeForm_TooLong(t *testing.T) {
	ts := newTestServer(t, mixedScorer())

	rec := ts.do(postForm(strings.Repeat("a", 1001)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Text is too long")
	assert.NotContains(t, rec.Body.String(), "Analysis Results")
}

func TestHandleAnalyzeForm_OversizedBody(t *testing.T) {
	// the form route caps bodies at 4024 bytes for a 1000 byte text limit
	text := strings.Repeat("I love it. ", 1000)

	tests := []struct {
		name          string
		contentLength int64
	}{
		{"declared length", int64(len(url.Values{"text": {text}}.Encode()))},
		{"chunked", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, mixedScorer())
			req := postForm(text)
			req.ContentLength = tt.contentLength

			rec := ts.do(req)

			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "Text is too long")
			assert.NotContains(t, body, MESSAGE_NO_TEXT)
			assert.NotContains(t, body, "Analysis Results")
			assert.NotContains(t, body, "I love it. I love it.")
			assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.AnalysesTotal.WithLabelValues(metrics.OUTCOME_TOO_LONG)))
			assert.Equal(t, 0.0, testutil.ToFloat64(ts.metrics.AnalysesTotal.WithLabelValues(metrics.OUTCOME_NO_TEXT)))
		})
	}
}

func TestHandleAnalyzeForm_MalformedBody(t *testing.T) {
	ts := newTestServer(t, mixedScorer())
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("text=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := ts.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), MESSAGE_NO_TEXT)
}

func TestDownloadNotice_ClearedByFirstAnalysis(t *testing.T) {
	ts := newTestServer(t, mixedScorer())
	ts.AnnounceDownload()

	for i := 0; i < 2; i++ {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Contains(t, rec.Body.String(), MESSAGE_DOWNLOADED, "visit %d", i+1)
	}

	// an empty submission is not an analysis
	assert.Contains(t, ts.do(postForm("  ")).Body.String(), MESSAGE_DOWNLOADED)

	analyzed := ts.do(postForm("I love this tool!"))
	assert.Contains(t, analyzed.Body.String(), MESSAGE_DOWNLOADED)
	assert.Contains(t, analyzed.Body.String(), "Analysis Results")

	after := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotContains(t, after.Body.String(), MESSAGE_DOWNLOADED)
}

func TestRenderPage_NotCached(t *testing.T) {
	ts := newTestServer(t, mixedScorer())

	rec := ts.do(postForm("anything"))

	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestHandleAPIAnalyze(t *testing.T) {
	ts := newTestServer(t, mixedScorer())

	rec := ts.do(postJSON(`{"text":"anything"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, models.AnalysisSummary{PositiveCount: 1, NegativeCount: 1, NeutralCount: 1, Total: 3}, resp.Summary)
	assert.Equal(t, models.Percentages{Positive: "33.3%", Negative: "33.3%", Neutral: "33.3%"}, resp.Percentages)
	require.Len(t, resp.Sentences, 3)
	assert.Equal(t, models.SentenceRow{Sentence: "Errors are annoying.", Polarity: "-0.30", Sentiment: models.LABEL_NEGATIVE}, resp.Sentences[1])
}

func TestHandleAPIAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name   string
		scorer stubScorer
		body   string
		status int
		code   string
	}{
		{"blank text", mixedScorer(), `{"text":"   "}`, http.StatusUnprocessableEntity, "no_text"},
		{"missing text", mixedScorer(), `{}`, http.StatusUnprocessableEntity, "no_text"},
		{"no sentences", stubScorer{}, `{"text":"..."}`, http.StatusUnprocessableEntity, "no_sentences"},
		{"malformed json", mixedScorer(), `{"text":`, http.StatusBadRequest, "bad_request"},
		{"too long", mixedScorer(), `{"text":"` + strings.Repeat("a", 1001) + `"}`, http.StatusRequestEntityTooLarge, "text_too_long"},
		{"body over cap", mixedScorer(), `{"text":"` + strings.Repeat("I love it. ", 1000) + `"}`, http.StatusRequestEntityTooLarge, "text_too_long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.scorer)

			rec := ts.do(postJSON(tt.body))

			assert.Equal(t, tt.status, rec.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestHandleAPIAnalyze_ChunkedBodyOverCap(t *testing.T) {
	ts := newTestServer(t, mixedScorer())
	req := postJSON(`{"text":"` + strings.Repeat("I love it. ", 1000) + `"}`)
	req.ContentLength = -1

	rec := ts.do(req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "text_too_long", resp.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.AnalysesTotal.WithLabelValues(metrics.OUTCOME_TOO_LONG)))
}

func TestHandleChart(t *testing.T) {
	ts := newTestServer(t, mixedScorer())

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/chart.svg?positive=2&negative=1&neutral=0", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestHandleChart_BadParam(t *testing.T) {
	ts := newTestServer(t, mixedScorer())

	for _, q := range []string{"positive=-1", "negative=abc"} {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/chart.svg?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHealthLive(t *testing.T) {
	ts := newTestServer(t, mixedScorer())

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp livenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.WithinDuration(t, ts.startTime, resp.StartedAt, time.Second)
	assert.GreaterOrEqual(t, resp.UptimeSeconds, int64(0))
}

func TestHealthReady(t *testing.T) {
	ok := func(context.Context) error { return nil }

	tests := []struct {
		name   string
		checks []HealthCheck
		status int
		want   string
	}{
		{
			name:   "all present",
			checks: []HealthCheck{{Name: "punkt", Check: ok}},
			status: http.StatusOK,
			want:   `{"status":"ready","checked":["punkt"]}`,
		},
		{
			name:   "no checks",
			status: http.StatusOK,
			want:   `{"status":"ready","checked":[]}`,
		},
		{
			name: "every failure reported",
			checks: []HealthCheck{
				{Name: "punkt", Check: func(context.Context) error {
					return errors.New("punkt missing at data/punkt/english.json")
				}},
				{Name: "lexicon", Check: ok},
				{Name: "cache_dir", Check: func(context.Context) error { return errors.New("data not writable") }},
			},
			status: http.StatusServiceUnavailable,
			want: `{"status":"unavailable","checked":["punkt","lexicon","cache_dir"],` +
				`"failures":{"punkt":"punkt missing at data/punkt/english.json","cache_dir":"data not writable"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, mixedScorer(), tt.checks...)

			rec := ts.do(httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t, mixedScorer())
	ts.do(postForm("anything"))

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sentilyze_analyses_total")
}

package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/sentilyze/internal/charts"
	"github.com/spacesedan/sentilyze/internal/metrics"
	"github.com/spacesedan/sentilyze/internal/models"
	"github.com/spacesedan/sentilyze/internal/processing"
)

const (
	MESSAGE_NO_TEXT       = "Please enter some text to analyze."
	MESSAGE_NO_SENTENCES  = "No sentences were detected. Please enter some valid text."
	MESSAGE_DOWNLOADED    = "Downloaded necessary language data. This runs only once."
	MESSAGE_TEXT_TOO_LONG = "Text is too long to analyze. Please shorten it to at most %d bytes."
	TEXT_PLACEHOLDER      = "Example: I love this tool! It's so easy to use. But sometimes I get errors."
	INDEX_TEMPLATE        = "index.html"
)

type pageData struct {
	Text        string
	Placeholder string
	Warning     string
	Info        string
	Notice      string
	Result      *resultView
}

type resultView struct {
	Summary     models.AnalysisSummary
	Percentages models.Percentages
	Rows        []models.SentenceRow
	Chart       template.HTML
}

// newPage carries the download notice until someone completes an analysis, so a
// stray first visitor cannot swallow it.
func (s *Server) newPage(text string) pageData {
	page := pageData{Text: text, Placeholder: TEXT_PLACEHOLDER}
	if s.downloadNotice.Load() {
		page.Notice = MESSAGE_DOWNLOADED
	}
	return page
}

func (s *Server) handleIndex(c echo.Context) error {
	return s.renderPage(c, s.newPage(""))
}

func (s *Server) handleAnalyzeForm(c echo.Context) error {
	// FormValue would hide a body read error behind an empty string, and that must not
	// read as "no text provided".
	params, err := c.FormParams()
	if err != nil {
		if isBodyTooLarge(err) {
			return s.renderTextTooLong(c)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form body").SetInternal(err)
	}

	text := params.Get("text")
	if int64(len(text)) > s.maxTextBytes {
		return s.renderTextTooLong(c)
	}
	page := s.newPage(text)

	result, err := s.runAnalysis(text)
	switch {
	case errors.Is(err, processing.ErrNoText):
		page.Warning = MESSAGE_NO_TEXT
	case errors.Is(err, processing.ErrNoSentences):
		page.Info = MESSAGE_NO_SENTENCES
	case err != nil:
		return err
	default:
		view, err := buildResultView(result)
		if err != nil {
			return err
		}
		page.Result = view
		s.downloadNotice.Store(false)
	}

	return s.renderPage(c, page)
}

// renderTextTooLong answers an oversized submission. The text is not echoed back.
func (s *Server) renderTextTooLong(c echo.Context) error {
	s.recordTooLong(c)

	page := s.newPage("")
	page.Warning = fmt.Sprintf(MESSAGE_TEXT_TOO_LONG, s.maxTextBytes)
	return s.renderPage(c, page)
}

func (s *Server) recordTooLong(c echo.Context) {
	slog.Info("[Server] Rejected oversized submission",
		slog.String("path", c.Request().URL.Path),
		slog.Int64("content_length", c.Request().ContentLength),
		slog.Int64("max_text_bytes", s.maxTextBytes))
	if s.metrics != nil {
		s.metrics.RecordOutcome(metrics.OUTCOME_TOO_LONG)
	}
}

// runAnalysis wraps processing.Analyze with outcome metrics.
func (s *Server) runAnalysis(text string) (models.SentimentAnalysisResult, error) {
	result, err := processing.Analyze(s.scorer, text)
	if s.metrics != nil {
		switch {
		case errors.Is(err, processing.ErrNoText):
			s.metrics.RecordOutcome(metrics.OUTCOME_NO_TEXT)
		case errors.Is(err, processing.ErrNoSentences):
			s.metrics.RecordOutcome(metrics.OUTCOME_NO_SENTENCES)
		case err == nil:
			s.metrics.RecordSummary(result.Summary)
		}
	}
	return result, err
}

func buildResultView(result models.SentimentAnalysisResult) (*resultView, error) {
	pct, _ := processing.Percentages(result.Summary)

	svg, err := charts.RenderSentimentChart(result.Summary)
	if err != nil {
		slog.Error("[Server] Failed to render chart",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return &resultView{
		Summary:     result.Summary,
		Percentages: pct,
		Rows:        processing.ToRows(result.Sentences),
		// the chart is generated by us, never from user input
		Chart: template.HTML(inlineSVG(svg)),
	}, nil
}

// inlineSVG drops the XML prolog so the document can sit inside HTML.
func inlineSVG(svg []byte) []byte {
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		return svg[i:]
	}
	return svg
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/sentilyze/internal/charts"
	"github.com/spacesedan/sentilyze/internal/models"
	"github.com/spacesedan/sentilyze/internal/processing"
)

func (s *Server) registerAPIRoutes() {
	s.echo.POST("/api/analyze", s.handleAPIAnalyze,
		onBodyTooLarge(s.writeTextTooLong),
		bodyLimit(s.maxTextBytes, JSON_ENCODING_FACTOR))
	s.echo.GET("/chart.svg", s.handleChart)
}

func (s *Server) handleAPIAnalyze(c echo.Context) error {
	var req models.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		if isBodyTooLarge(err) {
			return s.writeTextTooLong(c)
		}
		return writeAPIError(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	if int64(len(req.Text)) > s.maxTextBytes {
		return s.writeTextTooLong(c)
	}

	result, err := s.runAnalysis(req.Text)
	switch {
	case errors.Is(err, processing.ErrNoText):
		return writeAPIError(c, http.StatusUnprocessableEntity, "no_text", MESSAGE_NO_TEXT)
	case errors.Is(err, processing.ErrNoSentences):
		return writeAPIError(c, http.StatusUnprocessableEntity, "no_sentences", MESSAGE_NO_SENTENCES)
	case err != nil:
		return err
	}

	pct, _ := processing.Percentages(result.Summary)
	resp := models.AnalyzeResponse{
		ID:          c.Response().Header().Get(echo.HeaderXRequestID),
		Summary:     result.Summary,
		Percentages: pct,
		Sentences:   processing.ToRows(result.Sentences),
	}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to write analyze response: %w", err)
	}
	return nil
}

func (s *Server) handleChart(c echo.Context) error {
	var summary models.AnalysisSummary
	counts := []struct {
		param string
		dest  *int
	}{
		{"positive", &summary.PositiveCount},
		{"negative", &summary.NegativeCount},
		{"neutral", &summary.NeutralCount},
	}

	for _, cnt := range counts {
		raw := c.QueryParam(cnt.param)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return writeAPIError(c, http.StatusBadRequest, "bad_request",
				fmt.Sprintf("%s must be a non-negative integer", cnt.param))
		}
		*cnt.dest = n
	}
	summary.Total = summary.PositiveCount + summary.NegativeCount + summary.NeutralCount

	svg, err := charts.RenderSentimentChart(summary)
	if err != nil {
		return err
	}
	if err := c.Blob(http.StatusOK, "image/svg+xml", svg); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

func (s *Server) writeTextTooLong(c echo.Context) error {
	s.recordTooLong(c)
	return writeAPIError(c, http.StatusRequestEntityTooLarge, "text_too_long",
		fmt.Sprintf("text exceeds %d bytes", s.maxTextBytes))
}

func writeAPIError(c echo.Context, status int, code, message string) error {
	if err := c.JSON(status, models.ErrorResponse{Error: message, Code: code}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

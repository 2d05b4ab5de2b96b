package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"

	"github.com/spacesedan/sentilyze/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

const (
	CHART_TITLE   = "Sentiment Analysis Results"
	CHART_Y_LABEL = "Number of Sentences"
	CHART_WIDTH   = 7 * vg.Inch
	CHART_HEIGHT  = 5 * vg.Inch
)

type bar struct {
	label models.SentimentLabel
	value int
	color color.Color
}

var (
	COLOR_POSITIVE = color.RGBA{R: 0x28, G: 0xa7, B: 0x45, A: 0xff}
	COLOR_NEGATIVE = color.RGBA{R: 0xdc, G: 0x35, B: 0x45, A: 0xff}
	COLOR_NEUTRAL  = color.RGBA{R: 0x6c, G: 0x75, B: 0x7d, A: 0xff}
)

// RenderSentimentChart draws the three-bar distribution as an SVG document.
func RenderSentimentChart(summary models.AnalysisSummary) ([]byte, error) {
	p, err := buildPlot(summary)
	if err != nil {
		return nil, err
	}

	canvas := vgsvg.NewWith(vgsvg.UseWH(CHART_WIDTH, CHART_HEIGHT), vgsvg.EmbedFonts(false))
	p.Draw(draw.New(canvas))

	var buf bytes.Buffer
	if _, err := canvas.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write chart: %w", err)
	}
	return buf.Bytes(), nil
}

func buildPlot(summary models.AnalysisSummary) (*plot.Plot, error) {
	bars := []bar{
		{models.LABEL_POSITIVE, summary.PositiveCount, COLOR_POSITIVE},
		{models.LABEL_NEGATIVE, summary.NegativeCount, COLOR_NEGATIVE},
		{models.LABEL_NEUTRAL, summary.NeutralCount, COLOR_NEUTRAL},
	}

	p := plot.New()
	p.Title.Text = CHART_TITLE
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = CHART_Y_LABEL
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Horizontal.Color = color.Gray{Y: 0xb3}
	p.Add(grid)

	names := make([]string, 0, len(bars))
	labelPoints := make(plotter.XYs, 0, len(bars))
	labelText := make([]string, 0, len(bars))
	maxValue := 0

	for i, b := range bars {
		chart, err := plotter.NewBarChart(plotter.Values{float64(b.value)}, vg.Points(80))
		if err != nil {
			return nil, fmt.Errorf("failed to build %s bar: %w", b.label, err)
		}
		chart.Color = b.color
		chart.LineStyle.Width = 0
		chart.XMin = float64(i)
		p.Add(chart)

		names = append(names, string(b.label))
		labelPoints = append(labelPoints, plotter.XY{X: float64(i), Y: float64(b.value)})
		labelText = append(labelText, strconv.Itoa(b.value))
		if b.value > maxValue {
			maxValue = b.value
		}
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelPoints, Labels: labelText})
	if err != nil {
		return nil, fmt.Errorf("failed to build bar labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YBottom
	}
	labels.Offset = vg.Point{Y: vg.Points(3)}
	p.Add(labels)

	p.NominalX(names...)
	p.Y.Min = 0
	// headroom for the count labels
	p.Y.Max = float64(maxValue)*1.15 + 1

	return p, nil
}

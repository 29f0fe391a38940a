// Package report renders history as a PNG latency chart.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/errors"
)

// Chart dimensions in pixels.
const (
	Width  = 1200
	Height = 400
)

// movingAveragePeriod is the SMA window, drawn once there are more points
// than this.
const movingAveragePeriod = 10

// Options tweak the chart.
type Options struct {
	Title string
}

// Series splits points into the x/y values the chart plots. Points without
// a timestamp are dropped. Latency follows the same live-ping-first rule as
// the dashboard.
func Series(points []backend.HistoryDataPoint) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Timestamp.IsZero() {
			continue
		}
		xs = append(xs, p.Timestamp.Time)
		ys = append(ys, p.Latency())
	}
	return xs, ys
}

// Render writes a latency PNG for points to w. It needs at least two
// timestamped points.
func Render(w io.Writer, points []backend.HistoryDataPoint, opts Options) error {
	xs, ys := Series(points)
	if len(xs) < 2 {
		return errors.New(errors.ErrArchive,
			fmt.Sprintf("Not enough history to chart (%d point(s), need 2)", len(xs)),
			"Let monitoring run for a bit, or chart the archive with --from-archive")
	}

	title := opts.Title
	if title == "" {
		title = "Network Latency"
	}

	latency := chart.TimeSeries{
		Name: "Latency",
		Style: chart.Style{
			StrokeColor: chart.GetDefaultColor(0),
			StrokeWidth: 2,
		},
		XValues: xs,
		YValues: ys,
	}

	graph := chart.Chart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:  Width,
		Height: Height,
		XAxis: chart.XAxis{
			Name:           "Time",
			NameStyle:      chart.Style{FontSize: 12},
			Style:          chart.Style{StrokeColor: drawing.ColorBlack, FontSize: 10},
			ValueFormatter: chart.TimeMinuteValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:      "Latency (ms)",
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{StrokeColor: drawing.ColorBlack, FontSize: 10},
			GridMajorStyle: chart.Style{
				StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
				StrokeWidth: 1.0,
			},
		},
		Series: []chart.Series{latency},
	}

	if len(ys) > movingAveragePeriod {
		graph.Series = append(graph.Series, chart.SMASeries{
			Name: "Moving Avg",
			Style: chart.Style{
				StrokeColor:     chart.GetDefaultColor(1),
				StrokeWidth:     2,
				StrokeDashArray: []float64{5, 5},
			},
			InnerSeries: latency,
			Period:      movingAveragePeriod,
		})
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return errors.WrapWithCode(err, errors.ErrArchive, "Couldn't render the latency chart", "")
	}
	return nil
}

// WriteFile renders the chart to path, creating parent directories.
func WriteFile(path string, points []backend.HistoryDataPoint, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrArchive,
			"Couldn't create "+filepath.Dir(path), "Check directory permissions")
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrArchive,
			"Couldn't create "+path, "Check file permissions")
	}

	if err := Render(file, points, opts); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}

package export

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"residents/internal/models"
)

// Chart file names written by WriteCharts.
const (
	ChartTrends       = "population_trends.png"
	ChartGenderRatios = "gender_ratios.png"
	ChartGrowth       = "growth_rate.png"
)

var palette = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
}

// WriteCharts renders the trend, gender-ratio and growth charts as PNGs in dir
// and returns the paths written.
func WriteCharts(data *models.DashboardData, dir string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}

	charts := []struct {
		name string
		plot func() (*plot.Plot, error)
	}{
		{ChartTrends, func() (*plot.Plot, error) { return trendChart(data.Trends) }},
		{ChartGenderRatios, func() (*plot.Plot, error) { return genderRatioChart(data.GenderRatios) }},
		{ChartGrowth, func() (*plot.Plot, error) { return growthChart(data.Growth) }},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		p, err := c.plot()
		if err != nil {
			return paths, fmt.Errorf("build %s: %w", c.name, err)
		}
		path := filepath.Join(dir, c.name)
		if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
			return paths, fmt.Errorf("save %s: %w", path, err)
		}
		logger.Debug("chart written", "path", path)
		paths = append(paths, path)
	}
	logger.Info("charts written", "dir", dir, "count", len(paths))
	return paths, nil
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, name string, pts plotter.XYs, c color.Color) error {
	if len(pts) == 0 {
		return nil
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	line.Color = c
	line.Width = vg.Points(2)
	points.Color = c
	points.Radius = vg.Points(2)
	p.Add(line, points)
	p.Legend.Add(name, line)
	return nil
}

func seriesXYs(pts []models.SeriesPoint) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i].X = float64(pt.Year)
		xys[i].Y = float64(pt.Count)
	}
	return xys
}

func trendChart(tr models.Trends) (*plot.Plot, error) {
	p := newPlot("Singapore Residents", "Year", "Residents")
	lines := []struct {
		name string
		pts  []models.SeriesPoint
	}{
		{"Total", tr.Total},
		{"Male", tr.Male},
		{"Female", tr.Female},
	}
	for i, l := range lines {
		if err := addLine(p, l.name, seriesXYs(l.pts), palette[i]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func genderRatioChart(ratios []models.EthnicRatio) (*plot.Plot, error) {
	p := newPlot("Female to Male Ratio by Ethnic Group", "Year", "Female / Male")
	for i, er := range ratios {
		// undefined ratios are left out of the line
		xys := make(plotter.XYs, 0, len(er.Rows))
		for _, r := range er.Rows {
			if r.Ratio == nil {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(r.Year), Y: *r.Ratio})
		}
		if err := addLine(p, er.Group, xys, palette[i%len(palette)]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func growthChart(g models.Growth) (*plot.Plot, error) {
	p := newPlot("Annual Growth Rate: "+g.Category, "Year", "Growth (%)")

	values := make(plotter.Values, 0, len(g.Rows))
	labels := make([]string, 0, len(g.Rows))
	for _, r := range g.Rows {
		if r.GrowthRate == nil {
			continue
		}
		values = append(values, *r.GrowthRate)
		labels = append(labels, strconv.Itoa(r.Year))
	}
	if len(values) == 0 {
		return p, nil
	}

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return nil, err
	}
	bars.Color = palette[0]
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

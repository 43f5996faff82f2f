// Package charts renders the two dashboard bar charts as PNG files in
// a publicly served static directory. Filenames carry a Unix timestamp
// and, in multi-tenant mode, the owning account, so browsers never see
// a stale cached image and accounts never collide on a filename.
package charts

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"financas/internal/core"
	"financas/internal/report"
)

var (
	expenseColor = drawing.ColorFromHex("d9534f")
	incomeColor  = drawing.ColorFromHex("5cb85c")
)

// Renderer writes chart images under dir and returns URLs below urlPrefix.
type Renderer struct {
	dir       string
	urlPrefix string
	now       func() time.Time
}

func NewRenderer(dir, urlPrefix string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}
	return &Renderer{dir: dir, urlPrefix: urlPrefix, now: time.Now}, nil
}

// RenderCategoryChart draws the spend-by-category chart. An empty
// aggregate draws nothing and returns an empty URL.
func (r *Renderer) RenderCategoryChart(spend []report.CategoryTotal, owner string) (string, error) {
	if len(spend) == 0 {
		return "", nil
	}

	bars := make([]chart.Value, 0, len(spend))
	var max float64
	for _, ct := range spend {
		v := ct.Total.InexactFloat64()
		if v > max {
			max = v
		}
		bars = append(bars, chart.Value{
			Label: ct.Key,
			Value: v,
			Style: barStyle(expenseColor),
		})
	}

	return r.render("gastos_categoria", owner, barChart("Gastos por Categoria", bars, max))
}

// RenderMonthlyChart draws the income-vs-expense chart, one bar per
// (month, kind) pair in table order.
func (r *Renderer) RenderMonthlyChart(flows []report.MonthFlow, owner string) (string, error) {
	if len(flows) == 0 {
		return "", nil
	}

	bars := make([]chart.Value, 0, len(flows))
	var max float64
	for _, f := range flows {
		v := f.Total.InexactFloat64()
		if v > max {
			max = v
		}
		color := expenseColor
		if f.Kind == core.Income {
			color = incomeColor
		}
		bars = append(bars, chart.Value{
			Label: f.Month + " " + string(f.Kind),
			Value: v,
			Style: barStyle(color),
		})
	}

	return r.render("entradas_saidas", owner, barChart("Entradas vs. Saídas por Mês", bars, max))
}

// CleanStale removes every previously generated chart image. Called at
// startup in dev mode only, matching the original local-run behavior;
// in other modes old images simply accumulate.
func (r *Renderer) CleanStale() {
	matches, err := filepath.Glob(filepath.Join(r.dir, "*.png"))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			slog.Warn("Failed removing stale chart", "path", m, "error", err)
		}
	}
}

func (r *Renderer) render(prefix, owner string, graph chart.BarChart) (string, error) {
	name := fmt.Sprintf("%s_%d.png", prefix, r.now().Unix())
	if owner != "" {
		name = fmt.Sprintf("%s_%s_%d.png", prefix, sanitize(owner), r.now().Unix())
	}

	f, err := os.Create(filepath.Join(r.dir, name))
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("render chart %s: %w", name, err)
	}
	return path.Join(r.urlPrefix, name), nil
}

func barChart(title string, bars []chart.Value, max float64) chart.BarChart {
	if max <= 0 {
		max = 1 // keep the axis range valid when every bar is zero
	}
	return chart.BarChart{
		Title:    title,
		Width:    1024,
		Height:   512,
		BarWidth: 50,
		Background: chart.Style{
			Padding: chart.Box{Top: 48},
		},
		XAxis: chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  "Valor (R$)",
			Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1},
		},
		Bars: bars,
	}
}

func barStyle(color drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   color,
		StrokeColor: color,
		StrokeWidth: 0,
	}
}

// sanitize keeps owner identifiers filesystem- and URL-safe.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, s)
}

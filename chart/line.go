package chart

import (
	"fmt"
	"math"
	"sort"
	"time"

	"bankroll/models"

	"github.com/fogleman/gg"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// Point is one value of a series at a date
type Point struct {
	Date   models.Date
	Value  float64
	Marker bool // Draw a dot; used for sessions the player actually sat in
}

// Series is a named line
type Series struct {
	Name   string
	Color  RGB
	Points []Point
}

// LineStyle defines the layout of line charts
type LineStyle struct {
	Width        int
	Height       int
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
	GridLines    int
	MaxXLabels   int
}

// LineChartRenderer draws cumulative line charts
type LineChartRenderer struct {
	style LineStyle
}

// NewLineChartRenderer creates a renderer with the default style
func NewLineChartRenderer() *LineChartRenderer {
	return &LineChartRenderer{
		style: LineStyle{
			Width:        800,
			Height:       420,
			MarginLeft:   80,
			MarginRight:  20,
			MarginTop:    50,
			MarginBottom: 70,
			GridLines:    5,
			MaxXLabels:   8,
		},
	}
}

// MoneyOnTable charts each session's buy-in volume
func (r *LineChartRenderer) MoneyOnTable(points []*models.BankrollPoint) ([]byte, error) {
	s := Series{Name: "Money on the table", Color: SeriesColor(0)}
	for _, p := range points {
		s.Points = append(s.Points, Point{
			Date:   p.Date,
			Value:  p.Cumulative.InexactFloat64(),
			Marker: true,
		})
	}
	return r.render("Money on the Table", []Series{s}, false)
}

// PlayerComparison charts cumulative profit per player. Dots mark sessions the player played.
func (r *LineChartRenderer) PlayerComparison(players []*models.PlayerSeries, title string) ([]byte, error) {
	series := make([]Series, 0, len(players))
	for i, p := range players {
		s := Series{
			Name:  fmt.Sprintf("%s (%s)", truncate(p.Name, 14), models.FormatSignedMoney(p.Final)),
			Color: SeriesColor(i),
		}
		for _, pt := range p.Points {
			s.Points = append(s.Points, Point{
				Date:   pt.Date,
				Value:  pt.Cumulative.InexactFloat64(),
				Marker: pt.HasParticipation,
			})
		}
		series = append(series, s)
	}
	return r.render(title, series, true)
}

func (r *LineChartRenderer) render(title string, series []Series, zeroLine bool) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("series_count", len(series)).
			Debug("Line chart generation completed")
	}()

	st := r.style
	dc := gg.NewContext(st.Width, st.Height)
	drawBackground(dc, st.Width, st.Height)

	face, err := loadFont(gomono.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	titleFace, err := loadFont(gobold.TTF, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	setColor(dc, colorText)
	dc.SetFontFace(titleFace)
	drawSharpText(dc, title, st.MarginLeft, 30)
	dc.SetFontFace(face)

	dates := collectDates(series)
	if len(dates) == 0 {
		setColor(dc, colorMuted)
		dc.DrawStringAnchored("No sessions in range", float64(st.Width)/2, float64(st.Height)/2, 0.5, 0.5)
		return encodePNG(dc)
	}

	index := make(map[models.Date]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	minY, maxY := valueBounds(series, zeroLine)

	plotW := float64(st.Width) - st.MarginLeft - st.MarginRight
	plotH := float64(st.Height) - st.MarginTop - st.MarginBottom
	xOf := func(i int) float64 {
		if len(dates) == 1 {
			return st.MarginLeft + plotW/2
		}
		return st.MarginLeft + plotW*float64(i)/float64(len(dates)-1)
	}
	yOf := func(v float64) float64 {
		return st.MarginTop + plotH*(maxY-v)/(maxY-minY)
	}

	// horizontal grid with value labels
	dc.SetLineWidth(1)
	for i := 0; i <= st.GridLines; i++ {
		v := minY + (maxY-minY)*float64(i)/float64(st.GridLines)
		y := yOf(v)
		dc.SetRGBA(0.6, 0.6, 0.7, 0.15)
		dc.DrawLine(st.MarginLeft, y, st.MarginLeft+plotW, y)
		dc.Stroke()

		setColor(dc, colorMuted)
		dc.DrawStringAnchored(shortMoney(v), st.MarginLeft-8, y, 1, 0.35)
	}

	if zeroLine && minY < 0 && maxY > 0 {
		dc.SetRGBA(0.9, 0.9, 0.95, 0.5)
		dc.SetDash(4, 4)
		dc.DrawLine(st.MarginLeft, yOf(0), st.MarginLeft+plotW, yOf(0))
		dc.Stroke()
		dc.SetDash()
	}

	// date labels, thinned to MaxXLabels
	step := 1
	if len(dates) > st.MaxXLabels {
		step = int(math.Ceil(float64(len(dates)) / float64(st.MaxXLabels)))
	}
	setColor(dc, colorMuted)
	for i := 0; i < len(dates); i += step {
		dc.DrawStringAnchored(shortDate(dates[i]), xOf(i), st.MarginTop+plotH+16, 0.5, 0.5)
	}

	for _, s := range series {
		dc.SetRGB(s.Color[0], s.Color[1], s.Color[2])
		dc.SetLineWidth(2)
		for i, p := range s.Points {
			x, y := xOf(index[p.Date]), yOf(p.Value)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()

		for _, p := range s.Points {
			if p.Marker {
				dc.DrawCircle(xOf(index[p.Date]), yOf(p.Value), 3)
				dc.Fill()
			}
		}
	}

	drawLegend(dc, series, st.MarginLeft, float64(st.Height)-22)

	return encodePNG(dc)
}

func drawLegend(dc *gg.Context, series []Series, x, y float64) {
	for _, s := range series {
		dc.SetRGB(s.Color[0], s.Color[1], s.Color[2])
		dc.DrawRectangle(x, y-6, 10, 10)
		dc.Fill()

		setColor(dc, colorText)
		dc.DrawString(s.Name, x+14, y+3)
		w, _ := dc.MeasureString(s.Name)
		x += w + 34
	}
}

// collectDates returns the sorted union of dates across series
func collectDates(series []Series) []models.Date {
	seen := make(map[models.Date]bool)
	var dates []models.Date
	for _, s := range series {
		for _, p := range s.Points {
			if !seen[p.Date] {
				seen[p.Date] = true
				dates = append(dates, p.Date)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}

// valueBounds returns a padded, non-empty y range
func valueBounds(series []Series, includeZero bool) (float64, float64) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			minY = math.Min(minY, p.Value)
			maxY = math.Max(maxY, p.Value)
		}
	}
	if includeZero {
		minY = math.Min(minY, 0)
		maxY = math.Max(maxY, 0)
	}
	if minY == maxY {
		return minY - 1, maxY + 1
	}
	pad := (maxY - minY) * 0.08
	return minY - pad, maxY + pad
}

func shortDate(d models.Date) string {
	t, err := d.Time()
	if err != nil {
		return d.String()
	}
	return t.Format("Jan 02")
}

// shortMoney renders axis labels like $1.2k or -$350
func shortMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.1fk", sign, v/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}

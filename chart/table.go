package chart

import (
	"fmt"
	"strings"
	"time"

	"bankroll/models"

	"github.com/fogleman/gg"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// TableColumn defines a column in the leaderboard table
type TableColumn struct {
	Header    string
	XPosition int
	Color     RGB
	Signed    bool // Colored green/red by the cell's sign
}

// TableRow represents a single row of data
type TableRow struct {
	Rank int
	Data []string
}

// TableStyle defines the visual style of the table
type TableStyle struct {
	Width     int
	MinHeight int
	Padding   int
	RowHeight int
	Podium    [3][4]float64 // RGBA highlights for the top three rows
}

// TableRenderer draws leaderboard tables
type TableRenderer struct {
	style TableStyle
}

// NewTableRenderer creates a renderer with the default style
func NewTableRenderer() *TableRenderer {
	return &TableRenderer{
		style: TableStyle{
			Width:     460,
			MinHeight: 120,
			Padding:   15,
			RowHeight: 26,
			Podium: [3][4]float64{
				{1, 0.84, 0, 0.1},
				{0.8, 0.8, 0.8, 0.08},
				{0.8, 0.5, 0.2, 0.06},
			},
		},
	}
}

// Leaderboard renders the ranked leaderboard. Entries are drawn in the order given.
func (r *TableRenderer) Leaderboard(entries []*models.LeaderboardEntry, title string) ([]byte, error) {
	p := r.style.Padding
	columns := []TableColumn{
		{Header: "#", XPosition: p, Color: RGB{0.85, 0.85, 0.9}},
		{Header: "Player", XPosition: p + 30, Color: RGB{1, 1, 1}},
		{Header: "Profit", XPosition: p + 170, Color: RGB{1, 1, 1}, Signed: true},
		{Header: "Win%", XPosition: p + 290, Color: RGB{0.85, 0.85, 1.0}},
		{Header: "Played", XPosition: p + 370, Color: RGB{0.85, 1.0, 0.85}},
	}

	rows := make([]TableRow, len(entries))
	for i, e := range entries {
		rows[i] = TableRow{
			Rank: e.Rank,
			Data: []string{
				fmt.Sprintf("%d", e.Rank),
				truncate(e.Name, 14),
				models.FormatSignedMoney(e.TotalProfit),
				fmt.Sprintf("%.1f%%", e.WinRate),
				fmt.Sprintf("%d/%d", e.WinningSessions, e.SessionsPlayed),
			},
		}
	}

	return r.render(title, columns, rows)
}

func (r *TableRenderer) render(title string, columns []TableColumn, rows []TableRow) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("row_count", len(rows)).
			Debug("Table image generation completed")
	}()

	// title + header + rows + bottom padding
	height := 30 + 25 + 30 + len(rows)*r.style.RowHeight + 15
	if len(rows) == 0 {
		height += r.style.RowHeight
	}
	if height < r.style.MinHeight {
		height = r.style.MinHeight
	}

	dc := gg.NewContext(r.style.Width, height)
	dc.SetFillRule(gg.FillRuleWinding)
	drawBackground(dc, r.style.Width, height)

	face, err := loadFont(gomono.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	titleFace, err := loadFont(gobold.TTF, 14)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	setColor(dc, colorText)
	dc.SetFontFace(titleFace)
	drawSharpText(dc, title, float64(r.style.Padding), 22)

	dc.SetFontFace(face)
	y := float64(55)

	dc.SetRGBA(0.3, 0.3, 0.4, 0.4)
	dc.DrawRectangle(0, y-15, float64(r.style.Width), 20)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	for _, col := range columns {
		drawSharpText(dc, col.Header, float64(col.XPosition), y)
	}

	dc.SetRGBA(0.6, 0.6, 0.7, 0.7)
	dc.SetLineWidth(1)
	dc.DrawLine(0, y+8, float64(r.style.Width), y+8)
	dc.Stroke()

	y += 30
	if len(rows) == 0 {
		setColor(dc, colorMuted)
		dc.DrawStringAnchored("No sessions in range", float64(r.style.Width)/2, y-4, 0.5, 0.5)
	}

	for i, row := range rows {
		if i < len(r.style.Podium) {
			c := r.style.Podium[i]
			dc.SetRGBA(c[0], c[1], c[2], c[3])
		} else {
			dc.SetRGBA(0.5, 0.5, 0.6, 0.02)
		}
		dc.DrawRectangle(0, y-15, float64(r.style.Width), float64(r.style.RowHeight))
		dc.Fill()

		for j := 0; j < len(columns) && j < len(row.Data); j++ {
			col := columns[j]
			switch {
			case col.Signed:
				setColor(dc, signColor(row.Data[j]))
			default:
				setColor(dc, col.Color)
			}
			drawSharpText(dc, row.Data[j], float64(col.XPosition), y)
		}

		y += float64(r.style.RowHeight)
	}

	return encodePNG(dc)
}

func signColor(s string) RGB {
	switch {
	case strings.HasPrefix(s, "+"):
		return colorProfit
	case strings.HasPrefix(s, "-"):
		return colorLoss
	default:
		return colorBreakEven
	}
}

package common

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Embed colors
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorNeutral = 0x95A5A6
)

// RankLabel returns a medal for the podium and #N otherwise
func RankLabel(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("#%d", rank)
	}
}

// ProfitColor picks green for winners, red for losers
func ProfitColor(profit decimal.Decimal) int {
	switch profit.Sign() {
	case 1:
		return ColorSuccess
	case -1:
		return ColorDanger
	default:
		return ColorNeutral
	}
}

// FormatWinRate renders a 0-100 percentage with one decimal
func FormatWinRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// Truncate shortens s to max runes, ending with an ellipsis
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

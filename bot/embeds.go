package bot

import (
	"fmt"
	"strings"
	"time"

	"bankroll/bot/common"
	"bankroll/models"
	"bankroll/stats"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

const (
	leaderboardRows   = 10
	recentResultLimit = 5
	nameWidth         = 16
)

var sortLabels = map[stats.SortKey]string{
	stats.SortByProfit:   "total profit",
	stats.SortByWinRate:  "win rate",
	stats.SortBySessions: "sessions played",
}

func rangeLabel(preset string) string {
	switch stats.RangePreset(preset) {
	case stats.Range7Days:
		return "Last 7 days"
	case stats.Range30Days:
		return "Last 30 days"
	case stats.Range90Days:
		return "Last 90 days"
	default:
		return "All time"
	}
}

// buildLeaderboardEmbed renders the top entries as a monospace table
func buildLeaderboardEmbed(entries []*models.LeaderboardEntry, preset string, key stats.SortKey) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🏆 Bankroll Leaderboard",
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s · ranked by %s", rangeLabel(preset), sortLabels[key]),
		},
	}

	if len(entries) == 0 {
		embed.Description = "No sessions recorded in this range."
		return embed
	}

	var table strings.Builder
	table.WriteString("```\n")
	table.WriteString(fmt.Sprintf("%-4s %-*s %12s %4s %6s\n", "", nameWidth, "Player", "Profit", "Sess", "Win%"))
	table.WriteString(strings.Repeat("-", 46) + "\n")

	for i, entry := range entries {
		if i == leaderboardRows {
			break
		}
		table.WriteString(fmt.Sprintf("%-4s %-*s %12s %4d %6s\n",
			common.RankLabel(entry.Rank),
			nameWidth, common.Truncate(entry.Name, nameWidth),
			models.FormatSignedMoney(entry.TotalProfit),
			entry.SessionsPlayed,
			common.FormatWinRate(entry.WinRate)))
	}
	table.WriteString("```")

	embed.Description = table.String()
	return embed
}

// buildPlayerEmbed summarizes a player's record and most recent results
func buildPlayerEmbed(ps *models.PlayerStats) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("📊 %s", ps.Player.DisplayName()),
		Color:     common.ProfitColor(ps.TotalProfit),
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💰 Total Profit", Value: models.FormatSignedMoney(ps.TotalProfit), Inline: true},
			{Name: "🃏 Sessions", Value: fmt.Sprintf("%d played, %d won", ps.SessionsPlayed, ps.WinningSessions), Inline: true},
			{Name: "🎯 Win Rate", Value: common.FormatWinRate(ps.WinRate), Inline: true},
		},
	}

	if ps.Player.Nickname != nil && *ps.Player.Nickname != "" {
		embed.Description = ps.Player.Name
	}

	if ps.BestWin != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "📈 Best Win", Value: models.FormatSignedMoney(*ps.BestWin), Inline: true})
	}
	if ps.WorstLoss != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "📉 Worst Loss", Value: models.FormatSignedMoney(*ps.WorstLoss), Inline: true})
	}
	if ps.AverageProfit != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "➗ Average", Value: models.FormatSignedMoney(*ps.AverageProfit), Inline: true})
	}

	if len(ps.History) > 0 {
		var lines []string
		for i := len(ps.History) - 1; i >= 0 && len(lines) < recentResultLimit; i-- {
			h := ps.History[i]
			lines = append(lines, fmt.Sprintf("`%s` %s **%s**", h.Date.Display(), h.Location, models.FormatSignedMoney(h.Net)))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🕑 Recent Sessions",
			Value: strings.Join(lines, "\n"),
		})
	}

	return embed
}

// buildSessionEmbed lists every seat in a session with its settlement totals
func buildSessionEmbed(ss *models.SessionStats) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🃏 %s · %s", ss.Session.Location, ss.Session.Date.Display()),
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: string(ss.Session.Status)},
	}

	if len(ss.Transactions) == 0 {
		embed.Description = "No players yet."
	} else {
		var lines []string
		for _, row := range ss.Transactions {
			lines = append(lines, fmt.Sprintf("**%s** %s → %s (%s)",
				row.PlayerName,
				models.FormatMoney(row.BuyIn),
				models.FormatMoney(row.CashOut),
				models.FormatSignedMoney(row.CashOut.Sub(row.BuyIn))))
		}
		embed.Description = strings.Join(lines, "\n")
	}

	balance := "✅ Balanced"
	if !ss.Balanced {
		balance = fmt.Sprintf("⚠️ Off by %s", models.FormatMoney(ss.TableProfit.Abs()))
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Buy-ins", Value: models.FormatMoney(ss.TotalBuyIns), Inline: true},
		{Name: "Cash-outs", Value: models.FormatMoney(ss.TotalCashOuts), Inline: true},
		{Name: "Books", Value: balance, Inline: true},
	}
	if ss.Hourly != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Duration",
			Value:  fmt.Sprintf("%s h", ss.Session.DurationHours.StringFixed(1)),
			Inline: true,
		})
	}

	return embed
}

// buildCompletionEmbed announces a settled session and its biggest winner
func buildCompletionEmbed(ss *models.SessionStats) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "✅ Session complete",
		Color:     common.ColorSuccess,
		Timestamp: time.Now().Format(time.RFC3339),
		Description: fmt.Sprintf("**%s** on %s settled with %s on the table across %d players.",
			ss.Session.Location, ss.Session.Date.Display(),
			models.FormatMoney(ss.TotalBuyIns), len(ss.Transactions)),
	}

	if top := stats.LatestTopEarner([]*models.Session{ss.Session}, ss.Transactions); top != nil && top.NetProfit.IsPositive() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "👑 Top earner",
			Value: fmt.Sprintf("%s %s", top.Name, models.FormatSignedMoney(top.NetProfit)),
		})
	}

	return embed
}

// historySeries turns a player's dated results into a chartable series
func historySeries(ps *models.PlayerStats) *models.PlayerSeries {
	series := &models.PlayerSeries{
		PlayerID: ps.Player.ID,
		Name:     ps.Player.DisplayName(),
		Final:    decimal.Zero,
	}
	for _, h := range ps.History {
		series.Points = append(series.Points, &models.PlayerSeriesPoint{
			Date:             h.Date,
			Net:              h.Net,
			Cumulative:       h.Cumulative,
			HasParticipation: true,
		})
		series.Final = h.Cumulative
	}
	return series
}

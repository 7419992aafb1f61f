package cmd

import (
	"context"
	"fmt"

	"bankroll/database"
	"bankroll/events"
	"bankroll/models"
	"bankroll/repository"
	"bankroll/service"
	"bankroll/stats"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var leaderboardFlags struct {
	rangePreset string
	from        string
	to          string
	sort        string
	dir         string
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the leaderboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLeaderboard(cmd.Context())
	},
}

func init() {
	f := leaderboardCmd.Flags()
	f.StringVar(&leaderboardFlags.rangePreset, "range", "all", "all, 7d, 30d or 90d")
	f.StringVar(&leaderboardFlags.from, "from", "", "first date to include (YYYY-MM-DD)")
	f.StringVar(&leaderboardFlags.to, "to", "", "last date to include (YYYY-MM-DD)")
	f.StringVar(&leaderboardFlags.sort, "sort", "profit", "profit, winRate or sessions")
	f.StringVar(&leaderboardFlags.dir, "dir", "desc", "desc or asc")
}

func runLeaderboard(ctx context.Context) error {
	clock, err := stats.NewTimezoneClock(cfg.Timezone)
	if err != nil {
		return err
	}

	dateRange, err := stats.ResolveRange(leaderboardFlags.rangePreset, leaderboardFlags.from, leaderboardFlags.to, clock)
	if err != nil {
		return err
	}

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	statsService := service.NewStatsService(repository.NewUnitOfWorkFactory(db, events.NewBus()))
	entries, err := statsService.GetLeaderboard(ctx, service.LeaderboardQuery{
		Range:     dateRange,
		SortKey:   stats.ParseSortKey(leaderboardFlags.sort),
		Direction: stats.ParseSortDirection(leaderboardFlags.dir),
	})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		pterm.Info.Println("No sessions recorded in this range")
		return nil
	}

	return pterm.DefaultTable.WithHasHeader().WithRightAlignment().WithData(leaderboardTable(entries)).Render()
}

func leaderboardTable(entries []*models.LeaderboardEntry) pterm.TableData {
	data := pterm.TableData{{"#", "Player", "Profit", "Sessions", "Wins", "Win %"}}
	for _, e := range entries {
		profit := models.FormatSignedMoney(e.TotalProfit)
		switch e.TotalProfit.Sign() {
		case 1:
			profit = pterm.Green(profit)
		case -1:
			profit = pterm.Red(profit)
		}
		data = append(data, []string{
			fmt.Sprint(e.Rank),
			e.Name,
			profit,
			fmt.Sprint(e.SessionsPlayed),
			fmt.Sprint(e.WinningSessions),
			fmt.Sprintf("%.1f", e.WinRate),
		})
	}
	return data
}

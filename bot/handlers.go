package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bankroll/bot/common"
	"bankroll/models"
	"bankroll/service"
	"bankroll/stats"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (b *Bot) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	preset := optionString(options, "range")
	key := stats.ParseSortKey(optionString(options, "sort"))

	dateRange, err := stats.ResolveRange(preset, "", "", b.clock)
	if err != nil {
		common.RespondWithError(s, i, "Unknown range.")
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Error deferring leaderboard response")
		return
	}

	ctx := context.Background()
	entries, err := b.statsService.GetLeaderboard(ctx, service.LeaderboardQuery{
		Range:     dateRange,
		SortKey:   key,
		Direction: stats.SortDesc,
	})
	if err != nil {
		log.WithError(err).Error("Error getting leaderboard")
		common.FollowUpWithError(s, i, "Unable to retrieve the leaderboard. Please try again.")
		return
	}

	embed := buildLeaderboardEmbed(entries, preset, key)
	if len(entries) == 0 {
		common.FollowUpWithEmbed(s, i, embed)
		return
	}

	shown := entries
	if len(shown) > leaderboardRows {
		shown = shown[:leaderboardRows]
	}
	png, err := b.tables.Leaderboard(shown, rangeLabel(preset))
	if err != nil {
		log.WithError(err).Warn("Failed to render leaderboard image")
		common.FollowUpWithEmbed(s, i, embed)
		return
	}

	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://leaderboard.png"}
	common.FollowUpWithEmbed(s, i, embed, common.PNGFile("leaderboard.png", png))
}

func (b *Bot) handlePlayer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := strings.TrimSpace(optionString(i.ApplicationCommandData().Options, "name"))
	if name == "" {
		common.RespondWithError(s, i, "Please give a player name.")
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Error deferring player response")
		return
	}

	ctx := context.Background()
	player, err := b.findPlayer(ctx, name)
	if err != nil {
		log.WithError(err).Error("Error looking up player")
		common.FollowUpWithError(s, i, "Unable to look up players. Please try again.")
		return
	}
	if player == nil {
		common.FollowUpWithError(s, i, fmt.Sprintf("No player named %q.", name))
		return
	}

	ps, err := b.statsService.GetPlayerStats(ctx, player.ID)
	if err != nil {
		log.WithError(err).WithField("playerID", player.ID).Error("Error getting player stats")
		common.FollowUpWithError(s, i, "Unable to retrieve player stats. Please try again.")
		return
	}

	embed := buildPlayerEmbed(ps)
	if len(ps.History) < 2 {
		common.FollowUpWithEmbed(s, i, embed)
		return
	}

	png, err := b.lines.PlayerComparison([]*models.PlayerSeries{historySeries(ps)}, "Cumulative Profit")
	if err != nil {
		log.WithError(err).Warn("Failed to render player chart")
		common.FollowUpWithEmbed(s, i, embed)
		return
	}

	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://profit.png"}
	common.FollowUpWithEmbed(s, i, embed, common.PNGFile("profit.png", png))
}

// findPlayer matches a name or nickname case-insensitively, preferring names
func (b *Bot) findPlayer(ctx context.Context, query string) (*models.Player, error) {
	players, err := b.playerService.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return matchPlayer(players, query), nil
}

func matchPlayer(players []*models.Player, query string) *models.Player {
	for _, p := range players {
		if strings.EqualFold(p.Name, query) {
			return p
		}
	}
	for _, p := range players {
		if p.Nickname != nil && strings.EqualFold(*p.Nickname, query) {
			return p
		}
	}
	return nil
}

func (b *Bot) handleSession(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 || options[0].Name != "latest" {
		common.RespondWithError(s, i, "Unknown subcommand")
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Error deferring session response")
		return
	}

	ctx := context.Background()
	ss, err := b.latestSession(ctx)
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		common.FollowUpWithError(s, i, "No sessions recorded yet.")
	case err != nil:
		log.WithError(err).Error("Error getting latest session")
		common.FollowUpWithError(s, i, "Unable to retrieve the latest session. Please try again.")
	default:
		common.FollowUpWithEmbed(s, i, buildSessionEmbed(ss))
	}
}

// latestSession loads the newest session; summaries are already newest first
func (b *Bot) latestSession(ctx context.Context) (*models.SessionStats, error) {
	summaries, err := b.statsService.GetSessionSummaries(ctx)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, service.ErrSessionNotFound
	}
	return b.statsService.GetSessionStats(ctx, summaries[0].Session.ID)
}

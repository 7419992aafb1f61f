package bot

import (
	"fmt"

	"bankroll/stats"

	"github.com/bwmarrin/discordgo"
)

func rangeChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "All time", Value: string(stats.RangeAll)},
		{Name: "Last 7 days", Value: string(stats.Range7Days)},
		{Name: "Last 30 days", Value: string(stats.Range30Days)},
		{Name: "Last 90 days", Value: string(stats.Range90Days)},
	}
}

func sortChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Total profit", Value: string(stats.SortByProfit)},
		{Name: "Win rate", Value: string(stats.SortByWinRate)},
		{Name: "Sessions played", Value: string(stats.SortBySessions)},
	}
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "leaderboard",
			Description: "Show the bankroll leaderboard",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "range",
					Description: "Date range to include",
					Choices:     rangeChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "sort",
					Description: "Column to rank by",
					Choices:     sortChoices(),
				},
			},
		},
		{
			Name:        "player",
			Description: "Show a player's results",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Player name or nickname",
					Required:    true,
				},
			},
		},
		{
			Name:        "session",
			Description: "Look up sessions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "latest",
					Description: "Show the most recent session",
				},
			},
		},
	}
}

// registerCommands registers all slash commands with the guild
func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions() {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
	}

	return nil
}

// optionString returns a named string option or ""
func optionString(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

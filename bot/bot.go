package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"bankroll/bot/common"
	"bankroll/chart"
	"bankroll/events"
	"bankroll/service"
	"bankroll/stats"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token     string
	GuildID   string
	ChannelID string // completed sessions are announced here when set
}

type Bot struct {
	config        Config
	session       *discordgo.Session
	statsService  service.StatsService
	playerService service.PlayerService
	clock         stats.Clock
	tables        *chart.TableRenderer
	lines         *chart.LineChartRenderer
	commands      []*discordgo.ApplicationCommand
}

func New(config Config, statsService service.StatsService, playerService service.PlayerService, clock stats.Clock, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:        config,
		session:       dg,
		statsService:  statsService,
		playerService: playerService,
		clock:         clock,
		tables:        chart.NewTableRenderer(),
		lines:         chart.NewLineChartRenderer(),
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if config.ChannelID != "" {
		announcer := newAnnouncer(dg, statsService, config.ChannelID)
		eventBus.Subscribe(events.EventTypeSessionChanged, announcer.Handle)
		log.WithField("channelID", config.ChannelID).Info("Session announcements enabled")
	}

	return bot, nil
}

// Close removes the registered commands and closes the gateway connection
func (b *Bot) Close() error {
	for _, cmd := range b.commands {
		if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, cmd.ID); err != nil {
			log.WithError(err).WithField("command", cmd.Name).Warn("Failed to delete command")
		}
	}
	return b.session.Close()
}

// Run blocks until ctx is done, then closes the bot
func (b *Bot) Run(ctx context.Context) error {
	<-ctx.Done()
	return b.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	log.WithFields(log.Fields{
		"command": data.Name,
		"guildID": i.GuildID,
	}).Debug("Handling command")

	switch data.Name {
	case "leaderboard":
		b.handleLeaderboard(s, i)
	case "player":
		b.handlePlayer(s, i)
	case "session":
		b.handleSession(s, i)
	default:
		common.RespondWithError(s, i, "Unknown command")
	}
}

package bot

import (
	"context"

	"bankroll/events"
	"bankroll/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// channelSender is the part of the Discord session used for announcements
type channelSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// announcer posts a summary to a channel whenever a session is completed,
// whether locally or on another instance.
type announcer struct {
	sender       channelSender
	statsService service.StatsService
	channelID    string
}

func newAnnouncer(sender channelSender, statsService service.StatsService, channelID string) *announcer {
	return &announcer{
		sender:       sender,
		statsService: statsService,
		channelID:    channelID,
	}
}

// Handle is an events.Handler for SessionChanged
func (a *announcer) Handle(ctx context.Context, event events.Event) {
	changed, ok := event.(events.SessionChangedEvent)
	if !ok || changed.Action != events.SessionActionCompleted {
		return
	}

	logger := log.WithFields(log.Fields{
		"sessionID": changed.SessionID,
		"remote":    events.IsRemote(ctx),
	})

	ss, err := a.statsService.GetSessionStats(ctx, changed.SessionID)
	if err != nil {
		logger.WithError(err).Error("Failed to load completed session for announcement")
		return
	}

	if _, err := a.sender.ChannelMessageSendEmbed(a.channelID, buildCompletionEmbed(ss)); err != nil {
		logger.WithError(err).Error("Failed to announce completed session")
		return
	}
	logger.Info("Announced completed session")
}

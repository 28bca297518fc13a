package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/input"
	"picturedrive/pkg/keyqueue"
)

// UpdateSource is the part of *tgbotapi.BotAPI used for long polling
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Submitter queues work so that jobs sharing a key run in order
type Submitter interface {
	Submit(ctx context.Context, key string, job keyqueue.Job) error
}

// Poller struct - Primary/Driving adapter receiving Telegram updates by long
// polling. Each update becomes a job keyed by participant.
type Poller struct {
	source      UpdateSource
	queue       Submitter
	service     input.ConversationService
	pollTimeout int
}

// NewPoller func - pollTimeout is in seconds
func NewPoller(source UpdateSource, queue Submitter, service input.ConversationService, pollTimeout int) *Poller {
	return &Poller{
		source:      source,
		queue:       queue,
		service:     service,
		pollTimeout: pollTimeout,
	}
}

// Run polls until ctx is cancelled or the update channel closes
func (p *Poller) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.pollTimeout
	updates := p.source.GetUpdatesChan(cfg)

	logrus.Info("Telegram poller started, waiting for messages ...")
	for {
		select {
		case <-ctx.Done():
			p.source.StopReceivingUpdates()
			logrus.Info("Telegram poller stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				logrus.Info("Telegram update channel closed")
				return nil
			}
			p.dispatch(ctx, update)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, update tgbotapi.Update) {
	event, ok := ConvertUpdate(update)
	if !ok {
		logrus.Debugf("Skipping telegram update %d", update.UpdateID)
		return
	}

	// Queued events still run while the queue drains on shutdown.
	jobCtx := context.WithoutCancel(ctx)
	err := p.queue.Submit(jobCtx, event.ParticipantID, keyqueue.JobFunc(func(ctx context.Context) error {
		return p.service.HandleEvent(ctx, event)
	}))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"participant": event.ParticipantID,
			"update":      update.UpdateID,
		}).Warnf("Dropping telegram update: %v", err)
	}
}

// HandleJobError logs a failed event job. It is the key queue error handler.
func HandleJobError(key string, err error) {
	logrus.WithFields(logrus.Fields{
		"platform":    domain.PlatformTelegram,
		"participant": key,
	}).Errorf("Failed to handle telegram event: %v", err)
}

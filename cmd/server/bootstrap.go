package main

import (
	"context"

	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/internal/utils"
	"github.com/campushub/backend/pkg/logger"
)

// appServices holds the long-lived pieces wired at startup.
type appServices struct {
	notifier        *services.Notifier
	notifyQueue     services.NotifyQueue
	notifyWorker    *services.NotifyWorker
	deadlineService *services.DeadlineService
}

// bootstrap initializes database, notifier queue and schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Notification queue: async over Redis when enabled, otherwise deliveries
	// run in-process so workflows never block on SMTP either way.
	emailService := services.NewEmailService(&cfg.Email)
	notifyQueue := services.InitNotifyQueue(cfg)
	if syncQueue, ok := notifyQueue.(*services.SyncNotifyQueue); ok {
		syncQueue.SetProcessor(func(_ context.Context, task *services.EmailTask) error {
			return emailService.Send(task.To, task.Subject, task.Body)
		})
	}

	var notifyWorker *services.NotifyWorker
	if notifyQueue.IsAsync() {
		notifyWorker = services.NewNotifyWorker(cfg)
		if err := notifyWorker.Start(); err != nil {
			logger.Errorf("Failed to start notify worker: %v", err)
			notifyWorker = nil
		}
	}

	notifier := services.NewNotifier(notifyQueue)

	deadlineService := services.NewDeadlineService(models.GetDB(), notifier, &cfg.Scheduler)
	deadlineService.StartScheduler()

	return &appServices{
		notifier:        notifier,
		notifyQueue:     notifyQueue,
		notifyWorker:    notifyWorker,
		deadlineService: deadlineService,
	}
}

// shutdown stops schedulers and drains the notification queue.
func (s *appServices) shutdown() {
	s.deadlineService.StopScheduler()
	if s.notifyWorker != nil {
		s.notifyWorker.Stop()
	}
	if s.notifyQueue != nil {
		s.notifyQueue.Close()
	}
	models.CloseDB()
	logger.Infof("Shutdown complete")
}

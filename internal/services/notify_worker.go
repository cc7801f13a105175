package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/pkg/logger"
	"github.com/hibiken/asynq"
)

// NotifyWorker processes queued notifications from Redis.
type NotifyWorker struct {
	server *asynq.Server
	email  *EmailService
}

// NewNotifyWorker creates a worker bound to the same Redis as the queue.
func NewNotifyWorker(cfg *config.Config) *NotifyWorker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
		Logger: &asynqLogger{},
	})

	return &NotifyWorker{
		server: server,
		email:  NewEmailService(&cfg.Email),
	}
}

// Start begins processing tasks. Non-blocking.
func (w *NotifyWorker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeEmail, w.handleEmailTask)

	if err := w.server.Start(mux); err != nil {
		return fmt.Errorf("start notify worker: %w", err)
	}

	logger.Infof("[NotifyWorker] started, concurrency=10")
	return nil
}

// Stop gracefully shuts down the worker, letting in-flight tasks finish.
func (w *NotifyWorker) Stop() {
	w.server.Shutdown()
	logger.Infof("[NotifyWorker] stopped")
}

func (w *NotifyWorker) handleEmailTask(ctx context.Context, t *asynq.Task) error {
	var task EmailTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("unmarshal email task: %w", err)
	}

	return w.email.Send(task.To, task.Subject, task.Body)
}

// asynqLogger adapts asynq's logging to zerolog.
type asynqLogger struct{}

func (l *asynqLogger) Debug(args ...interface{}) { logger.Debug().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { logger.Info().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { logger.Warn().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { logger.Error().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) { logger.Fatal().Msg(fmt.Sprint(args...)) }

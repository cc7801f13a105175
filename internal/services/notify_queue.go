package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/pkg/logger"
	"github.com/hibiken/asynq"
)

const (
	TaskTypeEmail = "email:send"
)

// EmailTask is a queued notification delivery.
type EmailTask struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotifyQueue defines the interface for notification dispatch. Workflows
// only enqueue; they never wait for delivery.
type NotifyQueue interface {
	// Enqueue adds a notification to the queue
	Enqueue(task *EmailTask) error
	// IsAsync returns true if the queue delivers asynchronously via Redis
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

var (
	globalNotifyQueue NotifyQueue
	notifyQueueOnce   sync.Once
)

// InitNotifyQueue initializes the global notify queue based on config.
func InitNotifyQueue(cfg *config.Config) NotifyQueue {
	notifyQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncNotifyQueue(&cfg.Redis)
			if err != nil {
				logger.Warnf("[NotifyQueue] Redis unavailable, falling back to sync mode: %v", err)
				globalNotifyQueue = NewSyncNotifyQueue()
			} else {
				logger.Infof("[NotifyQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
				globalNotifyQueue = queue
			}
		} else {
			logger.Infof("[NotifyQueue] Sync queue initialized (Redis disabled)")
			globalNotifyQueue = NewSyncNotifyQueue()
		}
	})
	return globalNotifyQueue
}

// GetNotifyQueue returns the global notify queue instance.
func GetNotifyQueue() NotifyQueue {
	return globalNotifyQueue
}

// AsyncNotifyQueue implements NotifyQueue using asynq (Redis-based).
type AsyncNotifyQueue struct {
	client *asynq.Client
}

// NewAsyncNotifyQueue creates a new Redis-based async queue.
func NewAsyncNotifyQueue(cfg *config.RedisConfig) (*AsyncNotifyQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection before committing to async mode
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncNotifyQueue{client: client}, nil
}

func (q *AsyncNotifyQueue) Enqueue(task *EmailTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeEmail, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Debug().Str("task_id", info.ID).Str("to", task.To).Msg("notification enqueued")
	return nil
}

func (q *AsyncNotifyQueue) IsAsync() bool {
	return true
}

func (q *AsyncNotifyQueue) Close() error {
	return q.client.Close()
}

// SyncNotifyQueue implements NotifyQueue without Redis: deliveries run in a
// goroutine so workflow responses never block on SMTP.
type SyncNotifyQueue struct {
	processor func(context.Context, *EmailTask) error
}

func NewSyncNotifyQueue() *SyncNotifyQueue {
	return &SyncNotifyQueue{}
}

// SetProcessor sets the delivery function.
func (q *SyncNotifyQueue) SetProcessor(processor func(context.Context, *EmailTask) error) {
	q.processor = processor
}

func (q *SyncNotifyQueue) Enqueue(task *EmailTask) error {
	if q.processor == nil {
		logger.Warnf("[NotifyQueue] no processor set, notification dropped")
		return nil
	}

	go func() {
		if err := q.processor(context.Background(), task); err != nil {
			logger.Warnf("[NotifyQueue] delivery failed: %v", err)
		}
	}()

	return nil
}

func (q *SyncNotifyQueue) IsAsync() bool {
	return false
}

func (q *SyncNotifyQueue) Close() error {
	return nil
}

package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"comercial_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	embeddingRefreshRetries = 5
	embeddingRefreshTimeout = time.Minute
)

type Client struct {
	client *asynq.Client
	queue  string
}

// EmbeddingScheduler enqueues embedding refreshes.
type EmbeddingScheduler interface {
	EnqueueEmbeddingRefresh(ctx context.Context, payload EmbeddingRefreshPayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueEmbeddingRefresh queues a refresh. A later refresh of the same entity
// supersedes an earlier one, so no uniqueness lock is taken.
func (c *Client) EnqueueEmbeddingRefresh(ctx context.Context, payload EmbeddingRefreshPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewEmbeddingRefreshTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(embeddingRefreshRetries),
		asynq.Timeout(embeddingRefreshTimeout),
	)
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}

// Package journal publishes answered questions to a Redis stream and reads
// them back through a consumer group.
package journal

import (
	"clima/internal/config"
	"clima/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const payloadField = "data"

// Publisher appends question entries to a stream
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewClient opens a Redis client from the connection settings
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewPublisher(client *redis.Client, cfg config.RedisConfig) *Publisher {
	return &Publisher{client: client, stream: cfg.Stream, maxLen: cfg.MaxLen}
}

// Publish serializes the entry and appends it to the stream
func (p *Publisher) Publish(ctx context.Context, entry models.QuestionEntry) error {
	values, err := Encode(entry)
	if err != nil {
		return err
	}
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", p.stream, err)
	}
	return nil
}

// Encode builds the stream values for an entry
func Encode(entry models.QuestionEntry) (map[string]interface{}, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize question: %w", err)
	}
	return map[string]interface{}{payloadField: string(data)}, nil
}

// Decode is the inverse of Encode
func Decode(values map[string]interface{}) (models.QuestionEntry, error) {
	var entry models.QuestionEntry
	raw, ok := values[payloadField].(string)
	if !ok {
		return entry, fmt.Errorf("message has no %q field", payloadField)
	}
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return entry, fmt.Errorf("failed to unmarshal question: %w", err)
	}
	return entry, nil
}

// Handler processes one decoded entry. The message is acknowledged only when
// it returns nil.
type Handler func(models.QuestionEntry) error

// Consumer reads the stream as a member of a consumer group
type Consumer struct {
	client   *redis.Client
	stream   string
	group    string
	name     string
	batch    int64
	blockFor time.Duration

	retryMin time.Duration
	retryMax time.Duration
	// pending entries idle this long are taken over from whoever read them
	claimIdle time.Duration
}

func NewConsumer(client *redis.Client, cfg config.RedisConfig) *Consumer {
	return &Consumer{
		client:    client,
		stream:    cfg.Stream,
		group:     cfg.Group,
		name:      cfg.Consumer,
		batch:     10,
		blockFor:  5 * time.Second,
		retryMin:  500 * time.Millisecond,
		retryMax:  30 * time.Second,
		claimIdle: time.Minute,
	}
}

// EnsureGroup creates the consumer group and the stream if needed
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !isBusyGroup(err) {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

// Run reads until ctx is cancelled. Read errors back off exponentially, and
// once per claimIdle entries left pending by failed handlers are retried.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	var delay time.Duration
	var lastClaim time.Time

	for {
		if time.Since(lastClaim) >= c.claimIdle {
			c.reclaim(ctx, handle)
			lastClaim = time.Now()
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{c.stream, ">"},
			Count:    c.batch,
			Block:    c.blockFor,
		}).Result()

		if ctx.Err() != nil {
			return nil
		}

		if err != nil && err != redis.Nil {
			delay = nextDelay(delay, c.retryMin, c.retryMax)
			log.Printf("Error reading from Redis: %v (retrying in %s)", err, delay)
			if !sleep(ctx, delay) {
				return nil
			}
			continue
		}
		delay = 0

		for _, s := range streams {
			for _, m := range s.Messages {
				if ctx.Err() != nil {
					return nil
				}
				c.process(ctx, m, handle)
			}
		}
	}
}

// reclaim moves idle pending entries of any consumer in the group to this one
// and handles them again
func (c *Consumer) reclaim(ctx context.Context, handle Handler) {
	start := "0-0"
	for {
		messages, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.stream,
			Group:    c.group,
			Consumer: c.name,
			MinIdle:  c.claimIdle,
			Start:    start,
			Count:    c.batch,
		}).Result()
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("Failed to reclaim pending messages: %v", err)
			}
			return
		}

		for _, m := range messages {
			if ctx.Err() != nil {
				return
			}
			c.process(ctx, m, handle)
		}

		if len(messages) == 0 || next == "0-0" {
			return
		}
		start = next
	}
}

func (c *Consumer) process(ctx context.Context, m redis.XMessage, handle Handler) {
	entry, err := Decode(m.Values)
	if err != nil {
		// unreadable payloads would be redelivered forever
		log.Printf("Dropping message %s: %v", m.ID, err)
		c.client.XAck(ctx, c.stream, c.group, m.ID)
		return
	}

	if err := handle(entry); err != nil {
		log.Printf("Failed to handle message %s: %v", m.ID, err)
		return
	}

	c.client.XAck(ctx, c.stream, c.group, m.ID)
}

// nextDelay doubles the previous delay within [floor, ceiling]
func nextDelay(prev, floor, ceiling time.Duration) time.Duration {
	next := prev * 2
	if next < floor {
		next = floor
	}
	if next > ceiling {
		next = ceiling
	}
	return next
}

// sleep waits for d and reports false when ctx ends first
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func isBusyGroup(err error) bool {
	return strings.HasPrefix(err.Error(), "BUSYGROUP")
}

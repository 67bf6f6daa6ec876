package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"studytracker/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyTopicList   = "topics:list"
	keyTopicDetail = "topics:detail:"
	versionSuffix  = ":ver"
)

// TopicCache stores serialised topic reads in Redis. A miss is reported as
// (nil, nil).
//
// Each entry has a version counter that invalidation bumps. Fills carry the
// version observed before the store was read and are dropped if it has moved,
// so a slow read can never overwrite the result of a newer write.
type TopicCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTopicCache(client *redis.Client, ttl time.Duration) *TopicCache {
	return &TopicCache{client: client, ttl: ttl}
}

func (c *TopicCache) GetList(ctx context.Context) ([]domain.Topic, error) {
	var topics []domain.Topic
	ok, err := c.get(ctx, keyTopicList, &topics)
	if err != nil || !ok {
		return nil, err
	}
	if topics == nil {
		topics = []domain.Topic{}
	}
	return topics, nil
}

// ListVersion must be read before the store is queried for the list.
func (c *TopicCache) ListVersion(ctx context.Context) (int64, error) {
	return c.version(ctx, keyTopicList)
}

// SetList stores topics unless the list was invalidated after version was read.
// It reports whether the entry was written.
func (c *TopicCache) SetList(ctx context.Context, version int64, topics []domain.Topic) (bool, error) {
	return c.set(ctx, keyTopicList, version, topics)
}

func (c *TopicCache) InvalidateList(ctx context.Context) error {
	return c.invalidate(ctx, keyTopicList)
}

// GetTopic returns a cached topic together with its sessions.
func (c *TopicCache) GetTopic(ctx context.Context, id int64) (*domain.Topic, error) {
	var topic domain.Topic
	ok, err := c.get(ctx, detailKey(id), &topic)
	if err != nil || !ok {
		return nil, err
	}
	if topic.Sessions == nil {
		topic.Sessions = []domain.Session{}
	}
	return &topic, nil
}

func (c *TopicCache) TopicVersion(ctx context.Context, id int64) (int64, error) {
	return c.version(ctx, detailKey(id))
}

func (c *TopicCache) SetTopic(ctx context.Context, version int64, topic *domain.Topic) (bool, error) {
	return c.set(ctx, detailKey(topic.ID), version, topic)
}

func (c *TopicCache) InvalidateTopic(ctx context.Context, id int64) error {
	return c.invalidate(ctx, detailKey(id))
}

func (c *TopicCache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *TopicCache) version(ctx context.Context, key string) (int64, error) {
	v, err := c.client.Get(ctx, key+versionSuffix).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// set writes key only while its version counter still equals version. The
// counter is watched, so an invalidation landing between the check and the
// write aborts the transaction.
func (c *TopicCache) set(ctx context.Context, key string, version int64, v any) (bool, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	verKey := key + versionSuffix

	written := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, c.ttl)
			return nil
		})
		if err == nil {
			written = true
		}
		return err
	}, verKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return written, err
}

func (c *TopicCache) invalidate(ctx context.Context, key string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key+versionSuffix)
		pipe.Del(ctx, key)
		return nil
	})
	return err
}

func detailKey(id int64) string {
	return keyTopicDetail + strconv.FormatInt(id, 10)
}

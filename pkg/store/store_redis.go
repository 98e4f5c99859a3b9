package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kotrzina/calassist/pkg/config"
	"github.com/redis/go-redis/v9"
)

const (
	ReplyKeyPrefix = "calassist:reply:"
	LinksKey       = "calassist:links"
)

type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(config *config.Config) *RedisStore {
	return &RedisStore{
		Client: redis.NewClient(&redis.Options{
			Addr: config.RedisAddr,
			DB:   config.RedisDB,
		}),
	}
}

func (s *RedisStore) Ping() error {
	return s.Client.Ping(context.Background()).Err()
}

func (s *RedisStore) GetReply(key string) (string, error) {
	res, err := s.Client.Get(context.Background(), ReplyKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}

	return res, err
}

func (s *RedisStore) SetReply(key string, content string, ttl time.Duration) error {
	return s.Client.Set(context.Background(), ReplyKeyPrefix+key, content, ttl).Err()
}

func (s *RedisStore) AddLink(link Link) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("could not marshal link: %w", err)
	}

	ctx := context.Background()
	pipe := s.Client.TxPipeline()
	pipe.LPush(ctx, LinksKey, data)
	pipe.LTrim(ctx, LinksKey, 0, historyLimit-1)
	_, err = pipe.Exec(ctx)

	return err
}

func (s *RedisStore) GetLinks(limit int) ([]Link, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	res, err := s.Client.LRange(context.Background(), LinksKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	links := make([]Link, 0, len(res))
	for _, item := range res {
		var link Link
		if err := json.Unmarshal([]byte(item), &link); err != nil {
			return nil, fmt.Errorf("invalid link format in the storage: %w", err)
		}
		links = append(links, link)
	}

	return links, nil
}

package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ceyewan/leaveagent/clog"
	"github.com/ceyewan/leaveagent/xerrors"
	"github.com/redis/go-redis/v9"
)

// ========================================
// Redis 实现 (Redis Implementation)
// ========================================

// keyPrefix Redis 中会话键的前缀
const keyPrefix = "session:"

// redisStore 基于 Redis 的会话存储，历史以 JSON 保存并带 TTL
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger clog.Logger
}

func newRedisStore(cfg *Config, logger clog.Logger) (*redisStore, error) {
	if cfg.RedisAddr == "" {
		return nil, xerrors.New("session: redis backend requires redis_addr")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, xerrors.Wrap(err, "session: redis ping failed")
	}

	logger.Info("会话存储已初始化",
		clog.String("backend", "redis"),
		clog.String("addr", cfg.RedisAddr),
		clog.Duration("ttl", cfg.TTL))

	return &redisStore{client: client, ttl: cfg.TTL, logger: logger}, nil
}

func (s *redisStore) Load(ctx context.Context, sessionID string) ([]Message, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, xerrors.Wrap(err, "session: load failed")
	}

	var history []Message
	if err := json.Unmarshal(data, &history); err != nil {
		// 损坏的历史按空会话处理，避免单个坏键卡死会话
		s.logger.Warn("会话历史反序列化失败，已重置",
			clog.String("session_id", sessionID), clog.Error(err))
		return nil, nil
	}
	return history, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, history []Message) error {
	data, err := json.Marshal(history)
	if err != nil {
		return xerrors.Wrap(err, "session: marshal failed")
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return xerrors.Wrap(err, "session: save failed")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return xerrors.Wrap(err, "session: delete failed")
	}
	return nil
}

// 编译期检查
var _ Store = (*redisStore)(nil)

package session

import (
	"context"

	"github.com/ceyewan/leaveagent/clog"
	"github.com/maypok86/otter/v2"
)

// ========================================
// 内存实现 (Memory Implementation)
// ========================================

// defaultCapacity 内存后端最多保留的会话数
const defaultCapacity = 10000

// memoryStore 基于 otter 缓存的会话存储，写入后按 TTL 过期
type memoryStore struct {
	cache  *otter.Cache[string, []Message]
	logger clog.Logger
}

func newMemoryStore(cfg *Config, logger clog.Logger) (*memoryStore, error) {
	cache, err := otter.New(&otter.Options[string, []Message]{
		MaximumSize:      defaultCapacity,
		ExpiryCalculator: otter.ExpiryWriting[string, []Message](cfg.TTL),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("会话存储已初始化",
		clog.String("backend", "memory"),
		clog.Duration("ttl", cfg.TTL))

	return &memoryStore{cache: cache, logger: logger}, nil
}

func (s *memoryStore) Load(_ context.Context, sessionID string) ([]Message, error) {
	history, ok := s.cache.GetIfPresent(sessionID)
	if !ok {
		return nil, nil
	}
	// 返回副本，调用方追加消息不应影响缓存内容
	out := make([]Message, len(history))
	copy(out, history)
	return out, nil
}

func (s *memoryStore) Save(_ context.Context, sessionID string, history []Message) error {
	stored := make([]Message, len(history))
	copy(stored, history)
	s.cache.Set(sessionID, stored)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, sessionID string) error {
	s.cache.Invalidate(sessionID)
	return nil
}

// 编译期检查
var _ Store = (*memoryStore)(nil)

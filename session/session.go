// Package session 提供对话历史存储，支持内存和 Redis 两种后端。
//
// 内存后端基于 otter 本地缓存，适合单实例部署；
// Redis 后端用于多实例共享会话。两种后端都带 TTL，
// 过期会话视为空历史。
package session

import (
	"context"
	"time"

	"github.com/ceyewan/leaveagent/clog"
)

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Message 对话历史中的一条消息
type Message struct {
	Role    string `json:"role"` // user|model
	Content string `json:"content"`
}

// Store 会话存储接口
type Store interface {
	// Load 加载会话历史，会话不存在时返回空切片
	Load(ctx context.Context, sessionID string) ([]Message, error)

	// Save 保存会话历史并刷新 TTL
	Save(ctx context.Context, sessionID string, history []Message) error

	// Delete 删除会话
	Delete(ctx context.Context, sessionID string) error
}

// ========================================
// 配置定义 (Configuration)
// ========================================

// Config 会话存储配置
type Config struct {
	// Backend 存储后端 (memory|redis)
	Backend string `json:"backend" yaml:"backend"`

	// TTL 会话保留时间，默认 30 分钟
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// RedisAddr Redis 地址，backend 为 redis 时必填
	RedisAddr string `json:"redis_addr" yaml:"redis_addr"`

	// RedisPassword Redis 密码
	RedisPassword string `json:"redis_password" yaml:"redis_password"`

	// RedisDB Redis 数据库编号
	RedisDB int `json:"redis_db" yaml:"redis_db"`
}

// ========================================
// 工厂函数 (Factory Functions)
// ========================================

// New 创建会话存储实例
func New(cfg *Config, opts ...Option) (Store, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}

	opt := options{}
	for _, o := range opts {
		o(&opt)
	}
	logger := opt.logger
	if logger == nil {
		logger = clog.Discard()
	}

	switch cfg.Backend {
	case "", "memory":
		return newMemoryStore(cfg, logger)
	case "redis":
		return newRedisStore(cfg, logger)
	default:
		return nil, ErrBackendUnknown
	}
}

// Package config 提供服务配置的加载与校验。
//
// 配置来源优先级（从高到低）：
//   - 环境变量（前缀 LEAVE_，嵌套键以 _ 分隔，如 LEAVE_SERVER_PORT）
//   - .env 文件
//   - yaml 配置文件（默认 ./config.yaml 或 ./config/config.yaml）
//   - 内置默认值
package config

import (
	"time"

	"github.com/ceyewan/leaveagent/breaker"
	"github.com/ceyewan/leaveagent/clog"
	"github.com/ceyewan/leaveagent/xerrors"
)

// Config 服务完整配置
type Config struct {
	Log       clog.Config     `json:"log" yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Agent     AgentConfig     `json:"agent" yaml:"agent" mapstructure:"agent"`
	Session   SessionConfig   `json:"session" yaml:"session" mapstructure:"session"`
	Warehouse WarehouseConfig `json:"warehouse" yaml:"warehouse" mapstructure:"warehouse"`
	Guardrail GuardrailConfig `json:"guardrail" yaml:"guardrail" mapstructure:"guardrail"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Host string `json:"host" yaml:"host" mapstructure:"host"`
	Port int    `json:"port" yaml:"port" mapstructure:"port"`
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"` // debug|release|test
}

// AgentConfig 对话代理配置
type AgentConfig struct {
	Model             string `json:"model" yaml:"model" mapstructure:"model"`
	APIKey            string `json:"api_key" yaml:"api_key" mapstructure:"api_key"`
	MaxToolIterations int    `json:"max_tool_iterations" yaml:"max_tool_iterations" mapstructure:"max_tool_iterations"`
}

// SessionConfig 会话存储配置
type SessionConfig struct {
	Backend string        `json:"backend" yaml:"backend" mapstructure:"backend"` // memory|redis
	TTL     time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
	Redis   RedisConfig   `json:"redis" yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr" mapstructure:"addr"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	DB       int    `json:"db" yaml:"db" mapstructure:"db"`
}

// WarehouseConfig 数据仓库客户端配置
//
// DSN 为空时自动退回 mock 模式。
type WarehouseConfig struct {
	UseMock bool           `json:"use_mock" yaml:"use_mock" mapstructure:"use_mock"`
	DSN     string         `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	Breaker breaker.Config `json:"breaker" yaml:"breaker" mapstructure:"breaker"`
}

// GuardrailConfig 输入过滤配置
type GuardrailConfig struct {
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"` // 每会话每秒请求数
	RateBurst int     `json:"rate_burst" yaml:"rate_burst" mapstructure:"rate_burst"`
}

// setDefaults 填充默认值（内部使用）
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Agent.Model == "" {
		c.Agent.Model = "gemini-2.0-flash"
	}
	if c.Agent.MaxToolIterations == 0 {
		c.Agent.MaxToolIterations = 5
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 30 * time.Minute
	}
	if c.Warehouse.Breaker.Name == "" {
		c.Warehouse.Breaker.Name = "warehouse"
	}
	if c.Warehouse.Breaker.FailureThreshold == 0 {
		c.Warehouse.Breaker.FailureThreshold = 5
	}
	if c.Warehouse.Breaker.OpenTimeout == 0 {
		c.Warehouse.Breaker.OpenTimeout = 60 * time.Second
	}
	if c.Warehouse.Breaker.SuccessThreshold == 0 {
		c.Warehouse.Breaker.SuccessThreshold = 2
	}
	if c.Guardrail.RateLimit == 0 {
		c.Guardrail.RateLimit = 5
	}
	if c.Guardrail.RateBurst == 0 {
		c.Guardrail.RateBurst = 10
	}
}

// validate 校验配置（内部使用）
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return xerrors.Wrapf(ErrConfigInvalid, "server.port out of range: %d", c.Server.Port)
	}
	if c.Session.Backend != "memory" && c.Session.Backend != "redis" {
		return xerrors.Wrapf(ErrConfigInvalid, "session.backend must be memory or redis, got %q", c.Session.Backend)
	}
	if c.Session.Backend == "redis" && c.Session.Redis.Addr == "" {
		return xerrors.Wrap(ErrConfigInvalid, "session.redis.addr is required for redis backend")
	}
	if c.Agent.MaxToolIterations < 1 {
		return xerrors.Wrapf(ErrConfigInvalid, "agent.max_tool_iterations must be positive: %d", c.Agent.MaxToolIterations)
	}
	return nil
}

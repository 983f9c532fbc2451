// Package breaker 提供了熔断器组件，用于隔离不稳定的外部依赖并支持自动恢复。
//
// breaker 是本服务治理层的核心组件，它提供了：
// - 三状态熔断状态机（closed / open / half_open）
// - 基于连续失败次数的熔断触发
// - 半开状态下的单探测调用与连续成功恢复
// - 熔断拒绝与真实调用失败的错误区分，方便上层降级
// - 只读的状态快照，用于健康检查和指标上报
//
// ## 基本使用
//
//	brk, _ := breaker.New(&breaker.Config{
//		Name:             "warehouse",
//		FailureThreshold: 5,
//		OpenTimeout:      60 * time.Second,
//		SuccessThreshold: 2,
//	}, breaker.WithLogger(logger))
//
//	result, err := brk.Execute(ctx, func() (any, error) {
//		return client.Query(ctx)
//	})
//	if breaker.IsOpen(err) {
//		// 熔断拒绝，走降级逻辑
//	}
package breaker

import (
	"context"
	"time"

	"github.com/ceyewan/leaveagent/clog"
)

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Breaker 熔断器核心接口
type Breaker interface {
	// Execute 执行受熔断保护的函数
	//
	// 熔断打开时返回 ErrOpenState 且不执行 fn；fn 自身的错误原样透传，
	// 同时计入熔断器的失败统计。
	Execute(ctx context.Context, fn func() (any, error)) (any, error)

	// Status 返回当前状态的只读快照
	Status() Status

	// Reset 手动复位到闭合状态并清零计数器
	Reset()
}

// State 熔断器状态
type State int

const (
	// StateClosed 闭合状态（正常，初始状态）
	StateClosed State = iota
	// StateOpen 打开状态（熔断中，直接拒绝）
	StateOpen
	// StateHalfOpen 半开状态（探测恢复）
	StateHalfOpen
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Status 熔断器状态快照
//
// OpenedAt 为最近一次进入打开状态的时间，从未熔断过时为零值。
type Status struct {
	Name         string    `json:"name"`
	State        string    `json:"state"`
	FailureCount int       `json:"failure_count"`
	SuccessCount int       `json:"success_count"`
	OpenedAt     time.Time `json:"opened_at,omitempty"`
}

// ========================================
// 配置定义 (Configuration)
// ========================================

// Config 熔断器配置，创建后不可变
type Config struct {
	// Name 熔断器标识，用于日志和状态上报
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// FailureThreshold 触发熔断的连续失败次数，必须为正数
	FailureThreshold int `json:"failure_threshold" yaml:"failure_threshold" mapstructure:"failure_threshold"`

	// OpenTimeout 打开状态持续时间，超时后允许探测调用，必须为正数
	OpenTimeout time.Duration `json:"open_timeout" yaml:"open_timeout" mapstructure:"open_timeout"`

	// SuccessThreshold 半开状态下恢复闭合所需的连续成功次数，必须为正数
	SuccessThreshold int `json:"success_threshold" yaml:"success_threshold" mapstructure:"success_threshold"`
}

// ========================================
// 工厂函数 (Factory Functions)
// ========================================

// New 创建熔断器实例
//
// 配置非法（阈值或超时非正数）时在创建阶段即返回错误，
// 不会延迟到调用阶段。
func New(cfg *Config, opts ...Option) (Breaker, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	// 应用选项
	opt := options{clock: realClock{}}
	for _, o := range opts {
		o(&opt)
	}

	logger := opt.logger
	if logger == nil {
		logger = clog.Discard()
	}
	logger = logger.With(clog.String("breaker", cfg.Name))

	logger.Info("creating circuit breaker",
		clog.Int("failure_threshold", cfg.FailureThreshold),
		clog.Duration("open_timeout", cfg.OpenTimeout),
		clog.Int("success_threshold", cfg.SuccessThreshold))

	return newBreaker(cfg, logger, &opt), nil
}

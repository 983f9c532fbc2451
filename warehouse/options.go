package warehouse

import (
	"gorm.io/gorm"

	"github.com/ceyewan/leaveagent/breaker"
	"github.com/ceyewan/leaveagent/clog"
)

// Option 组件初始化选项函数
type Option func(*options)

// options 组件初始化选项配置（内部使用，小写）
type options struct {
	logger        clog.Logger
	dialector     gorm.Dialector
	registry      *breaker.Registry
	clock         breaker.Clock
	onStateChange breaker.OnStateChangeFunc
}

// WithLogger 设置 Logger，传入 nil 时使用 clog.Discard()
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			o.logger = clog.Discard()
		} else {
			o.logger = logger.WithNamespace("warehouse")
		}
	}
}

// WithDialector 设置 GORM Dialector，覆盖默认的 MySQL 连接
//
// 主要用于测试中注入 SQLite。
func WithDialector(dialector gorm.Dialector) Option {
	return func(o *options) {
		o.dialector = dialector
	}
}

// WithRegistry 将客户端的熔断器注册到指定注册表
func WithRegistry(registry *breaker.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithClock 设置熔断器时钟，主要用于测试
func WithClock(clock breaker.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithGuardStateChange 设置熔断器状态变更回调，可用于接入指标
func WithGuardStateChange(fn breaker.OnStateChangeFunc) Option {
	return func(o *options) {
		o.onStateChange = fn
	}
}

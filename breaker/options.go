package breaker

import (
	"time"

	"github.com/ceyewan/leaveagent/clog"
)

// Option 组件初始化选项函数
type Option func(*options)

// OnStateChangeFunc 状态变更回调函数类型
type OnStateChangeFunc func(name string, from, to State)

// Clock 时钟抽象，测试时可注入假时钟
type Clock interface {
	Now() time.Time
}

// realClock 真实时钟（默认）
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// options 组件初始化选项配置（内部使用，小写）
type options struct {
	logger        clog.Logger
	clock         Clock
	onStateChange OnStateChangeFunc
}

// WithLogger 设置 Logger，传入 nil 时使用 clog.Discard()
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			o.logger = clog.Discard()
		} else {
			o.logger = logger.WithNamespace("breaker")
		}
	}
}

// WithClock 设置时钟，主要用于测试中控制打开状态的超时判定
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithOnStateChange 设置状态变更回调
//
// 回调在持有内部锁时同步执行，不要在回调中再调用熔断器方法。
func WithOnStateChange(fn OnStateChangeFunc) Option {
	return func(o *options) {
		o.onStateChange = fn
	}
}

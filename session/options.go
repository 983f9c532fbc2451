package session

import "github.com/ceyewan/leaveagent/clog"

// ========================================
// 选项定义 (Options)
// ========================================

type options struct {
	logger clog.Logger
}

// Option 配置会话存储的函数选项
type Option func(*options)

// WithLogger 设置日志记录器
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

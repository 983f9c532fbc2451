package agent

import "github.com/ceyewan/leaveagent/clog"

// ========================================
// 选项定义 (Options)
// ========================================

type options struct {
	logger clog.Logger
	model  ModelClient
}

// Option 配置智能体的函数选项
type Option func(*options)

// WithLogger 设置日志记录器
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithModelClient 注入模型客户端，主要用于测试
func WithModelClient(model ModelClient) Option {
	return func(o *options) {
		o.model = model
	}
}

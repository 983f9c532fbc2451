package agent

import "github.com/ceyewan/leaveagent/xerrors"

// ========================================
// 预定义错误 (Predefined Errors)
// ========================================

var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("agent: config is nil")

	// ErrAPIKeyMissing 未提供模型 API 密钥
	ErrAPIKeyMissing = xerrors.New("agent: api key is required")
)

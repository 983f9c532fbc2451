package session

import "github.com/ceyewan/leaveagent/xerrors"

// ========================================
// 预定义错误 (Predefined Errors)
// ========================================

var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("session: config is nil")

	// ErrBackendUnknown 未知的存储后端
	ErrBackendUnknown = xerrors.New("session: unknown backend, expected memory or redis")
)

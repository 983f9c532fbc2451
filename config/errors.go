package config

import "github.com/ceyewan/leaveagent/xerrors"

// 错误定义
var (
	// ErrConfigInvalid 配置校验失败
	ErrConfigInvalid = xerrors.New("config: invalid configuration")
)

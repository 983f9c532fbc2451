package warehouse

import "github.com/ceyewan/leaveagent/xerrors"

// 错误定义
var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("warehouse: config is nil")

	// ErrEmployeeNotFound 员工不存在
	ErrEmployeeNotFound = xerrors.New("warehouse: employee not found")
)

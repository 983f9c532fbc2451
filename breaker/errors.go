package breaker

import "github.com/ceyewan/leaveagent/xerrors"

// 错误定义
var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("breaker: config is nil")

	// ErrConfigInvalid 配置非法（阈值或超时非正数）
	ErrConfigInvalid = xerrors.New("breaker: invalid config")

	// ErrOpenState 熔断器处于打开状态，调用被直接拒绝
	//
	// 与被保护函数自身的错误相互独立，调用方可以据此区分
	// "熔断拒绝" 和 "真实调用失败" 两种情况。
	ErrOpenState = xerrors.New("breaker: circuit breaker is open")
)

// IsOpen 判断错误是否为熔断拒绝
func IsOpen(err error) bool {
	return xerrors.Is(err, ErrOpenState)
}

// validateConfig 校验配置（内部使用）
func validateConfig(cfg *Config) error {
	if cfg.FailureThreshold <= 0 {
		return xerrors.Wrapf(ErrConfigInvalid, "failure_threshold must be positive, got %d", cfg.FailureThreshold)
	}
	if cfg.OpenTimeout <= 0 {
		return xerrors.Wrapf(ErrConfigInvalid, "open_timeout must be positive, got %v", cfg.OpenTimeout)
	}
	if cfg.SuccessThreshold <= 0 {
		return xerrors.Wrapf(ErrConfigInvalid, "success_threshold must be positive, got %d", cfg.SuccessThreshold)
	}
	return nil
}

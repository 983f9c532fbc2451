package breaker

import (
	"context"
	"sync"
	"time"

	"github.com/ceyewan/leaveagent/clog"
)

// circuitBreaker 熔断器实现（非导出）
//
// 状态机：
//
//	closed --(连续失败达到阈值)--> open
//	open   --(超时后首次调用)----> half_open
//	half_open --(连续成功达到阈值)--> closed
//	half_open --(任意失败)---------> open
//
// generation 在每次状态变更时递增。调用结果只有在其准入时捕获的
// generation 仍然有效时才会被计入，保证迟到的结果不会覆盖更新的状态。
type circuitBreaker struct {
	cfg           *Config
	logger        clog.Logger
	clock         Clock
	onStateChange OnStateChangeFunc

	mu            sync.Mutex
	state         State
	failureCount  int
	successCount  int
	openedAt      time.Time
	probeInFlight bool
	generation    uint64
}

// newBreaker 创建熔断器实例（内部函数）
func newBreaker(cfg *Config, logger clog.Logger, opt *options) Breaker {
	return &circuitBreaker{
		cfg:           cfg,
		logger:        logger,
		clock:         opt.clock,
		onStateChange: opt.onStateChange,
		state:         StateClosed,
	}
}

// Execute 执行受熔断保护的函数
func (cb *circuitBreaker) Execute(ctx context.Context, fn func() (any, error)) (any, error) {
	gen, err := cb.allow()
	if err != nil {
		cb.logger.Warn("circuit breaker open, rejecting call")
		return nil, err
	}

	result, fnErr := fn()

	// 取消视为失败：未知结果按不可用处理
	cb.record(gen, fnErr != nil)

	return result, fnErr
}

// Status 返回当前状态的只读快照
//
// 打开状态下超时已过时报告 half_open，但不真正发生状态迁移；
// 迁移只在下一次 Execute 的准入阶段进行。
func (cb *circuitBreaker) Status() Status {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.state
	successCount := cb.successCount
	if state == StateOpen && cb.openTimeoutElapsed() {
		state = StateHalfOpen
		successCount = 0
	}

	return Status{
		Name:         cb.cfg.Name,
		State:        state.String(),
		FailureCount: cb.failureCount,
		SuccessCount: successCount,
		OpenedAt:     cb.openedAt,
	}
}

// Reset 手动复位到闭合状态
func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.transition(StateClosed)
	cb.openedAt = time.Time{}
	cb.logger.Info("circuit breaker manually reset")
}

// allow 准入判定，返回本次调用绑定的 generation
//
// open 状态超时后在同一次调用内迁移到 half_open 并作为探测调用放行。
// half_open 状态同一时刻只允许一个探测在途，其余调用与 open 同样拒绝。
func (cb *circuitBreaker) allow() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen && cb.openTimeoutElapsed() {
		cb.transition(StateHalfOpen)
		cb.logger.Info("circuit breaker entering half_open state")
	}

	switch cb.state {
	case StateOpen:
		return 0, ErrOpenState
	case StateHalfOpen:
		if cb.probeInFlight {
			return 0, ErrOpenState
		}
		cb.probeInFlight = true
	}

	return cb.generation, nil
}

// record 将调用结果计入状态机
//
// generation 不匹配说明调用在途期间状态已经变更，结果被丢弃，
// 较新的状态优先生效。
func (cb *circuitBreaker) record(gen uint64, failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if gen != cb.generation {
		return
	}

	switch cb.state {
	case StateClosed:
		if failed {
			cb.failureCount++
			cb.logger.Warn("call failed",
				clog.Int("failure_count", cb.failureCount),
				clog.Int("failure_threshold", cb.cfg.FailureThreshold))
			if cb.failureCount >= cb.cfg.FailureThreshold {
				cb.transition(StateOpen)
				cb.logger.Error("circuit breaker opened",
					clog.Int("failures", cb.cfg.FailureThreshold))
			}
		} else {
			cb.failureCount = 0
		}

	case StateHalfOpen:
		cb.probeInFlight = false
		if failed {
			cb.transition(StateOpen)
			cb.logger.Error("circuit breaker reopened during recovery attempt")
		} else {
			cb.successCount++
			cb.logger.Debug("probe succeeded",
				clog.Int("success_count", cb.successCount),
				clog.Int("success_threshold", cb.cfg.SuccessThreshold))
			if cb.successCount >= cb.cfg.SuccessThreshold {
				cb.transition(StateClosed)
				cb.logger.Info("circuit breaker closed, service recovered")
			}
		}
	}
}

// transition 执行状态迁移并重置相关计数（调用方必须持有锁）
func (cb *circuitBreaker) transition(to State) {
	from := cb.state
	cb.state = to
	cb.generation++
	cb.probeInFlight = false

	switch to {
	case StateClosed:
		cb.failureCount = 0
		cb.successCount = 0
	case StateOpen:
		cb.openedAt = cb.clock.Now()
	case StateHalfOpen:
		cb.successCount = 0
	}

	if from != to && cb.onStateChange != nil {
		cb.onStateChange(cb.cfg.Name, from, to)
	}
}

// openTimeoutElapsed 判断打开状态是否已超时（调用方必须持有锁）
func (cb *circuitBreaker) openTimeoutElapsed() bool {
	return cb.clock.Now().Sub(cb.openedAt) >= cb.cfg.OpenTimeout
}

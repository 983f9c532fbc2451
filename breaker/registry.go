package breaker

import "sync"

// Registry 命名熔断器集合
//
// 显式构造并传递给需要上报状态的组件（健康检查、统计接口），
// 避免隐藏的全局单例，测试可以构造独立实例。
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]Breaker
}

// NewRegistry 创建空的熔断器注册表
func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]Breaker)}
}

// Register 注册一个命名熔断器，重名时覆盖
func (r *Registry) Register(name string, b Breaker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakers[name] = b
}

// Get 按名称查找熔断器
func (r *Registry) Get(name string) (Breaker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.breakers[name]
	return b, ok
}

// Statuses 返回所有已注册熔断器的状态快照
func (r *Registry) Statuses() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]Status, 0, len(r.breakers))
	for _, b := range r.breakers {
		statuses = append(statuses, b.Status())
	}
	return statuses
}

// Package tool 定义智能体可调用的工具及其注册表。
//
// 每个工具暴露一个函数声明供模型做函数调用决策，
// 调用结果以 map 返回并作为 FunctionResponse 回传给模型。
package tool

import (
	"context"
	"sync"

	"google.golang.org/genai"

	"github.com/ceyewan/leaveagent/xerrors"
)

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Tool 模型可调用的工具接口
type Tool interface {
	// Name 返回工具名，与函数声明中的名字一致
	Name() string

	// Declaration 返回供模型使用的函数声明
	Declaration() *genai.FunctionDeclaration

	// Call 执行工具调用
	//
	// 业务层面的失败（员工不存在、假期类型无效等）通过返回值中的
	// success 字段表达，error 只用于基础设施故障。
	Call(ctx context.Context, args map[string]any) (map[string]any, error)
}

// ErrToolNotFound 工具未注册
var ErrToolNotFound = xerrors.New("tool: not found")

// ========================================
// 注册表 (Registry)
// ========================================

// Registry 工具注册表，按注册顺序维护函数声明列表
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry 创建工具注册表
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register 注册工具，同名工具会被覆盖
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[t.Name()]; !ok {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get 按名称获取工具
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Call 按名称调用工具，未注册时返回 ErrToolNotFound
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, xerrors.Wrapf(ErrToolNotFound, "tool %q", name)
	}
	return t.Call(ctx, args)
}

// Declarations 返回全部工具的函数声明，顺序与注册顺序一致
func (r *Registry) Declarations() []*genai.FunctionDeclaration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*genai.FunctionDeclaration, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Declaration())
	}
	return out
}

// ========================================
// 参数提取 (Argument Helpers)
// ========================================

// stringArg 提取字符串参数，缺失或类型不符时返回空串
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// intArg 提取整数参数，模型传参时数字通常是 float64
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

package breaker

import "context"

// Run 执行带类型结果的受保护调用
//
// Execute 的泛型便捷包装，避免调用方手动做类型断言。
func Run[T any](ctx context.Context, b Breaker, fn func() (T, error)) (T, error) {
	var zero T

	result, err := b.Execute(ctx, func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	return result.(T), nil
}

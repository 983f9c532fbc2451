// Package guardrail 提供对话的输入输出防护。
//
// 输入侧负责 PII 检测与脱敏、恶意输入清理、长度限制和按会话限流；
// 输出侧负责敏感词过滤、PII 泄露清除和格式整理。
// 过滤器不阻断请求，而是清理后放行并在结果元数据中记录问题。
package guardrail

// ========================================
// 结果定义 (Result Types)
// ========================================

// InputResult 输入检查结果
type InputResult struct {
	// Content 清理和脱敏后的输入文本
	Content string

	// Passed 原始输入是否通过全部检查
	Passed bool

	// Issues 检测到的问题描述
	Issues []string

	// PIIDetected 检测到的 PII 类型
	PIIDetected []string
}

// OutputResult 输出检查结果
type OutputResult struct {
	// Content 过滤和整理后的回复文本
	Content string

	// Filtered 回复是否被修改
	Filtered bool

	// PIIRemoved 是否清除了 PII
	PIIRemoved bool

	// Issues 检测到的问题描述
	Issues []string
}

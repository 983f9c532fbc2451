package guardrail

import (
	"regexp"
	"strings"

	"github.com/ceyewan/leaveagent/clog"
)

// ========================================
// 输出过滤器 (Output Filter)
// ========================================

var prohibitedPatterns = map[string]*regexp.Regexp{
	"profanity":      regexp.MustCompile(`(?i)\b(damn|hell|crap)\b`),
	"discriminatory": regexp.MustCompile(`(?i)\b(discriminat|bias|prejudice)\b`),
}

// 回复中不应出现的 PII 类型
var leakPatterns = map[string]*regexp.Regexp{
	"ssn":         regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	"credit_card": regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),
}

var leakReplacements = map[string]string{
	"ssn":         "[SSN REMOVED]",
	"credit_card": "[CREDIT CARD REMOVED]",
}

var uncertaintyMarkers = []string{
	"i don't have access to",
	"i cannot verify",
	"i'm not sure",
	"i don't know",
}

var (
	spacingPattern    = regexp.MustCompile(`([.!?])([A-Z])`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	listItemPattern   = regexp.MustCompile(`\n-\s*`)
)

const piiDisclaimer = "\n\n*Note: Some sensitive information was removed " +
	"from this response for security.*"

const uncertaintyHelp = "\n\nIf you need more specific information, please provide " +
	"your employee ID and the specific leave type you're asking about."

// OutputFilter 在返回用户前过滤并整理模型回复
type OutputFilter struct {
	logger clog.Logger
}

// NewOutputFilter 创建输出过滤器
func NewOutputFilter(logger clog.Logger) *OutputFilter {
	if logger == nil {
		logger = clog.Discard()
	}
	return &OutputFilter{logger: logger}
}

// Check 对模型回复执行过滤、PII 清除和格式整理
func (f *OutputFilter) Check(response string) OutputResult {
	result := OutputResult{Issues: validateResponse(response)}

	filtered := response
	for contentType, pattern := range prohibitedPatterns {
		if pattern.MatchString(filtered) {
			f.logger.Warn("回复中检测到违禁内容", clog.String("type", contentType))
			filtered = pattern.ReplaceAllString(filtered, "***")
		}
	}

	for piiType, pattern := range leakPatterns {
		if pattern.MatchString(filtered) {
			f.logger.Warn("回复中检测到 PII 泄露", clog.String("type", piiType))
			filtered = pattern.ReplaceAllString(filtered, leakReplacements[piiType])
			result.PIIRemoved = true
		}
	}

	final := enhanceFormatting(filtered)

	if result.PIIRemoved {
		final += piiDisclaimer
	}
	if hasUncertainty(response) && !strings.Contains(final, "employee ID") {
		final += uncertaintyHelp
	}

	result.Content = final
	result.Filtered = final != response
	return result
}

func validateResponse(response string) []string {
	var issues []string
	if len(response) < 10 {
		issues = append(issues, "Response too short")
	}
	if len(response) > 5000 {
		issues = append(issues, "Response too long")
	}
	trimmed := strings.TrimRight(response, " \t\n")
	if trimmed != "" && !strings.ContainsAny(trimmed[len(trimmed)-1:], `.!?"'`) {
		issues = append(issues, "Response appears incomplete")
	}
	return issues
}

func hasUncertainty(response string) bool {
	lower := strings.ToLower(response)
	for _, marker := range uncertaintyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// enhanceFormatting 规范标点后空格、压缩多余空白并统一列表格式
func enhanceFormatting(response string) string {
	out := spacingPattern.ReplaceAllString(response, "$1 $2")
	out = whitespacePattern.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)
	out = listItemPattern.ReplaceAllString(out, "\n- ")
	return out
}

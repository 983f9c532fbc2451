package guardrail

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ceyewan/leaveagent/clog"
)

// ========================================
// 输入过滤器 (Input Filter)
// ========================================

// maxInputLength 用户输入的最大长度
const maxInputLength = 10000

// maxSpecialCharRatio 特殊字符占比上限，超过视为编码攻击嫌疑
const maxSpecialCharRatio = 0.3

var piiPatterns = map[string]*regexp.Regexp{
	"ssn":         regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	"credit_card": regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),
	"email":       regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	"phone":       regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
	"ip_address":  regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
}

var maliciousPatterns = map[string]*regexp.Regexp{
	"sql_injection":     regexp.MustCompile(`(?i)(\bUNION\b|\bSELECT\b|\bDROP\b|\bINSERT\b|\bUPDATE\b|\bDELETE\b)`),
	"script_injection":  regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	"command_injection": regexp.MustCompile("[;&|`$()]"),
}

var scriptTagPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)

// InputFilter 在模型处理前检查并清理用户输入
type InputFilter struct {
	logger clog.Logger
}

// NewInputFilter 创建输入过滤器
func NewInputFilter(logger clog.Logger) *InputFilter {
	if logger == nil {
		logger = clog.Discard()
	}
	return &InputFilter{logger: logger}
}

// Check 对输入执行全部安全检查，返回清理后的文本
func (f *InputFilter) Check(content string) InputResult {
	result := InputResult{Content: content, Passed: true}

	for piiType, pattern := range piiPatterns {
		if pattern.MatchString(content) {
			result.PIIDetected = append(result.PIIDetected, piiType)
			result.Issues = append(result.Issues,
				fmt.Sprintf("Potential %s detected", strings.ToUpper(piiType)))
		}
	}

	for attackType, pattern := range maliciousPatterns {
		if pattern.MatchString(content) {
			result.Issues = append(result.Issues,
				fmt.Sprintf("Potential %s detected", attackType))
		}
	}

	if utf8.RuneCountInString(content) > maxInputLength {
		result.Issues = append(result.Issues,
			fmt.Sprintf("Message exceeds maximum length (%d characters)", maxInputLength))
	}

	if specialCharRatio(content) > maxSpecialCharRatio {
		result.Issues = append(result.Issues, "Excessive special characters detected")
	}

	if len(result.Issues) > 0 {
		result.Passed = false
		f.logger.Warn("输入校验未通过",
			clog.Int("issues", len(result.Issues)),
			clog.Any("details", result.Issues))
		result.Content = sanitize(result.Content)
	}

	if len(result.PIIDetected) > 0 {
		f.logger.Info("输入中检测到 PII", clog.Any("types", result.PIIDetected))
		result.Content = maskPII(result.Content)
	}

	return result
}

func specialCharRatio(content string) float64 {
	if content == "" {
		return 0
	}
	special := 0
	total := 0
	for _, r := range content {
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			special++
		}
	}
	return float64(special) / float64(total)
}

// sanitize 清除脚本标签和命令注入字符，并截断超长输入
func sanitize(content string) string {
	out := scriptTagPattern.ReplaceAllString(content, "[REMOVED]")

	for _, ch := range []string{"`", "$", ";"} {
		out = strings.ReplaceAll(out, ch, "")
	}

	// 按字符截断，避免在多字节字符中间切开
	if runes := []rune(out); len(runes) > maxInputLength {
		out = string(runes[:maxInputLength]) + "... [truncated]"
	}
	return out
}

// maskPII 脱敏输入中的个人信息，邮箱保留域名便于理解上下文
func maskPII(content string) string {
	out := piiPatterns["ssn"].ReplaceAllString(content, "***-**-****")
	out = piiPatterns["credit_card"].ReplaceAllString(out, "**** **** **** ****")
	out = piiPatterns["email"].ReplaceAllStringFunc(out, func(email string) string {
		if at := strings.LastIndex(email, "@"); at > 0 {
			return "***@" + email[at+1:]
		}
		return "***@***.***"
	})
	out = piiPatterns["phone"].ReplaceAllString(out, "***-***-****")
	return out
}

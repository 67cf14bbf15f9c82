package oracle

import (
	"encoding/json"
	"strings"
)

// parseLenient 从自由文本中容错解析 JSON 对象。
// 步骤：剥掉 markdown 代码围栏 → 取最外层 {...} 片段 → json.Unmarshal。
// 任一步失败返回 (零值, false)，调用方据此降级为空结果。
// 解析策略独立成文件，后续调整不影响其余管线。
func parseLenient(raw string) (Result, bool) {
	s := stripFences(raw)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return Result{}, false
	}
	s = s[start : end+1]

	var res Result
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return Result{}, false
	}
	return res, true
}

// stripFences 去掉 ```json ... ``` 这类围栏包装，模型经常无视
// "不要 markdown" 的指令
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// 围栏后可能跟语言标记，如 "json"
	if idx := strings.Index(s, "\n"); idx != -1 {
		head := strings.TrimSpace(s[:idx])
		if head == "json" || head == "JSON" || head == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

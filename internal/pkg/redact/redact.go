// redact маскирует чувствительные значения перед записью в лог.
package redact

import "strings"

// Email оставляет два первых символа локальной части и домен.
func Email(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(domain, "@") {
		return "***"
	}

	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// Token никогда не раскрывает значение токена, только факт его наличия.
func Token(s string) string {
	if s == "" {
		return ""
	}

	return "[REDACTED_TOKEN]"
}

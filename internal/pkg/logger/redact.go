package logger

import "strings"

// RedactEmail masks a contact address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactSecret fully masks credential values (SMTP passwords, API keys).
// Empty stays empty so "unset" remains visible in logs.
func RedactSecret(val string) string {
	if val == "" {
		return ""
	}
	return "[redacted]"
}

// secretKeyTerms marks log field keys whose values are credentials.
var secretKeyTerms = []string{"password", "api_key", "secret", "smtp_pass"}

func isSecretKey(key string) bool {
	for _, term := range secretKeyTerms {
		if strings.Contains(key, term) {
			return true
		}
	}
	return false
}

package logger

import "testing"

func TestRedactEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
		{"a@b@c", "***@***"},
	}
	for _, c := range cases {
		if got := RedactEmail(c.in); got != c.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRedactPIIValue(t *testing.T) {
	if got := redactPIIValue("email", "jane@example.com"); got != "ja***@example.com" {
		t.Errorf("email key not redacted: %q", got)
	}
	if got := redactPIIValue("msg", "sent to jane@example.com ok"); got != "sent to ja***@example.com ok" {
		t.Errorf("embedded email not redacted: %q", got)
	}
	if got := redactPIIValue("campaign_id", "42"); got != "42" {
		t.Errorf("non-PII value changed: %q", got)
	}
}

func TestRedactSecretKeys(t *testing.T) {
	for _, key := range []string{"smtp_password", "api_key", "tracking_secret", "smtp_pass"} {
		if got := redactPIIValue(key, "hunter2"); got != "[redacted]" {
			t.Errorf("key %q: value not masked: %q", key, got)
		}
	}
	if got := redactPIIValue("smtp_password", ""); got != "" {
		t.Errorf("empty secret should stay empty, got %q", got)
	}
}

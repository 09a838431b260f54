package apperrors

import (
	"errors"
	"testing"
)

func TestPublicMessage_UsesSafeMessage(t *testing.T) {
	sentinel := errors.New("SECRET_VALUE")
	err := New(KindAuth, "safe auth error", sentinel)
	if got := PublicMessage(err); got != "safe auth error" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "safe auth error")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped cause to be retained for internal matching")
	}
}

func TestPublicMessage_NonAppError(t *testing.T) {
	err := errors.New("plain")
	if got := PublicMessage(err); got != "plain" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "plain")
	}
}

func TestKindOf(t *testing.T) {
	err := New(KindRateLimit, "", errors.New("boom"))
	kind, ok := KindOf(err)
	if !ok || kind != KindRateLimit {
		t.Fatalf("KindOf() = (%q, %v), want (%q, true)", kind, ok, KindRateLimit)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatalf("KindOf() should not match non-app errors")
	}
}

func TestDefaultMessages(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindConfig, "Gemini client is not configured. Set an API key first."},
		{KindUnsupported, "Unsupported file type. Upload a JPEG, PNG, or PDF."},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := New(tt.kind, "", nil)
			if got := err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsConfigAndUnsupported(t *testing.T) {
	if !IsConfig(Config(nil)) {
		t.Errorf("IsConfig() should match config errors")
	}
	if IsConfig(Unsupported(nil)) {
		t.Errorf("IsConfig() should not match unsupported errors")
	}
	if !IsUnsupported(Unsupported(nil)) {
		t.Errorf("IsUnsupported() should match unsupported errors")
	}
}

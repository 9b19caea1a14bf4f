package genimage

import (
	"context"
	"strings"
	"testing"
)

func TestAvailable(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	if New(nil).Available() {
		t.Error("Available() = true without an API key")
	}

	t.Setenv("GOOGLE_API_KEY", "test-key")
	if !New(nil).Available() {
		t.Error("Available() = false with an API key set")
	}
}

func TestStyliseRequiresAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := New(nil).Stylise(context.Background(), nil)
	if err == nil {
		t.Fatal("Stylise() succeeded without an API key")
	}
	if !strings.Contains(err.Error(), "GOOGLE_API_KEY") {
		t.Errorf("error %q does not name the missing variable", err)
	}
}

func TestWithModel(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")

	tests := []struct {
		name string
		opt  string
		want string
	}{
		{"default", "", DefaultModel},
		{"override", "gemini-x-test", "gemini-x-test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil, WithModel(tt.opt))
			if c.model != tt.want {
				t.Errorf("model = %q, want %q", c.model, tt.want)
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	p := Prompt()
	if p == "" {
		t.Fatal("Prompt() is empty")
	}
	// The prompt must steer generation towards flat colours on a white
	// background, the properties quantization depends on.
	for _, want := range []string{"flat", "white", "background"} {
		if !strings.Contains(strings.ToLower(p), want) {
			t.Errorf("prompt does not mention %q", want)
		}
	}
}

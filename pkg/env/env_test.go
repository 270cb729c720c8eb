package env

import "testing"

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("AYURCART_TEST_VALUE", "   ")
	if got := Get("AYURCART_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
	t.Setenv("AYURCART_TEST_VALUE", " console ")
	if got := Get("AYURCART_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("AYURCART_LOG_FORMAT", "")
	t.Setenv("LOG_FORMAT", "console")
	if got := First("json", "AYURCART_LOG_FORMAT", "LOG_FORMAT"); got != "console" {
		t.Fatalf("expected later key to be used when earlier is blank, got %q", got)
	}
	t.Setenv("AYURCART_LOG_FORMAT", "json")
	if got := First("console", "AYURCART_LOG_FORMAT", "LOG_FORMAT"); got != "json" {
		t.Fatalf("expected earlier key to win, got %q", got)
	}
	if got := First("json"); got != "json" {
		t.Fatalf("expected fallback without keys, got %q", got)
	}
}

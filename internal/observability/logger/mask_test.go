package logger

import (
	"net/http"
	"testing"
)

func TestMaskAuthorization(t *testing.T) {
	got := MaskAuthorization("Bearer abcdef1234")
	want := "Bearer ****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskPhone(t *testing.T) {
	if got := MaskPhone("9841000123"); got != "*******123" {
		t.Fatalf("expected *******123, got %q", got)
	}
	if got := MaskPhone("12"); got != "**" {
		t.Fatalf("expected **, got %q", got)
	}
}

func TestMaskHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer token-5678")
	headers.Set("Accept", "application/json")
	masked := MaskHeaders(headers)
	if masked["Authorization"] != "Bearer ****5678" {
		t.Fatalf("expected masked authorization, got %q", masked["Authorization"])
	}
	if masked["Accept"] != "application/json" {
		t.Fatalf("expected accept untouched, got %q", masked["Accept"])
	}
}

func TestMaskJSON(t *testing.T) {
	input := map[string]any{
		"token":          "abc12345",
		"contact_number": "9801234567",
		"nested": map[string]any{
			"client_secret": "key_12345678",
		},
		"status": "approved",
	}
	masked := MaskJSON(input)
	if masked["token"] != "****2345" {
		t.Fatalf("expected masked token, got %v", masked["token"])
	}
	if masked["contact_number"] != "*******567" {
		t.Fatalf("expected masked contact number, got %v", masked["contact_number"])
	}
	nested, ok := masked["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map")
	}
	if nested["client_secret"] != "****5678" {
		t.Fatalf("expected masked client_secret, got %v", nested["client_secret"])
	}
	if masked["status"] != "approved" {
		t.Fatalf("expected status untouched, got %v", masked["status"])
	}
}

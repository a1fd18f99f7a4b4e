package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/vrclassroom/mentor-gateway/internal/httputil"
)

func TestValidate_AcceptsBoundaryLengths(t *testing.T) {
	tests := []struct {
		name string
		req  AskRequest
	}{
		{"one char question", AskRequest{Question: "?"}},
		{"300 char question", AskRequest{Question: strings.Repeat("a", 300)}},
		{"question with optional fields", AskRequest{Question: "What is presence?", UserName: "Ada", UserColor: "#ff8800"}},
		{"30 char userName", AskRequest{Question: "hi", UserName: strings.Repeat("n", 30)}},
		{"20 char userColor", AskRequest{Question: "hi", UserColor: strings.Repeat("c", 20)}},
		{"question padded with whitespace", AskRequest{Question: "  " + strings.Repeat("a", 300) + "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); err != nil {
				t.Errorf("expected valid, got %v", err)
			}
		})
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		req  AskRequest
	}{
		{"empty question", AskRequest{Question: ""}},
		{"whitespace-only question", AskRequest{Question: "   \t\n "}},
		{"301 char question", AskRequest{Question: strings.Repeat("a", 301)}},
		{"31 char userName", AskRequest{Question: "hi", UserName: strings.Repeat("n", 31)}},
		{"21 char userColor", AskRequest{Question: "hi", UserColor: strings.Repeat("c", 21)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var tagged *httputil.Error
			if !errors.As(err, &tagged) {
				t.Fatalf("expected tagged error, got %T", err)
			}
			if tagged.Status != http.StatusBadRequest {
				t.Errorf("expected 400 status, got %d", tagged.Status)
			}
			if tagged.Message == "" {
				t.Error("expected descriptive message")
			}
		})
	}
}

func TestValidate_TrimsInPlace(t *testing.T) {
	req := AskRequest{Question: "  What is presence?  ", UserName: " Ada ", UserColor: " #fff "}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Question != "What is presence?" {
		t.Errorf("question not trimmed: %q", req.Question)
	}
	if req.UserName != "Ada" || req.UserColor != "#fff" {
		t.Errorf("optional fields not trimmed: %q %q", req.UserName, req.UserColor)
	}
}

func TestDecode_UnknownFieldsIgnored(t *testing.T) {
	raw := `{"question":"hi","mood":"curious","seat":4}`
	var req AskRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("unknown fields must not cause rejection: %v", err)
	}
}

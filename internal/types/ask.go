// Package types holds the request and response shapes of the gateway API.
package types

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vrclassroom/mentor-gateway/internal/httputil"
)

const (
	MaxQuestionLen  = 300
	MaxUserNameLen  = 30
	MaxUserColorLen = 20
)

// AskRequest is the body of POST /ask. It lives only for the duration of one
// request and is never persisted. Unknown fields are ignored on decode.
type AskRequest struct {
	Question  string `json:"question"`
	UserName  string `json:"userName,omitempty"`
	UserColor string `json:"userColor,omitempty"`
}

// AskResponse is the success body of POST /ask.
type AskResponse struct {
	Answer string `json:"answer"`
}

// Validate trims all fields in place and checks them against the schema:
// question required, 1-300 characters after trimming; userName and userColor
// optional, 1-30 and 1-20 characters when present. Violations return a
// 400-tagged error with a descriptive message.
func (r *AskRequest) Validate() error {
	r.Question = strings.TrimSpace(r.Question)
	r.UserName = strings.TrimSpace(r.UserName)
	r.UserColor = strings.TrimSpace(r.UserColor)

	if r.Question == "" {
		return httputil.Validation("question is required")
	}
	if utf8.RuneCountInString(r.Question) > MaxQuestionLen {
		return httputil.Validation(fmt.Sprintf("question must be at most %d characters", MaxQuestionLen))
	}
	if r.UserName != "" && utf8.RuneCountInString(r.UserName) > MaxUserNameLen {
		return httputil.Validation(fmt.Sprintf("userName must be at most %d characters", MaxUserNameLen))
	}
	if r.UserColor != "" && utf8.RuneCountInString(r.UserColor) > MaxUserColorLen {
		return httputil.Validation(fmt.Sprintf("userColor must be at most %d characters", MaxUserColorLen))
	}
	return nil
}

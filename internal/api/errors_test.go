package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"fastapi string", `{"detail":"Skill not found"}`, "Skill not found"},
		{"fastapi list", `{"detail":[{"msg":"a"},{"msg":"b"}]}`, "a; b"},
		{"gotrue description", `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, "Invalid login credentials"},
		{"gotrue msg", `{"code":422,"msg":"User already registered"}`, "User already registered"},
		{"postgrest message", `{"message":"permission denied"}`, "permission denied"},
		{"plain text", "Bad Gateway\n", "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDetail([]byte(tt.body)))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "Server error (502).", Message(&ErrBackend{StatusCode: 502}))
	assert.Equal(t, "boom", Message(fmt.Errorf("wrapped: %w", &ErrBackend{StatusCode: 500, Detail: "boom"})))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}

func TestErrorStrings(t *testing.T) {
	assert.Equal(t, "backend unavailable", (&ErrUnavailable{Service: "backend"}).Error())
	assert.Equal(t, "request failed with status 404: nope", (&ErrBackend{StatusCode: 404, Detail: "nope"}).Error())

	inner := errors.New("eof")
	inv := &ErrInvalidResponse{Err: inner}
	assert.ErrorIs(t, inv, inner)
}

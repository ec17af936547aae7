package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "empty csv",
			err:      errors.New("invalid csv: CSV file is empty"),
			wantCode: "CSV001",
		},
		{
			name:     "invalid csv general",
			err:      errors.New("invalid csv: bad delimiter"),
			wantCode: "CSV004",
		},
		{
			name:     "invalid json case insensitive",
			err:      errors.New("upload failed: Invalid JSON syntax"),
			wantCode: "JSON001",
		},
		{
			name:     "non-object json",
			err:      errors.New("JSON must be an object with key-value pairs"),
			wantCode: "JSON002",
		},
		{
			name:     "edit collision",
			err:      errors.New("New translation key already exists"),
			wantCode: "EDIT001",
		},
		{
			name:     "edit not found",
			err:      errors.New("Translation key not found in CSV data"),
			wantCode: "EDIT002",
		},
		{
			name:     "edit validation",
			err:      errors.New("Translation key must be at least 2 characters"),
			wantCode: "EDIT003",
		},
		{
			name:     "language missing",
			err:      errors.New("Language not found in multi-language data"),
			wantCode: "LANG001",
		},
		{
			name:     "filename convention",
			err:      errors.New(`filename "x.json" doesn't follow the expected naming convention`),
			wantCode: "FILE004",
		},
		{
			name:     "context cancellation",
			err:      fmt.Errorf("handling request: %w", errors.New("context canceled")),
			wantCode: "REQ001",
		},
		{
			name:     "unknown error falls back",
			err:      errors.New("something exotic happened"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError().Code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(errors.New("rate limit exceeded"))
	want := "Too many requests (Code: RATE001). Please wait a moment before trying again"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true, want false")
	}
	if !IsUserFacing(errors.New("Translation key not found")) {
		t.Error("known pattern not user facing")
	}
	if IsUserFacing(errors.New("segfault in frobnicator")) {
		t.Error("unknown error reported as user facing")
	}
}

func TestUserError(t *testing.T) {
	technical := errors.New("duplicate language: English")
	ue := NewUserError(technical)

	if ue.User.Code != "LANG002" {
		t.Errorf("Code = %q, want LANG002", ue.User.Code)
	}
	if ue.Error() != ue.User.Message {
		t.Errorf("Error() = %q, want %q", ue.Error(), ue.User.Message)
	}
	if !errors.Is(ue, technical) {
		t.Error("UserError does not unwrap to the technical error")
	}

	if NewUserError(nil) != nil {
		t.Error("NewUserError(nil) != nil")
	}
}

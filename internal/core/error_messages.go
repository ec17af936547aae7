package core

// error_messages.go maps technical errors to user-friendly messages with
// codes for support reference. When users encounter errors, they can quote
// the error code to support staff for faster diagnosis.
//
// Error codes are grouped by category:
//
//	FILE001-FILE099  file handling (size, type, empty, missing)
//	CSV001-CSV099    CSV structure and parsing
//	JSON001-JSON099  JSON structure and parsing
//	EDIT001-EDIT099  edit and delete operations
//	LANG001-LANG099  language and column management
//	SES001-SES099    session lifecycle
//	REQ001-REQ099    request lifecycle (cancellation, timeout)
//	RATE001-RATE099  request throttling
//	ERR000           fallback when no pattern matches
//
// Patterns are matched case-insensitively with strings.Contains; the first
// matching pattern wins, so more specific patterns come before general
// ones. When users report ERR000, check application logs for the original
// technical error.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. First match wins: keep specific patterns before general ones.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE004)
	// These errors occur before a file's content is ever parsed.
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the translations into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a JSON or CSV file to upload",
			Code:    "FILE002",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Upload .json or .csv files only",
			Code:    "FILE003",
		},
	},
	{
		pattern: "naming convention",
		msg: UserMessage{
			Message: "Filename doesn't follow the expected naming convention",
			Action:  "Name files translations_{Language_Name}.json",
			Code:    "FILE004",
		},
	},

	// =========================================================================
	// CSV Errors (CSV001-CSV004)
	// These errors occur when CSV content fails structural checks.
	// =========================================================================
	{
		pattern: "csv file is empty",
		msg: UserMessage{
			Message: "The uploaded CSV file is empty",
			Action:  "Upload a CSV file with a header and data rows",
			Code:    "CSV001",
		},
	},
	{
		pattern: "first column must be named",
		msg: UserMessage{
			Message: `The first CSV column must be named "Key"`,
			Action:  "Rename the first column header to Key",
			Code:    "CSV002",
		},
	},
	{
		pattern: "at least 2 columns",
		msg: UserMessage{
			Message: "The CSV needs a key column and at least one language column",
			Action:  "Add a language column next to the Key column",
			Code:    "CSV003",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent columns",
			Code:    "CSV004",
		},
	},

	// =========================================================================
	// JSON Errors (JSON001-JSON003)
	// These errors occur when JSON content fails structural checks.
	// =========================================================================
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "File is not valid JSON",
			Action:  "Check the file for syntax errors such as trailing commas",
			Code:    "JSON001",
		},
	},
	{
		pattern: "must be an object",
		msg: UserMessage{
			Message: "The JSON must be a flat object of key-value pairs",
			Action:  "Remove arrays and nested objects from the file",
			Code:    "JSON002",
		},
	},
	{
		pattern: "must be a string",
		msg: UserMessage{
			Message: "Every translation value must be a string",
			Action:  "Quote numeric or boolean values in the file",
			Code:    "JSON003",
		},
	},

	// =========================================================================
	// Edit Errors (EDIT001-EDIT003)
	// These errors occur during edit and delete operations.
	// =========================================================================
	{
		pattern: "key already exists",
		msg: UserMessage{
			Message: "A translation with the new key already exists",
			Action:  "Choose a different key or edit the existing entry",
			Code:    "EDIT001",
		},
	},
	{
		pattern: "key not found",
		msg: UserMessage{
			Message: "The translation key was not found",
			Action:  "Refresh the data and try the edit again",
			Code:    "EDIT002",
		},
	},
	{
		pattern: "translation key",
		msg: UserMessage{
			Message: "The translation key or value failed validation",
			Action:  "Use 2+ characters limited to letters, numbers, dots, underscores, and hyphens",
			Code:    "EDIT003",
		},
	},
	{
		pattern: "translation value",
		msg: UserMessage{
			Message: "The translation key or value failed validation",
			Action:  "Values must be non-empty and under 1000 characters",
			Code:    "EDIT003",
		},
	},

	// =========================================================================
	// Language Errors (LANG001-LANG003)
	// These errors occur when managing languages and language columns.
	// =========================================================================
	{
		pattern: "language not found",
		msg: UserMessage{
			Message: "The language does not exist in the current data",
			Action:  "Check the language selection and try again",
			Code:    "LANG001",
		},
	},
	{
		pattern: "duplicate language",
		msg: UserMessage{
			Message: "More than one file was uploaded for the same language",
			Action:  "Upload one file per language",
			Code:    "LANG002",
		},
	},
	{
		pattern: "unsupported language",
		msg: UserMessage{
			Message: "This language is not in the configured language set",
			Action:  "Use one of the supported language names",
			Code:    "LANG003",
		},
	},

	// =========================================================================
	// Session Errors (SES001)
	// These errors occur when working data has gone away.
	// =========================================================================
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Session not found",
			Action:  "The session may have expired. Please start a new session",
			Code:    "SES001",
		},
	},

	// =========================================================================
	// Request Lifecycle (REQ001-REQ002)
	// These errors occur when a request is cut short.
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ002",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// These errors occur when request limits are exceeded.
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match, falling back to ERR000 when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error matches a known pattern and can be
// shown to users as-is, rather than falling through to the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message. The
// original error stays available for logging via Unwrap.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps a technical error to a UserError. Returns nil if err
// is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}

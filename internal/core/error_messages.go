package core

// error_messages.go maps technical errors to user-friendly messages with
// codes for support reference.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Dataset not loaded: no snapshot is available yet
//	         Action: Wait a moment and reload the page
//	         Patterns: "dataset not loaded"
//
//	SRC002 - Source unavailable: the data source could not be reached
//	         Action: The built-in list is shown until the source recovers
//	         Patterns: "connection refused", "no such host", "unexpected status"
//
//	SRC003 - Invalid data: the data source returned unreadable records
//	         Action: Check the dataset file format (JSON array or CSV with a header row)
//	         Patterns: "decode", "invalid character", "parse"
//
//	SRC004 - Empty dataset: the data source returned no records
//	         Action: Check that the dataset file or table is populated
//	         Patterns: "empty dataset"
//
// # Query Errors (QRY001-QRY099)
//
//	QRY001 - Unknown column: the requested column does not exist
//	         Action: Use one of region, subregion, authority, locality, status
//	         Patterns: "unknown field"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: an unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively with strings.Contains. The first
// match wins, so specific patterns come before general ones.

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

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgNotLoaded = UserMessage{
		Message: "The settlement list is not loaded yet",
		Action:  "Wait a moment and reload the page",
		Code:    "SRC001",
	}
	msgUnavailable = UserMessage{
		Message: "The data source could not be reached",
		Action:  "The built-in list is shown until the source recovers",
		Code:    "SRC002",
	}
	msgInvalidData = UserMessage{
		Message: "The data source returned unreadable records",
		Action:  "Check the dataset file format (JSON array or CSV with a header row)",
		Code:    "SRC003",
	}
	msgEmpty = UserMessage{
		Message: "The data source returned no records",
		Action:  "Check that the dataset file or table is populated",
		Code:    "SRC004",
	}
)

var errorPatterns = []errorPattern{
	{pattern: "dataset not loaded", msg: msgNotLoaded},
	{pattern: "empty dataset", msg: msgEmpty},

	{pattern: "connection refused", msg: msgUnavailable},
	{pattern: "no such host", msg: msgUnavailable},
	{pattern: "unexpected status", msg: msgUnavailable},
	{pattern: "nosuchkey", msg: msgUnavailable},
	{pattern: "no such file", msg: msgUnavailable},

	{pattern: "decode", msg: msgInvalidData},
	{pattern: "invalid character", msg: msgInvalidData},
	{pattern: "parse", msg: msgInvalidData},

	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "The requested column does not exist",
			Action:  "Use one of region, subregion, authority, locality, status",
			Code:    "QRY001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
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

// IsUserFacing reports whether err matches a known pattern rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

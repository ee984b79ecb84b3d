package core

// error_messages.go maps technical errors to messages an advisor can act on.
//
// # Error Codes Reference
//
// Codes are quoted by users when they report a problem. Row-level issue
// codes (VAL001-VAL006, WARN001-WARN006) are attached to every Issue by the
// validator; the codes below cover errors that stop a request.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: the upload exceeds the configured limit
//	          Patterns: "file too large", "request body too large"
//	FILE002 - Not a table: the file could not be read as rows and columns
//	          Patterns: "not tabular", "parse error"
//	FILE003 - Encoding error: the file is not UTF-8 text
//	          Patterns: "encoding error"
//	FILE004 - No file: nothing was selected
//	          Patterns: "no file provided", "no such file"
//	FILE005 - Empty file: the file has no header row
//	          Patterns: "empty file"
//	FILE006 - Unsupported format: only .csv and .xlsx are read
//	          Patterns: "unsupported format"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Missing column: a required column could not be matched
//	         Patterns: "required column not found"
//	VAL003 - Not numeric: a number column holds text
//	         Patterns: "not numeric"
//
// # FAQ Errors (FAQ001-FAQ099)
//
//	FAQ001 - No FAQ loaded: the knowledge base is empty
//	         Patterns: "no faq entries"
//	FAQ002 - Empty question: nothing was asked
//	         Patterns: "empty question"
//
// # Table and Request Errors
//
//	TBL001 - Unknown table: the table key is not registered
//	         Patterns: "unknown table"
//	TBL002 - No sample: the table kind has no bundled sample
//	         Patterns: "no sample for table"
//	EXP001 - Nothing to export: no validation, question or note recorded yet
//	         Patterns: "nothing to export"
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded"
//	REQ003 - Busy: too many plans are being validated at once
//	         Patterns: "too many concurrent"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the original error.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The file exceeds the upload size limit",
			Action:  "Remove unused sheets or rows and upload again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The file exceeds the upload size limit",
			Action:  "Remove unused sheets or rows and upload again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "not tabular",
		msg: UserMessage{
			Message: "The file could not be read as a table",
			Action:  "Save it as CSV with one header row, or as an .xlsx workbook",
			Code:    "FILE002",
		},
	},
	{
		pattern: "parse error",
		msg: UserMessage{
			Message: "The file could not be read as a table",
			Action:  "Check for unbalanced quotes and save it as CSV again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "The file contains invalid characters",
			Action:  "Save the file with UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a CSV or XLSX file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The file could not be found",
			Action:  "Check the path and try again",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Upload a file with a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "unsupported format",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Upload a .csv or .xlsx file",
			Code:    "FILE006",
		},
	},

	// Validation errors
	{
		pattern: "required column not found",
		msg: UserMessage{
			Message: "A required column is missing",
			Action:  "Download the template and compare the column headers",
			Code:    "VAL001",
		},
	},
	{
		pattern: "not numeric",
		msg: UserMessage{
			Message: "A number column contains text",
			Action:  "Use plain numbers such as 3 or 4.5",
			Code:    "VAL003",
		},
	},

	// FAQ errors
	{
		pattern: "no faq entries",
		msg: UserMessage{
			Message: "The FAQ knowledge base is empty",
			Action:  "Upload an FAQ table with Question and Answer columns",
			Code:    "FAQ001",
		},
	},
	{
		pattern: "empty question",
		msg: UserMessage{
			Message: "No question was entered",
			Action:  "Type a question and try again",
			Code:    "FAQ002",
		},
	},

	// Table and request errors
	{
		pattern: "unknown table",
		msg: UserMessage{
			Message: "Unknown table type",
			Action:  "Use one of: plan, requirements, catalog, faq",
			Code:    "TBL001",
		},
	},
	{
		pattern: "no sample for table",
		msg: UserMessage{
			Message: "No sample is available for this table",
			Action:  "Download the template instead",
			Code:    "TBL002",
		},
	},
	{
		pattern: "nothing to export",
		msg: UserMessage{
			Message: "There is nothing to export yet",
			Action:  "Validate a plan, ask a question or write a note first",
			Code:    "EXP001",
		},
	},
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
			Action:  "Try a smaller file or try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "too many concurrent",
		msg: UserMessage{
			Message: "Other plans are being checked right now",
			Action:  "Wait a moment and try again",
			Code:    "REQ003",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the ERR000 fallback when no pattern matches and a zero value for nil.
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

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

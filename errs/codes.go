// Package errs holds the text codes attached to every error the library
// returns, plus helpers to inspect them through wrapped chains.
package errs

import (
	goerrors "errors"

	"github.com/goliatone/go-errors"
)

const (
	// Validated attributes.
	CodeTypeMismatch  = "TYPE_MISMATCH"
	CodeOutOfRange    = "OUT_OF_RANGE"
	CodeImmutable     = "IMMUTABLE_FIELD"
	CodeFieldNotSet   = "FIELD_NOT_SET"
	CodeCorruptState  = "CORRUPT_STATE"
	CodeInvalidOption = "INVALID_OPTION"

	// Reference configuration and facade.
	CodeNotInitialized         = "NOT_INITIALIZED"
	CodeInvalidRegistration    = "INVALID_REGISTRATION"
	CodeUnrecognizedValueType  = "UNRECOGNIZED_VALUE_TYPE"
	CodeReservedOption         = "RESERVED_OPTION"
	CodeOptionNotFound         = "OPTION_NOT_FOUND"
	CodeMissingProjectDir      = "MISSING_PROJECT_DIR"
	CodeConfigLoadFailed       = "CONFIG_LOAD_FAILED"
	CodeConfigDecodeFailed     = "CONFIG_DECODE_FAILED"
	CodeInvalidFileType        = "INVALID_FILE_TYPE"
	CodeLoggerSetupFailed      = "LOGGER_SETUP_FAILED"
	CodeEnvironmentLoadFailure = "DOTENV_LOAD_FAILED"

	// Files.
	CodeIncorrectFilePath = "INCORRECT_FILE_PATH"
	CodeFileIO            = "FILE_IO"
)

// Code returns the text code of the outermost go-errors error in the chain,
// or an empty string.
func Code(err error) string {
	var e *errors.Error
	if goerrors.As(err, &e) {
		return e.TextCode
	}
	return ""
}

// HasCode reports whether any go-errors error in the chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		if e, ok := err.(*errors.Error); ok && e.TextCode == code {
			return true
		}
		err = goerrors.Unwrap(err)
	}
	return false
}

// Category returns the category of the outermost go-errors error in the chain.
func Category(err error) (errors.Category, bool) {
	var e *errors.Error
	if goerrors.As(err, &e) {
		return e.Category, true
	}
	var zero errors.Category
	return zero, false
}

package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Message    string
	Suggestion string
	Err        error
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

func (e ConfigError) Unwrap() error {
	return e.Err
}

// CommandError represents a command execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// WrapCommandNotFound wraps command not found errors with helpful suggestions
func WrapCommandNotFound(command string, err error) error {
	return CommandError{
		Command:    command,
		Message:    "command not found",
		Suggestion: fmt.Sprintf("Make sure '%s' is installed and in your PATH", command),
	}
}

// AWSErrorCode returns the AWS API error code carried anywhere in err's chain,
// or "" when err did not come from an AWS API response.
func AWSErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// ProviderError enhances vault provider errors with context
func ProviderError(provider string, operation string, err error) error {
	if err == nil {
		return nil
	}

	userErr := UserError{
		Message:    fmt.Sprintf("%s provider error during %s", provider, operation),
		Suggestion: getProviderSuggestion(provider, err),
		Err:        err,
	}
	if code := AWSErrorCode(err); code != "" {
		userErr.Details = "AWS error code " + code
	}
	return userErr
}

// getProviderSuggestion returns helpful suggestions based on provider and error
func getProviderSuggestion(provider string, err error) string {
	errStr := err.Error()

	switch provider {
	case "aws", "aws.secretsmanager":
		switch AWSErrorCode(err) {
		case "InvalidClientTokenId", "UnrecognizedClientException":
			return "Check auth.access_key_id and that the access key is active in IAM"
		case "SignatureDoesNotMatch", "IncompleteSignature":
			return "Check auth.secret_access_key matches the access key id"
		case "ExpiredToken", "ExpiredTokenException":
			return "The session token has expired. Issue new temporary credentials and update auth.session_token"
		case "AccessDenied", "AccessDeniedException":
			return "Check IAM permissions for secretsmanager:GetSecretValue"
		case "DecryptionFailure":
			return "Check that the caller may use the secret's KMS key (kms:Decrypt)"
		case "ThrottlingException", "Throttling":
			return "AWS rate limit exceeded. Wait a moment and try again"
		}

		if errors.Is(err, vaultprovider.ErrSecretNotFound) {
			return "Verify the secret name and region. List secrets with: 'aws secretsmanager list-secrets --region <region>'"
		}
		if strings.Contains(errStr, "value is not a string") {
			return "The secret holds a binary value; only string secrets can be read"
		}
		if errors.Is(err, vaultprovider.ErrInvalidConfiguration) && AWSErrorCode(err) == "" &&
			!isNetworkError(err) {
			return "Check the configuration against the schema printed by 'vaultprovider-aws schema'"
		}
	}

	// Generic suggestions
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(errStr, "timeout") {
		return "The operation timed out. Check your network connection or raise --timeout"
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Unable to connect. Check your network, the region and --endpoint"
	}

	return ""
}

func isNetworkError(err error) bool {
	errStr := err.Error()
	return errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host")
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Already a user-friendly error
	if _, ok := err.(UserError); ok {
		return err
	}
	if _, ok := err.(ConfigError); ok {
		return err
	}
	if _, ok := err.(CommandError); ok {
		return err
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	// Simplify common technical errors
	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	// Return original error if we can't simplify it
	return err
}

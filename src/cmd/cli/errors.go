package main

import (
	"errors"
	"fmt"

	"failsift-agent/src/deepseek"
	"failsift-agent/src/jenkins"
)

// UserError wraps errors with user-friendly messages
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts pipeline errors to user-friendly messages
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, jenkins.ErrAuthFailed) {
		return &UserError{
			Message: "Jenkins authentication failed",
			Hint:    "Check that JENKINS_USER and JENKINS_TOKEN are valid.\n  Tokens are created under Jenkins > your user > Configure > API Token.",
			Err:     err,
		}
	}

	if errors.Is(err, jenkins.ErrNotFound) {
		return &UserError{
			Message: "Jenkins job or build not found",
			Hint:    "Check that JENKINS_URL points at the server root and JOB_NAME matches the job name exactly.",
			Err:     err,
		}
	}

	if errors.Is(err, deepseek.ErrMissingAPIKey) {
		return &UserError{
			Message: "DeepSeek API key is not configured",
			Hint:    "Set the DEEPSEEK_API_KEY environment variable.",
			Err:     err,
		}
	}

	return err
}

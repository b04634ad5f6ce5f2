package llm

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ConfigError reports an unusable provider configuration: zero or several
// enabled providers, a missing key, or a placeholder key.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "AI configuration error: " + e.Msg
}

// ProviderError reports a failed call to an AI backend. Status is the HTTP
// status when the backend answered, zero for transport failures.
type ProviderError struct {
	Provider   ProviderName
	Status     int
	Message    string
	RetryAfter time.Duration
	Err        error
}

func (e *ProviderError) Error() string {
	name := string(e.Provider)
	if name == "" {
		name = "AI provider"
	}
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s API error: %d %s", name, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s request failed: %s", name, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", name, e.Err)
	default:
		return name + " request failed"
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Transient reports whether retrying the same request could succeed.
func (e *ProviderError) Transient() bool {
	switch {
	case e.Status == 0:
		return true
	case e.Status == http.StatusTooManyRequests, e.Status == http.StatusRequestTimeout:
		return true
	case e.Status >= 500:
		return true
	}
	return false
}

// ErrInvalidResponse indicates the backend answered successfully but the
// payload carried no usable reply.
type ErrInvalidResponse struct {
	Provider ProviderName
	Err      error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid %s response: %v", e.Provider, e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// IsConfigError reports whether err stems from provider configuration.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

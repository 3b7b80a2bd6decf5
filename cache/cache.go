package cache

import (
	"errors"
	"fmt"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a logical cache key.
const MaxKeyLength = 512

// Messages passed to Request.OnError.
const (
	MessageCacheMissing  = "cache not exists or expired"
	MessageRequestFailed = "request failed"
)

// Sentinel errors for cache operations.
var (
	ErrNilStore            = errors.New("cache: store is nil")
	ErrInvalidKey          = errors.New("cache: key is invalid")
	ErrKeyTooLong          = errors.New("cache: key exceeds max length")
	ErrIdentityUnavailable = errors.New("cache: identity unavailable")
	ErrCorruptRecord       = errors.New("cache: corrupt record")
	ErrEncode              = errors.New("cache: encode failed")
)

// RequestError is the error delivered through Request.OnError, and yielded
// by Stream as the terminal error of a call.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// ValidateKey checks if a logical key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// IsPrecondition reports whether err is one of the errors Do returns instead
// of reporting through callbacks.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrIdentityUnavailable) ||
		errors.Is(err, ErrInvalidKey) ||
		errors.Is(err, ErrKeyTooLong)
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptRecord, fmt.Sprintf(format, args...))
}

package cart

import (
	"errors"
	"fmt"
)

var errKVRequired = errors.New("cart kv store required")

// MissingProviderError reports use of the cart contract without an
// initialized engine. It is a programming error and is never retried.
type MissingProviderError struct {
	Op string
}

func (e *MissingProviderError) Error() string {
	if e == nil || e.Op == "" {
		return "cart: engine not initialized"
	}
	return fmt.Sprintf("cart: %s called without an initialized engine", e.Op)
}

// IsMissingProvider reports whether err is, or wraps, a MissingProviderError.
func IsMissingProvider(err error) bool {
	var target *MissingProviderError
	return errors.As(err, &target)
}

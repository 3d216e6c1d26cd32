package commerce

import "errors"

var (
	// ErrProductNotFound is returned when an order references a product that
	// does not exist. It is a business error: callers translate it to a
	// client fault, not a server one.
	ErrProductNotFound = errors.New("referenced product not found")

	// ErrInsufficientStock is returned when an order asks for more units than
	// the product has in stock. The conditional decrement affected zero rows
	// and the surrounding transaction was rolled back.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// IsBusinessError reports whether err should surface to callers as a client
// fault (400-equivalent) rather than a server fault.
func IsBusinessError(err error) bool {
	if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInsufficientStock) {
		return true
	}
	var verr ValidationError
	return errors.As(err, &verr)
}

// ValidationError wraps payload validation failures so they can be told apart
// from persistence failures.
type ValidationError struct {
	Err error
}

func (e ValidationError) Error() string { return "invalid payload: " + e.Err.Error() }

func (e ValidationError) Unwrap() error { return e.Err }

package service

import "errors"

// Sentinel errors for the whole business layer. Handlers translate these
// to HTTP status codes; anything unwrapped falls through as internal.
var (
	ErrValidation         = errors.New("validation")          // 400
	ErrInsufficientStock  = errors.New("insufficient stock")  // 400
	ErrInvalidCredentials = errors.New("invalid credentials") // 401
	ErrInvalidToken       = errors.New("invalid token")       // 401
	ErrForbidden          = errors.New("forbidden")           // 403
	ErrNotFound           = errors.New("not found")           // 404
	ErrConflict           = errors.New("conflict")            // 409
	ErrEmptyCart          = errors.New("cart is empty")       // 400
)

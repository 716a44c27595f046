package errs

import (
	"errors"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrBookUnavailable     = errors.New("book is already borrowed")
	ErrNotReturnable       = errors.New("borrow record is not an open approved loan")
	ErrInvalidAction       = errors.New(`invalid action. use "approve" or "reject"`)
	ErrNoFineToPay         = errors.New("no fine to pay")
	ErrInsufficientPayment = errors.New("insufficient payment, full fine must be paid")
	ErrAlreadyExists       = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrRoleMismatch        = errors.New("unauthorized login for expected role")
)

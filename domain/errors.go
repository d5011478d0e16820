package domain

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrAlreadyExists          = errors.New("already exists")
	ErrDuplicateInvoiceNumber = errors.New("duplicate invoice number")
	ErrInvoiceNumberExhausted = errors.New("invoice number retries exhausted")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrForbidden              = errors.New("forbidden")
)

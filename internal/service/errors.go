package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidPrice      = fmt.Errorf("%w: price must be greater than zero", ErrValidation)
	ErrInvalidPayment    = fmt.Errorf("%w: invalid payment", ErrValidation)
	ErrPaymentProvider   = errors.New("payment provider failure")
	ErrImportUnavailable = errors.New("menu import is not configured")
)

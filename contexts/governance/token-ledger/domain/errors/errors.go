package errors

import "errors"

var (
	ErrInvalidTokenInput   = errors.New("invalid token input")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSelfTransfer        = errors.New("transfer to self is not allowed")
)

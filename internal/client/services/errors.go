package services

import "errors"

var (
	ErrNotAuthenticated = errors.New("please log in first")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrItemNotInCart    = errors.New("item is not in the cart")
)

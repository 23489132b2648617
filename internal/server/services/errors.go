package services

import "github.com/dmitrijs2005/vamazon/internal/common"

// Error is a service failure with a client-facing message. Kind is one of
// the sentinels in internal/common and decides the HTTP status.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string { return e.Detail }
func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrEmailTaken         = &Error{common.ErrorAlreadyExists, "Email already registered"}
	ErrInvalidCredentials = &Error{common.ErrorUnauthorized, "Invalid email or password"}
	ErrNotAuthenticated   = &Error{common.ErrorUnauthorized, "Not authenticated"}
	ErrAdminRequired      = &Error{common.ErrorForbidden, "Admin privileges required"}

	ErrProductNotFound  = &Error{common.ErrorNotFound, "Product not found"}
	ErrCategoryNotFound = &Error{common.ErrorNotFound, "Category not found"}
	ErrCartNotFound     = &Error{common.ErrorNotFound, "Cart not found"}
	ErrCartItemNotFound = &Error{common.ErrorNotFound, "Cart item not found"}
	ErrOrderNotFound    = &Error{common.ErrorNotFound, "Order not found"}
	ErrNotInWishlist    = &Error{common.ErrorNotFound, "Item not in wishlist"}

	ErrCartIsEmpty = &Error{common.ErrCartEmpty, "Cart is empty"}
	ErrOutOfStock  = &Error{common.ErrInsufficientStock, "Insufficient stock"}
)

func validationError(detail string) error {
	return &Error{Kind: common.ErrorValidation, Detail: detail}
}

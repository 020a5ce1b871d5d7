package order

import "errors"

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrAlreadyCompleted      = errors.New("order already completed")
	ErrAlreadyPending        = errors.New("order currently in payment pending")
	ErrAlreadyCancelled      = errors.New("order already cancelled")
	ErrInsufficientInventory = errors.New("ticket quantity is not enough")
	ErrCompletionLocked      = errors.New("another completion is in progress for this ticket")
)

// IsStateConflict reports whether err is an invalid status transition or an
// inventory shortfall, the cases rendered as HTTP 409.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrAlreadyPending) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, ErrInsufficientInventory) ||
		errors.Is(err, ErrCompletionLocked)
}

package db

import (
	"errors"
	"fmt"
	"time"

	"lasalleserve/models"
)

// Validation failures caught before any row is touched.
var (
	ErrEmptyLoan         = errors.New("loan needs a room or at least one facility")
	ErrInvalidWindow     = errors.New("booking window ends before it starts")
	ErrInvalidQuantity   = errors.New("requested quantity must be positive")
	ErrMissingAttachment = errors.New("room booking outside operating hours requires a permission letter")
	ErrUnknownStatus     = errors.New("unknown loan status")
	ErrInvalidCondition  = errors.New("unknown return condition")
	ErrItemNotInLoan     = errors.New("returned item was not part of the loan")
	ErrDuplicateAsset    = errors.New("asset appears more than once in the request")
	ErrAssetInUse        = errors.New("asset is referenced by a live loan")
	ErrNotARoom          = errors.New("referenced asset is not a room")
	ErrNotAFacility      = errors.New("line items may only reference facilities")
)

// Authorization failures.
var (
	ErrForbidden    = errors.New("role is not allowed to perform this operation")
	ErrSelfApproval = errors.New("borrowers cannot approve their own loans")
	ErrNotOwner     = errors.New("loan belongs to another borrower")
	ErrUserInUse    = errors.New("user still has live loans")
	ErrLastAdmin    = errors.New("cannot remove the last admin account")
)

// InvalidTransitionError reports an illegal status change; nothing is
// persisted when it is returned.
type InvalidTransitionError struct {
	From, To models.LoanStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("loan cannot move from %q to %q", e.From, e.To)
}

// ResourceConflictError reports a double booking of a room.
type ResourceConflictError struct {
	AssetName string
	Borrower  string
	StartDate time.Time
	EndDate   time.Time
	StartTime string
	EndTime   string
}

func (e *ResourceConflictError) Error() string {
	return fmt.Sprintf("%s is already booked by %s for %s..%s %s-%s",
		e.AssetName, e.Borrower,
		e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02"),
		e.StartTime, e.EndTime)
}

// InsufficientStockError reports that a facility's pool cannot cover a
// request, either in a booking window or at approval time.
type InsufficientStockError struct {
	AssetName string
	Requested int
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock of %s: requested %d, %d remaining",
		e.AssetName, e.Requested, e.Remaining)
}

// OverReturnError reports a return of more units than were loaned.
type OverReturnError struct {
	AssetName string
	Loaned    int
	Returned  int
}

func (e *OverReturnError) Error() string {
	return fmt.Sprintf("cannot return %d units of %s, only %d were loaned",
		e.Returned, e.AssetName, e.Loaned)
}

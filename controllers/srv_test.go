package controllers

import (
	"errors"
	"net/http"
	"testing"

	"lasalleserve/db"
	"lasalleserve/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"forbidden", db.ErrForbidden, http.StatusForbidden},
		{"self approval", db.ErrSelfApproval, http.StatusForbidden},
		{"not owner", db.ErrNotOwner, http.StatusForbidden},
		{"empty loan", db.ErrEmptyLoan, http.StatusBadRequest},
		{"invalid window", db.ErrInvalidWindow, http.StatusBadRequest},
		{"missing attachment", db.ErrMissingAttachment, http.StatusBadRequest},
		{"item not in loan", db.ErrItemNotInLoan, http.StatusBadRequest},
		{"duplicate asset", db.ErrDuplicateAsset, http.StatusBadRequest},
		{"last admin", db.ErrLastAdmin, http.StatusBadRequest},
		{"user in use", db.ErrUserInUse, http.StatusBadRequest},
		{
			"invalid transition",
			&db.InvalidTransitionError{From: models.StatusCompleted, To: models.StatusPending},
			http.StatusConflict,
		},
		{
			"booking conflict",
			&db.ResourceConflictError{AssetName: "Aula", Borrower: "Dina"},
			http.StatusConflict,
		},
		{
			"insufficient stock",
			&db.InsufficientStockError{AssetName: "Projector", Requested: 3, Remaining: 1},
			http.StatusConflict,
		},
		{
			"over return",
			&db.OverReturnError{AssetName: "Projector", Loaned: 2, Returned: 5},
			http.StatusBadRequest,
		},
		{"unknown", errors.New("pq: out of disk"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := statusFor(tc.err)
			assert.Equal(t, tc.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestStatusForHidesInternals(t *testing.T) {
	_, msg := statusFor(errors.New("dial tcp 10.0.0.3:5432: connection refused"))
	assert.Equal(t, "internal server error", msg)
}

func TestStatusForWrappedErrors(t *testing.T) {
	code, _ := statusFor(func() error {
		return errTagged{db.ErrForbidden}
	}())
	assert.Equal(t, http.StatusForbidden, code)
}

type errTagged struct{ inner error }

func (e errTagged) Error() string { return "loan update: " + e.inner.Error() }
func (e errTagged) Unwrap() error { return e.inner }

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoanStatusTransitions(t *testing.T) {
	all := []LoanStatus{
		StatusPending, StatusApproved, StatusRejected,
		StatusAwaitingReturn, StatusCompleted,
	}

	allowed := map[LoanStatus]map[LoanStatus]bool{
		StatusPending:        {StatusApproved: true, StatusRejected: true},
		StatusApproved:       {StatusAwaitingReturn: true, StatusRejected: true},
		StatusAwaitingReturn: {StatusCompleted: true},
		StatusRejected:       {StatusPending: true},
		StatusCompleted:      {},
	}

	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			want := allowed[from][to]
			assert.Equalf(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestLoanStatusCompletedIsTerminal(t *testing.T) {
	for _, to := range []LoanStatus{
		StatusPending, StatusApproved, StatusRejected,
		StatusAwaitingReturn, StatusCompleted,
	} {
		assert.False(t, StatusCompleted.CanTransitionTo(to))
	}
}

func TestLoanStatusLive(t *testing.T) {
	assert.True(t, StatusPending.Live())
	assert.True(t, StatusApproved.Live())
	assert.True(t, StatusAwaitingReturn.Live())
	assert.False(t, StatusRejected.Live())
	assert.False(t, StatusCompleted.Live())
}

func TestLoanStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusAwaitingReturn.Valid())
	assert.False(t, LoanStatus("archived").Valid())
	assert.False(t, LoanStatus("").Valid())
}

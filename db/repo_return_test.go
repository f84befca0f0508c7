package db

import (
	"context"
	"testing"

	"lasalleserve/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessReturnRejectsNonStaff(t *testing.T) {
	repo, mock := newMockRepo(t)

	_, err := repo.ProcessReturn(context.Background(), ProcessReturnInput{
		LoanID:    "loan-1",
		ActorRole: models.RoleStudent,
	})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessReturnRejectsBadInputUpFront(t *testing.T) {
	repo, mock := newMockRepo(t)

	_, err := repo.ProcessReturn(context.Background(), ProcessReturnInput{
		LoanID:    "loan-1",
		ActorRole: models.RoleStaff,
		Items:     []ReturnedItem{{AssetID: "a-1", Quantity: 1, Condition: "soggy"}},
	})
	assert.ErrorIs(t, err, ErrInvalidCondition)

	_, err = repo.ProcessReturn(context.Background(), ProcessReturnInput{
		LoanID:    "loan-1",
		ActorRole: models.RoleStaff,
		Items:     []ReturnedItem{{AssetID: "a-1", Quantity: 0, Condition: models.ConditionGood}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// Neither request touched the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessReturnSplitEntriesForSameAsset(t *testing.T) {
	repo, mock := newMockRepo(t)

	// 3 units went out. Split across two entries, each 2 would pass a
	// per-entry comparison and credit the ledger twice; the request is
	// rejected before the database is touched.
	_, err := repo.ProcessReturn(context.Background(), ProcessReturnInput{
		LoanID:    "loan-1",
		ActorRole: models.RoleStaff,
		ActorID:   "staff-1",
		Items: []ReturnedItem{
			{AssetID: "a-1", Quantity: 2, Condition: models.ConditionGood},
			{AssetID: "a-1", Quantity: 2, Condition: models.ConditionGood},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicateAsset)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessReturnSplitConditionsForSameAsset(t *testing.T) {
	repo, mock := newMockRepo(t)

	// A line item records exactly one returned condition, so a split by
	// condition is rejected too, even when the quantities would fit.
	_, err := repo.ProcessReturn(context.Background(), ProcessReturnInput{
		LoanID:    "loan-1",
		ActorRole: models.RoleStaff,
		Items: []ReturnedItem{
			{AssetID: "a-1", Quantity: 1, Condition: models.ConditionGood},
			{AssetID: "a-1", Quantity: 1, Condition: models.ConditionLost},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicateAsset)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessReturnCompletedLoan(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "loans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow("loan-1", "completed"))
	mock.ExpectRollback()

	_, err := repo.ProcessReturn(context.Background(), ProcessReturnInput{
		LoanID:    "loan-1",
		ActorRole: models.RoleStaff,
	})
	var transition *InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, models.StatusCompleted, transition.From)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessReturnOverReturn(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Two units went out; five come back. Nothing is written.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "loans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow("loan-1", "awaiting_return"))
	mock.ExpectQuery(`SELECT \* FROM "loan_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id", "asset_id", "quantity"}).
			AddRow(1, "loan-1", "a-1", 2))
	mock.ExpectQuery(`SELECT \* FROM "assets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("a-1", "Projector"))
	mock.ExpectRollback()

	_, err := repo.ProcessReturn(context.Background(), ProcessReturnInput{
		LoanID:    "loan-1",
		ActorRole: models.RoleStaff,
		ActorID:   "staff-1",
		Items:     []ReturnedItem{{AssetID: "a-1", Quantity: 5, Condition: models.ConditionGood}},
	})
	var over *OverReturnError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, "Projector", over.AssetName)
	assert.Equal(t, 2, over.Loaned)
	assert.Equal(t, 5, over.Returned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessReturnUnknownItem(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "loans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow("loan-1", "approved"))
	mock.ExpectQuery(`SELECT \* FROM "loan_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id", "asset_id", "quantity"}).
			AddRow(1, "loan-1", "a-1", 2))
	mock.ExpectRollback()

	_, err := repo.ProcessReturn(context.Background(), ProcessReturnInput{
		LoanID:    "loan-1",
		ActorRole: models.RoleAdmin,
		Items:     []ReturnedItem{{AssetID: "other", Quantity: 1, Condition: models.ConditionGood}},
	})
	assert.ErrorIs(t, err, ErrItemNotInLoan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

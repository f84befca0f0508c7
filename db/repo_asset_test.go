package db

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReserveStock(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assets" SET "available_stock"=available_stock - `).
		WithArgs(2, "asset-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "asset_conditions" SET "quantity"=quantity - `).
		WithArgs(2, "asset-1", "good", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		return repo.reserveStock(tx, "asset-1", 2)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveStockInsufficient(t *testing.T) {
	repo, mock := newMockRepo(t)

	// The guard rejects the debit, so the helper reads the asset back
	// to report what is actually left.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assets" SET "available_stock"=available_stock - `).
		WithArgs(5, "asset-1", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "assets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "available_stock"}).
			AddRow("asset-1", "Projector", 3))
	mock.ExpectRollback()

	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		return repo.reserveStock(tx, "asset-1", 5)
	})
	var stock *InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, "Projector", stock.AssetName)
	assert.Equal(t, 5, stock.Requested)
	assert.Equal(t, 3, stock.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveStockGoodBucketShort(t *testing.T) {
	repo, mock := newMockRepo(t)

	// available_stock covers the debit but the good bucket does not
	// (damaged units still count as available until repaired out). The
	// error reports the bucket, not the already-debited pool.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assets" SET "available_stock"=available_stock - `).
		WithArgs(3, "asset-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "asset_conditions" SET "quantity"=quantity - `).
		WithArgs(3, "asset-1", "good", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "assets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("asset-1", "Projector"))
	mock.ExpectQuery(`SELECT \* FROM "asset_conditions"`).
		WillReturnRows(sqlmock.NewRows([]string{"asset_id", "condition", "quantity"}).
			AddRow("asset-1", "good", 1))
	mock.ExpectRollback()

	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		return repo.reserveStock(tx, "asset-1", 3)
	})
	var stock *InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, "Projector", stock.AssetName)
	assert.Equal(t, 1, stock.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseStock(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assets" SET "available_stock"=available_stock \+ `).
		WithArgs(2, "asset-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "asset_conditions" SET "quantity"=quantity \+ `).
		WithArgs(2, "asset-1", "good").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		return repo.releaseStock(tx, "asset-1", 2)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiveReturnGood(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Good units rejoin both pools and the good bucket.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assets" SET "available_stock"=available_stock \+ .+"total_stock"=total_stock \+ `).
		WithArgs(2, 2, "asset-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "asset_conditions" SET "quantity"=quantity \+ `).
		WithArgs(2, "asset-1", "good").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		return repo.receiveReturn(tx, "asset-1", "loan-1", 2, "good", "staff-1")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiveReturnDamaged(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Damaged units re-enter total_stock only; a first-ever bucket row
	// is created on the fly.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assets" SET "total_stock"=total_stock \+ `).
		WithArgs(1, "asset-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "asset_conditions" SET "quantity"=quantity \+ `).
		WithArgs(1, "asset-1", "light_damage").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "asset_conditions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		return repo.receiveReturn(tx, "asset-1", "loan-1", 1, "light_damage", "staff-1")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiveReturnLost(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Lost units shrink total_stock and leave an audit row; nothing
	// goes back into available_stock.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assets" SET "total_stock"=total_stock - `).
		WithArgs(1, "asset-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "stock_losses"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		return repo.receiveReturn(tx, "asset-1", "loan-1", 1, "lost", "staff-1")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiveReturnUnknownCondition(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		return repo.receiveReturn(tx, "asset-1", "loan-1", 1, "soggy", "staff-1")
	})
	assert.ErrorIs(t, err, ErrInvalidCondition)
}

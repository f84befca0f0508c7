package db

import (
	"context"

	"lasalleserve/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReturnedItem struct {
	AssetID   string
	Quantity  int
	Condition string
}

type ProcessReturnInput struct {
	LoanID    string
	Items     []ReturnedItem
	Notes     string
	ActorID   string
	ActorRole models.Role
}

// ProcessReturn closes a loan and reconciles the ledger with the
// condition each unit came back in. Every returned item is validated
// against the original line items before anything is written, and the
// whole return commits or rolls back as one unit. Room-only loans have
// no line items and just close.
func (r *Repo) ProcessReturn(ctx context.Context, in ProcessReturnInput) (*models.Loan, error) {
	if !in.ActorRole.CanProcessReturn() {
		return nil, ErrForbidden
	}
	seen := make(map[string]bool, len(in.Items))
	for _, item := range in.Items {
		if !models.ValidReturnCondition(item.Condition) {
			return nil, ErrInvalidCondition
		}
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		// Each line item takes one condition and one returned quantity;
		// split entries would also slip past the over-return check,
		// which compares entry by entry.
		if seen[item.AssetID] {
			return nil, ErrDuplicateAsset
		}
		seen[item.AssetID] = true
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&loan, "id = ?", in.LoanID).Error; err != nil {
			return err
		}
		if loan.Status != models.StatusApproved && loan.Status != models.StatusAwaitingReturn {
			return &InvalidTransitionError{From: loan.Status, To: models.StatusCompleted}
		}

		if err := tx.Where("loan_id = ?", loan.ID).Find(&loan.Items).Error; err != nil {
			return err
		}
		byAsset := make(map[string]models.LoanItem, len(loan.Items))
		for _, li := range loan.Items {
			byAsset[li.AssetID] = li
		}

		// Validate everything up front so no ledger row moves on a bad
		// request.
		for _, item := range in.Items {
			li, ok := byAsset[item.AssetID]
			if !ok {
				return ErrItemNotInLoan
			}
			if item.Quantity > li.Quantity {
				name := item.AssetID
				var a models.Asset
				if err := tx.First(&a, "id = ?", item.AssetID).Error; err == nil {
					name = a.Name
				}
				return &OverReturnError{AssetName: name, Loaned: li.Quantity, Returned: item.Quantity}
			}
		}

		for _, item := range in.Items {
			li := byAsset[item.AssetID]
			if err := tx.Model(&models.LoanItem{}).
				Where("id = ?", li.ID).
				Updates(map[string]interface{}{
					"returned_condition": item.Condition,
					"returned_quantity":  item.Quantity,
				}).Error; err != nil {
				return err
			}
			if err := r.receiveReturn(tx, item.AssetID, loan.ID, item.Quantity, item.Condition, in.ActorID); err != nil {
				return err
			}
		}

		return tx.Model(&models.Loan{}).
			Where("id = ?", loan.ID).
			Updates(map[string]interface{}{
				"status":       models.StatusCompleted,
				"returned_at":  gorm.Expr("NOW()"),
				"returned_by":  in.ActorID,
				"return_notes": in.Notes,
				"updated_at":   gorm.Expr("NOW()"),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindLoanByID(ctx, in.LoanID)
}

// ListPendingReturns lists loans that still have assets out: approved
// or already pushed to awaiting_return by the sweeper.
func (r *Repo) ListPendingReturns(ctx context.Context, viewerID string, role models.Role) ([]models.Loan, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Preload("Borrower").
		Preload("Room").
		Preload("Items.Asset").
		Where("status IN ?", []models.LoanStatus{models.StatusApproved, models.StatusAwaitingReturn}).
		Order("end_date ASC")
	if !role.IsStaff() {
		tx = tx.Where("borrower_id = ?", viewerID)
	}

	var loans []models.Loan
	err := tx.Find(&loans).Error
	return loans, err
}

type ReturnHistoryQuery struct {
	ViewerID     string
	ViewerRole   models.Role
	AcademicYear string
	Semester     string
}

func (r *Repo) ListReturnHistory(ctx context.Context, q ReturnHistoryQuery) ([]models.Loan, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Preload("Borrower").
		Preload("Room").
		Preload("Items.Asset").
		Where("status = ?", models.StatusCompleted).
		Order("returned_at DESC")
	if !q.ViewerRole.IsStaff() {
		tx = tx.Where("borrower_id = ?", q.ViewerID)
	}
	if q.AcademicYear != "" {
		tx = tx.Where("academic_year = ?", q.AcademicYear)
	}
	if q.Semester != "" && q.Semester != "all" {
		tx = tx.Where("semester = ?", q.Semester)
	}

	var loans []models.Loan
	err := tx.Find(&loans).Error
	return loans, err
}

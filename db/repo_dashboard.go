package db

import (
	"context"

	"lasalleserve/models"
)

type StaffStats struct {
	TotalAssets    int64 `json:"totalAssets"`
	TotalLoans     int64 `json:"totalLoans"`
	TotalReports   int64 `json:"totalReports"`
	LowStockAssets int64 `json:"lowStockAssets"`
	PendingLoans   int64 `json:"pendingLoans"`
	ActiveLoans    int64 `json:"activeLoans"`
	PendingReports int64 `json:"pendingReports"`
	OverdueLoans   int64 `json:"overdueLoans"`
}

type BorrowerStats struct {
	ActiveLoans  int64 `json:"activeLoans"`
	PendingLoans int64 `json:"pendingLoans"`
	TotalReports int64 `json:"totalReports"`
}

func (r *Repo) StaffDashboard(ctx context.Context) (*StaffStats, error) {
	db := r.DB.WithContext(ctx)
	var s StaffStats

	steps := []func() error{
		func() error { return db.Model(&models.Asset{}).Count(&s.TotalAssets).Error },
		func() error { return db.Model(&models.Loan{}).Count(&s.TotalLoans).Error },
		func() error { return db.Model(&models.DamageReport{}).Count(&s.TotalReports).Error },
		func() error {
			return db.Model(&models.Asset{}).
				Where("category = ? AND available_stock < ?", models.CategoryFacility, 5).
				Count(&s.LowStockAssets).Error
		},
		func() error {
			return db.Model(&models.Loan{}).
				Where("status = ?", models.StatusPending).
				Count(&s.PendingLoans).Error
		},
		func() error {
			return db.Model(&models.Loan{}).
				Where("status = ?", models.StatusApproved).
				Count(&s.ActiveLoans).Error
		},
		func() error {
			return db.Model(&models.DamageReport{}).
				Where("status = ?", models.ReportPending).
				Count(&s.PendingReports).Error
		},
		func() error {
			return db.Model(&models.Loan{}).
				Where("status IN ? AND end_date < CURRENT_DATE",
					[]models.LoanStatus{models.StatusApproved, models.StatusAwaitingReturn}).
				Count(&s.OverdueLoans).Error
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (r *Repo) BorrowerDashboard(ctx context.Context, userID string) (*BorrowerStats, error) {
	db := r.DB.WithContext(ctx)
	var s BorrowerStats

	if err := db.Model(&models.Loan{}).
		Where("borrower_id = ? AND status = ?", userID, models.StatusApproved).
		Count(&s.ActiveLoans).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Loan{}).
		Where("borrower_id = ? AND status = ?", userID, models.StatusPending).
		Count(&s.PendingLoans).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.DamageReport{}).
		Where("reported_by = ?", userID).
		Count(&s.TotalReports).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

package db

import (
	"context"
	"errors"
	"strings"

	"lasalleserve/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ---- inventory ledger ----
//
// The ledger helpers run inside a caller-owned transaction so that a
// failure on any item rolls back every item. total_stock is left alone
// by reserve/release; returns add back into it and only genuine losses
// shrink it.

// reserveStock debits available_stock and the good bucket together.
// Both updates are guarded so a concurrent reservation that already
// consumed the units fails the transition instead of going negative.
func (r *Repo) reserveStock(tx *gorm.DB, assetID string, qty int) error {
	res := tx.Model(&models.Asset{}).
		Where("id = ? AND available_stock >= ?", assetID, qty).
		UpdateColumn("available_stock", gorm.Expr("available_stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.stockError(tx, assetID, qty)
	}

	res = tx.Model(&models.AssetCondition{}).
		Where("asset_id = ? AND condition = ? AND quantity >= ?",
			assetID, models.ConditionGood, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.goodBucketError(tx, assetID, qty)
	}
	return nil
}

// releaseStock is the inverse of reserveStock, used when an approved
// loan is rejected.
func (r *Repo) releaseStock(tx *gorm.DB, assetID string, qty int) error {
	if err := tx.Model(&models.Asset{}).
		Where("id = ?", assetID).
		UpdateColumn("available_stock", gorm.Expr("available_stock + ?", qty)).Error; err != nil {
		return err
	}
	return r.bumpCondition(tx, assetID, models.ConditionGood, qty)
}

// receiveReturn routes returned units into the ledger by reported
// condition. Good units become loanable again; damaged units re-enter
// total_stock but stay out of available_stock; lost units shrink
// total_stock and leave an audit row.
func (r *Repo) receiveReturn(tx *gorm.DB, assetID, loanID string, qty int, condition, recordedBy string) error {
	switch condition {
	case models.ConditionGood:
		if err := tx.Model(&models.Asset{}).
			Where("id = ?", assetID).
			UpdateColumns(map[string]interface{}{
				"available_stock": gorm.Expr("available_stock + ?", qty),
				"total_stock":     gorm.Expr("total_stock + ?", qty),
			}).Error; err != nil {
			return err
		}
		return r.bumpCondition(tx, assetID, models.ConditionGood, qty)

	case models.ConditionLightDamage, models.ConditionHeavyDamage:
		if err := tx.Model(&models.Asset{}).
			Where("id = ?", assetID).
			UpdateColumn("total_stock", gorm.Expr("total_stock + ?", qty)).Error; err != nil {
			return err
		}
		return r.bumpCondition(tx, assetID, condition, qty)

	case models.ConditionLost:
		if err := tx.Model(&models.Asset{}).
			Where("id = ?", assetID).
			UpdateColumn("total_stock", gorm.Expr("total_stock - ?", qty)).Error; err != nil {
			return err
		}
		return tx.Create(&models.StockLoss{
			AssetID:    assetID,
			LoanID:     loanID,
			Quantity:   qty,
			RecordedBy: recordedBy,
		}).Error

	default:
		return ErrInvalidCondition
	}
}

// bumpCondition credits a bucket, creating it on first use.
func (r *Repo) bumpCondition(tx *gorm.DB, assetID, condition string, qty int) error {
	res := tx.Model(&models.AssetCondition{}).
		Where("asset_id = ? AND condition = ?", assetID, condition).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(&models.AssetCondition{
			AssetID:   assetID,
			Condition: condition,
			Quantity:  qty,
		}).Error
	}
	return nil
}

// stockError reads back the asset to build a message with what is
// actually left.
func (r *Repo) stockError(tx *gorm.DB, assetID string, requested int) error {
	var a models.Asset
	if err := tx.First(&a, "id = ?", assetID).Error; err != nil {
		return err
	}
	remaining := a.AvailableStock
	if remaining < 0 {
		remaining = 0
	}
	return &InsufficientStockError{AssetName: a.Name, Requested: requested, Remaining: remaining}
}

// goodBucketError is the variant for the second reserve guard. By the
// time it runs, available_stock has already been debited in this tx,
// so the honest remainder is the good bucket's quantity.
func (r *Repo) goodBucketError(tx *gorm.DB, assetID string, requested int) error {
	var a models.Asset
	if err := tx.First(&a, "id = ?", assetID).Error; err != nil {
		return err
	}
	remaining := 0
	var c models.AssetCondition
	err := tx.Where("asset_id = ? AND condition = ?", assetID, models.ConditionGood).
		First(&c).Error
	switch {
	case err == nil:
		remaining = c.Quantity
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}
	if remaining < 0 {
		remaining = 0
	}
	return &InsufficientStockError{AssetName: a.Name, Requested: requested, Remaining: remaining}
}

// ---- asset CRUD ----

type AssetQuery struct {
	Q             string
	Category      string // "", "room", "facility"
	AvailableOnly bool
}

func (r *Repo) ListAssets(ctx context.Context, q AssetQuery) ([]models.Asset, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Asset{}).Preload("Conditions")
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", like, like)
	}
	if q.Category != "" && q.Category != "all" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.AvailableOnly {
		tx = tx.Where("available_stock > 0")
	}

	var assets []models.Asset
	err := tx.Order("created_at DESC").Find(&assets).Error
	return assets, err
}

func (r *Repo) FindAssetByID(ctx context.Context, id string) (*models.Asset, error) {
	var a models.Asset
	if err := r.DB.WithContext(ctx).Preload("Conditions").
		First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

type CreateAssetInput struct {
	Name            string
	Category        string
	Location        string
	Description     string
	AcquisitionYear string
	Semester        string
	Conditions      map[string]int // condition -> quantity, good/light/heavy only
}

// CreateAsset seeds the stock counters from the condition buckets:
// total is the sum of all buckets, available is what is in good shape.
func (r *Repo) CreateAsset(ctx context.Context, in CreateAssetInput) (*models.Asset, error) {
	total := 0
	for c, qty := range in.Conditions {
		if c == models.ConditionLost || !models.ValidReturnCondition(c) {
			return nil, ErrInvalidCondition
		}
		if qty < 0 {
			return nil, ErrInvalidQuantity
		}
		total += qty
	}

	a := &models.Asset{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Category:        in.Category,
		Location:        in.Location,
		Description:     in.Description,
		AcquisitionYear: in.AcquisitionYear,
		Semester:        in.Semester,
		TotalStock:      total,
		AvailableStock:  in.Conditions[models.ConditionGood],
	}
	for c, qty := range in.Conditions {
		a.Conditions = append(a.Conditions, models.AssetCondition{Condition: c, Quantity: qty})
	}

	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

type UpdateAssetInput struct {
	Name            *string
	Location        *string
	Description     *string
	AcquisitionYear *string
	Semester        *string
}

// UpdateAsset changes descriptive fields only; stock moves through the
// ledger or AdjustCondition.
func (r *Repo) UpdateAsset(ctx context.Context, id string, in UpdateAssetInput) (*models.Asset, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.AcquisitionYear != nil {
		updates["acquisition_year"] = *in.AcquisitionYear
	}
	if in.Semester != nil {
		updates["semester"] = *in.Semester
	}

	if len(updates) > 0 {
		res := r.DB.WithContext(ctx).Model(&models.Asset{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindAssetByID(ctx, id)
}

// AdjustCondition moves qty units into (positive) or out of (negative)
// a bucket, keeping total_stock and, for the good bucket,
// available_stock in step. This is the repair path that lets damaged
// stock become loanable again, by explicit staff action only.
func (r *Repo) AdjustCondition(ctx context.Context, assetID, condition string, delta int) (*models.Asset, error) {
	if condition == models.ConditionLost || !models.ValidReturnCondition(condition) {
		return nil, ErrInvalidCondition
	}
	if delta == 0 {
		return r.FindAssetByID(ctx, assetID)
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Asset
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&a, "id = ?", assetID).Error; err != nil {
			return err
		}

		if delta < 0 {
			res := tx.Model(&models.AssetCondition{}).
				Where("asset_id = ? AND condition = ? AND quantity >= ?", assetID, condition, -delta).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return r.stockError(tx, assetID, -delta)
			}
		} else if err := r.bumpCondition(tx, assetID, condition, delta); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"total_stock": gorm.Expr("total_stock + ?", delta),
		}
		guard := tx.Model(&models.Asset{}).
			Where("id = ? AND total_stock + ? >= 0", assetID, delta)
		if condition == models.ConditionGood {
			updates["available_stock"] = gorm.Expr("available_stock + ?", delta)
			guard = guard.Where("available_stock + ? >= 0", delta)
		}
		res := guard.Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.stockError(tx, assetID, -delta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindAssetByID(ctx, assetID)
}

// DeleteAsset refuses while any live loan still references the asset.
func (r *Repo) DeleteAsset(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		live := []models.LoanStatus{models.StatusRejected, models.StatusCompleted}

		var n int64
		if err := tx.Model(&models.Loan{}).
			Where("room_id = ? AND status NOT IN ?", id, live).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAssetInUse
		}

		if err := tx.Table(models.LoanItemTable+" li").
			Joins("INNER JOIN "+models.LoanTable+" l ON l.id = li.loan_id").
			Where("li.asset_id = ? AND l.status NOT IN ?", id, live).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAssetInUse
		}

		if err := tx.Where("asset_id = ?", id).Delete(&models.AssetCondition{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Asset{ID: id})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

type StockCheck struct {
	Name           string `json:"name"`
	AvailableStock int    `json:"availableStock"`
	IsAvailable    bool   `json:"isAvailable"`
}

func (r *Repo) CheckStock(ctx context.Context, id string, quantity int) (*StockCheck, error) {
	var a models.Asset
	if err := r.DB.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &StockCheck{
		Name:           a.Name,
		AvailableStock: a.AvailableStock,
		IsAvailable:    a.AvailableStock >= quantity,
	}, nil
}

package db

import (
	"context"
	"strings"
	"time"

	"lasalleserve/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateReportInput struct {
	AssetID     string
	ReportedBy  string
	Description string
	Priority    string
	PhotoURL    *string
}

func (r *Repo) CreateDamageReport(ctx context.Context, in CreateReportInput) (*models.DamageReport, error) {
	now := time.Now()
	rep := &models.DamageReport{
		ID:           uuid.NewString(),
		AssetID:      in.AssetID,
		ReportedBy:   in.ReportedBy,
		Description:  in.Description,
		Priority:     in.Priority,
		Status:       models.ReportPending,
		PhotoURL:     in.PhotoURL,
		AcademicYear: models.AcademicYearAt(now),
		Semester:     models.SemesterAt(now),
	}
	if rep.Priority == "" {
		rep.Priority = models.PriorityLow
	}
	if err := r.DB.WithContext(ctx).Create(rep).Error; err != nil {
		return nil, err
	}
	return rep, nil
}

type ReportQuery struct {
	ViewerID   string
	ViewerRole models.Role
	Search     string
	Status     string
	Priority   string
}

// ListDamageReports scopes visibility: the head sees every report,
// everyone else only what they filed themselves.
func (r *Repo) ListDamageReports(ctx context.Context, q ReportQuery) ([]models.DamageReport, error) {
	tx := r.DB.WithContext(ctx).Model(&models.DamageReport{}).
		Preload("Asset").
		Preload("Reporter").
		Order("created_at DESC")

	if q.ViewerRole != models.RoleHead {
		tx = tx.Where("reported_by = ?", q.ViewerID)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where(
			"asset_id IN (?) OR reported_by IN (?)",
			r.DB.Model(&models.Asset{}).Select("id").Where("LOWER(name) LIKE ?", like),
			r.DB.Model(&models.User{}).Select("id").Where("LOWER(name) LIKE ?", like),
		)
	}
	if q.Status != "" && q.Status != "all" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Priority != "" && q.Priority != "all" {
		tx = tx.Where("priority = ?", q.Priority)
	}

	var reports []models.DamageReport
	err := tx.Find(&reports).Error
	return reports, err
}

func (r *Repo) FindDamageReportByID(ctx context.Context, id string) (*models.DamageReport, error) {
	var rep models.DamageReport
	if err := r.DB.WithContext(ctx).
		Preload("Asset").
		Preload("Reporter").
		First(&rep, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *Repo) UpdateDamageReportStatus(ctx context.Context, id, status, notes string) (*models.DamageReport, error) {
	res := r.DB.WithContext(ctx).Model(&models.DamageReport{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"notes":      notes,
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindDamageReportByID(ctx, id)
}

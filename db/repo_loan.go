package db

import (
	"context"
	"strings"
	"time"

	"lasalleserve/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ---- booking conflict checker ----

// Closed-interval overlap: [a,b] and [c,d] intersect iff a <= d && c <= b,
// so touching endpoints count. Zero-padded HH:MM strings compare
// correctly as text.
func timesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart <= bEnd && bStart <= aEnd
}

func datesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// conflictRow is one live loan competing for the same resource.
type conflictRow struct {
	LoanID       string
	BorrowerName string
	StartDate    time.Time
	EndDate      time.Time
	StartTime    string
	EndTime      string
	Quantity     int
}

// liveOverlaps returns live loans on the resource whose window
// intersects the candidate's. Dates are filtered in SQL, times with the
// closed-interval predicate here. The caller must already hold a row
// lock on the asset so racing creations serialize on it.
func (r *Repo) liveOverlaps(tx *gorm.DB, assetID string, asRoom bool, in CreateLoanInput) ([]conflictRow, error) {
	q := tx.Table(models.LoanTable + " l").
		Joins("INNER JOIN " + models.UserTable + " u ON u.id = l.borrower_id").
		Where("l.status NOT IN ?", []models.LoanStatus{models.StatusRejected, models.StatusCompleted}).
		Where("l.start_date <= ? AND l.end_date >= ?", in.EndDate, in.StartDate)

	if asRoom {
		q = q.Select("l.id AS loan_id, u.name AS borrower_name, l.start_date, l.end_date, l.start_time, l.end_time, 1 AS quantity").
			Where("l.room_id = ?", assetID)
	} else {
		q = q.Select("l.id AS loan_id, u.name AS borrower_name, l.start_date, l.end_date, l.start_time, l.end_time, li.quantity").
			Joins("INNER JOIN "+models.LoanItemTable+" li ON li.loan_id = l.id").
			Where("li.asset_id = ?", assetID)
	}

	var rows []conflictRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := rows[:0]
	for _, row := range rows {
		if timesOverlap(in.StartTime, in.EndTime, row.StartTime, row.EndTime) {
			out = append(out, row)
		}
	}
	return out, nil
}

// checkFacilityCapacity applies the shared-pool rule: quantities
// promised to overlapping live loans plus the candidate's may not
// exceed what the pool currently shows as available.
func checkFacilityCapacity(name string, available, requested int, overlapping []conflictRow) error {
	demand := 0
	for _, row := range overlapping {
		demand += row.Quantity
	}
	if demand+requested > available {
		remaining := available - demand
		if remaining < 0 {
			remaining = 0
		}
		return &InsufficientStockError{AssetName: name, Requested: requested, Remaining: remaining}
	}
	return nil
}

// ---- loan creation ----

type FacilityRequest struct {
	AssetID  string
	Quantity int
}

type CreateLoanInput struct {
	BorrowerID    string
	RoomID        *string
	Facilities    []FacilityRequest
	StartDate     time.Time
	EndDate       time.Time
	StartTime     string // "HH:MM"
	EndTime       string
	Purpose       string
	AcademicYear  string
	Semester      string
	AttachmentURL *string
}

func (in CreateLoanInput) validate(hours OperatingHours) error {
	if in.RoomID == nil && len(in.Facilities) == 0 {
		return ErrEmptyLoan
	}
	if in.EndDate.Before(in.StartDate) {
		return ErrInvalidWindow
	}
	if in.StartDate.Equal(in.EndDate) && in.EndTime < in.StartTime {
		return ErrInvalidWindow
	}
	seen := make(map[string]bool, len(in.Facilities))
	for _, f := range in.Facilities {
		if f.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		// One line item per asset; splitting a quantity across entries
		// would dodge the per-asset capacity check.
		if seen[f.AssetID] {
			return ErrDuplicateAsset
		}
		seen[f.AssetID] = true
	}
	if in.RoomID != nil && (in.StartTime < hours.Open || in.EndTime > hours.Close) {
		if in.AttachmentURL == nil || strings.TrimSpace(*in.AttachmentURL) == "" {
			return ErrMissingAttachment
		}
	}
	return nil
}

// CreateLoan validates, runs the conflict check and inserts the loan
// with its line items in one transaction. The asset rows involved are
// locked first, so the second of two racing requests blocks until the
// first commits and then sees its row. No stock moves here; that
// happens at approval.
func (r *Repo) CreateLoan(ctx context.Context, in CreateLoanInput) (*models.Loan, error) {
	if err := in.validate(r.Hours); err != nil {
		return nil, err
	}

	var loan *models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.RoomID != nil {
			var room models.Asset
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&room, "id = ?", *in.RoomID).Error; err != nil {
				return err
			}
			if room.Category != models.CategoryRoom {
				return ErrNotARoom
			}
			overlapping, err := r.liveOverlaps(tx, room.ID, true, in)
			if err != nil {
				return err
			}
			if len(overlapping) > 0 {
				c := overlapping[0]
				return &ResourceConflictError{
					AssetName: room.Name,
					Borrower:  c.BorrowerName,
					StartDate: c.StartDate,
					EndDate:   c.EndDate,
					StartTime: c.StartTime,
					EndTime:   c.EndTime,
				}
			}
		}

		for _, f := range in.Facilities {
			var asset models.Asset
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&asset, "id = ?", f.AssetID).Error; err != nil {
				return err
			}
			if asset.Category != models.CategoryFacility {
				return ErrNotAFacility
			}
			overlapping, err := r.liveOverlaps(tx, asset.ID, false, in)
			if err != nil {
				return err
			}
			if err := checkFacilityCapacity(asset.Name, asset.AvailableStock, f.Quantity, overlapping); err != nil {
				return err
			}
		}

		l := &models.Loan{
			ID:            uuid.NewString(),
			BorrowerID:    in.BorrowerID,
			RoomID:        in.RoomID,
			Purpose:       in.Purpose,
			StartDate:     in.StartDate,
			EndDate:       in.EndDate,
			StartTime:     in.StartTime,
			EndTime:       in.EndTime,
			Status:        models.StatusPending,
			AcademicYear:  in.AcademicYear,
			Semester:      in.Semester,
			AttachmentURL: in.AttachmentURL,
		}
		if l.AcademicYear == "" {
			l.AcademicYear = models.AcademicYearAt(in.StartDate)
		}
		if l.Semester == "" {
			l.Semester = models.SemesterAt(in.StartDate)
		}
		for _, f := range in.Facilities {
			l.Items = append(l.Items, models.LoanItem{AssetID: f.AssetID, Quantity: f.Quantity})
		}

		if err := tx.Create(l).Error; err != nil {
			return err
		}
		loan = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// ---- state machine ----

type StatusUpdateInput struct {
	LoanID    string
	Status    models.LoanStatus
	ActorID   string
	ActorRole models.Role
	Notes     string
}

// UpdateLoanStatus enforces the transition table and performs the
// ledger side effects bound to approval and post-approval rejection.
// Everything happens under a row lock on the loan; the first failing
// item rolls back the lot.
func (r *Repo) UpdateLoanStatus(ctx context.Context, in StatusUpdateInput) (*models.Loan, error) {
	if !in.Status.Valid() {
		return nil, ErrUnknownStatus
	}
	if !in.ActorRole.CanApprove() {
		return nil, ErrForbidden
	}

	var out *models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&loan, "id = ?", in.LoanID).Error; err != nil {
			return err
		}
		if err := tx.Where("loan_id = ?", loan.ID).Find(&loan.Items).Error; err != nil {
			return err
		}

		if !loan.Status.CanTransitionTo(in.Status) {
			return &InvalidTransitionError{From: loan.Status, To: in.Status}
		}
		if in.Status == models.StatusApproved && loan.BorrowerID == in.ActorID {
			return ErrSelfApproval
		}

		updates := map[string]interface{}{
			"status":     in.Status,
			"updated_at": gorm.Expr("NOW()"),
		}

		switch {
		case loan.Status == models.StatusPending && in.Status == models.StatusApproved:
			for _, item := range loan.Items {
				if err := r.reserveStock(tx, item.AssetID, item.Quantity); err != nil {
					return err
				}
			}
			updates["approved_by"] = in.ActorID
			updates["approval_notes"] = in.Notes

		case loan.Status == models.StatusApproved && in.Status == models.StatusRejected:
			for _, item := range loan.Items {
				if err := r.releaseStock(tx, item.AssetID, item.Quantity); err != nil {
					return err
				}
			}
			updates["approval_notes"] = in.Notes

		case in.Status == models.StatusRejected:
			updates["approval_notes"] = in.Notes

		case in.Status == models.StatusPending:
			// Resubmission looks like a fresh request.
			updates["approved_by"] = nil
			updates["approval_notes"] = ""
		}

		if err := tx.Model(&models.Loan{}).
			Where("id = ?", loan.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		loan.Status = in.Status
		out = &loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindLoanByID(ctx, out.ID)
}

// ---- queries ----

type LoanQuery struct {
	ViewerID   string
	ViewerRole models.Role
	Search     string
	Status     string // "" or "all" for everything
	AcademicYr string
	Semester   string
}

func (r *Repo) ListLoans(ctx context.Context, q LoanQuery) ([]models.Loan, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Preload("Borrower").
		Preload("Room").
		Preload("Items.Asset").
		Order("created_at DESC")

	// Borrowers only ever see their own loans.
	if !q.ViewerRole.IsStaff() {
		tx = tx.Where("borrower_id = ?", q.ViewerID)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where(
			"LOWER(purpose) LIKE ? OR borrower_id IN (?)", like,
			r.DB.Model(&models.User{}).Select("id").Where("LOWER(name) LIKE ?", like),
		)
	}
	if q.Status != "" && q.Status != "all" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.AcademicYr != "" {
		tx = tx.Where("academic_year = ?", q.AcademicYr)
	}
	if q.Semester != "" && q.Semester != "all" {
		tx = tx.Where("semester = ?", q.Semester)
	}

	var loans []models.Loan
	err := tx.Find(&loans).Error
	return loans, err
}

func (r *Repo) FindLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	var l models.Loan
	if err := r.DB.WithContext(ctx).
		Preload("Borrower").
		Preload("Room").
		Preload("Items.Asset").
		First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLoanFor applies ownership: staff see any loan, borrowers only
// their own.
func (r *Repo) GetLoanFor(ctx context.Context, id, viewerID string, role models.Role) (*models.Loan, error) {
	l, err := r.FindLoanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !role.IsStaff() && l.BorrowerID != viewerID {
		return nil, ErrNotOwner
	}
	return l, nil
}

// DeleteLoan lets a borrower withdraw their own loan while it is still
// pending. No stock was reserved yet, so there is nothing to release.
func (r *Repo) DeleteLoan(ctx context.Context, id, actorID string, role models.Role) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&loan, "id = ?", id).Error; err != nil {
			return err
		}
		if !role.IsStaff() && loan.BorrowerID != actorID {
			return ErrNotOwner
		}
		if loan.Status != models.StatusPending && loan.Status != models.StatusRejected {
			return &InvalidTransitionError{From: loan.Status, To: models.StatusRejected}
		}
		if err := tx.Where("loan_id = ?", id).Delete(&models.LoanItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Loan{ID: id}).Error
	})
}

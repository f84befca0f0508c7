package models

import "time"

const (
	LoanTable     = "loans"
	LoanItemTable = "loan_items"
)

type LoanStatus string

const (
	StatusPending        LoanStatus = "pending"
	StatusApproved       LoanStatus = "approved"
	StatusRejected       LoanStatus = "rejected"
	StatusAwaitingReturn LoanStatus = "awaiting_return"
	StatusCompleted      LoanStatus = "completed"
)

// transitions is the whole lifecycle: completed is terminal, rejected
// loans may be resubmitted.
var transitions = map[LoanStatus][]LoanStatus{
	StatusPending:        {StatusApproved, StatusRejected},
	StatusApproved:       {StatusAwaitingReturn, StatusRejected},
	StatusAwaitingReturn: {StatusCompleted},
	StatusRejected:       {StatusPending},
	StatusCompleted:      {},
}

func (s LoanStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Live reports whether the loan still counts toward booking conflicts
// and stock reservations.
func (s LoanStatus) Live() bool {
	return s != StatusRejected && s != StatusCompleted
}

type Loan struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	BorrowerID string `gorm:"type:uuid;index;not null" json:"borrowerId"`
	Borrower   *User  `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`

	// Rooms are booked via RoomID only; line items are facilities.
	RoomID *string `gorm:"type:uuid;index" json:"roomId,omitempty"`
	Room   *Asset  `gorm:"foreignKey:RoomID" json:"room,omitempty"`

	Purpose   string    `gorm:"size:500;not null" json:"purpose"`
	StartDate time.Time `gorm:"type:date;index;not null" json:"startDate"`
	EndDate   time.Time `gorm:"type:date;index;not null" json:"endDate"`
	StartTime string    `gorm:"size:5;not null" json:"startTime"` // "HH:MM"
	EndTime   string    `gorm:"size:5;not null" json:"endTime"`

	Status       LoanStatus `gorm:"size:20;index;not null;default:'pending'" json:"status"`
	AcademicYear string     `gorm:"size:9;index" json:"academicYear"`
	Semester     string     `gorm:"size:10" json:"semester"`

	// Permission letter for after-hours room bookings.
	AttachmentURL *string `gorm:"size:500" json:"attachmentUrl,omitempty"`

	ApprovedBy    *string `gorm:"type:uuid" json:"approvedBy,omitempty"`
	ApprovalNotes string  `gorm:"size:500" json:"approvalNotes,omitempty"`

	ReturnNotes string     `gorm:"size:500" json:"returnNotes,omitempty"`
	ReturnedAt  *time.Time `gorm:"index" json:"returnedAt,omitempty"`
	ReturnedBy  *string    `gorm:"type:uuid" json:"returnedBy,omitempty"`

	Items []LoanItem `gorm:"foreignKey:LoanID" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LoanItem struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	LoanID   string `gorm:"type:uuid;index;not null" json:"loanId"`
	AssetID  string `gorm:"type:uuid;index;not null" json:"assetId"`
	Asset    *Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	Quantity int    `gorm:"not null" json:"quantity"`

	// Written once, by return processing.
	ReturnedCondition *string `gorm:"size:20" json:"returnedCondition,omitempty"`
	ReturnedQuantity  *int    `json:"returnedQuantity,omitempty"`
}

func (Loan) TableName() string     { return LoanTable }
func (LoanItem) TableName() string { return LoanItemTable }

package controllers

import (
	"net/http"
	"time"

	"lasalleserve/app"
	"lasalleserve/db"
	"lasalleserve/models"

	"github.com/gin-gonic/gin"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

type facilityReq struct {
	ID       string `json:"id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type createLoanReq struct {
	RoomID        *string       `json:"roomId"`
	Facilities    []facilityReq `json:"facilities"`
	StartDate     string        `json:"startDate" binding:"required"`
	EndDate       string        `json:"endDate" binding:"required"`
	StartTime     string        `json:"startTime" binding:"required"`
	EndTime       string        `json:"endTime" binding:"required"`
	Purpose       string        `json:"purpose" binding:"required"`
	AcademicYear  string        `json:"academicYear"`
	Semester      string        `json:"semester"`
	AttachmentURL *string       `json:"attachmentUrl"`
}

func (lc *LoanController) Create(c *gin.Context) {
	var in createLoanReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	startDate, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "startDate must be YYYY-MM-DD"})
		return
	}
	endDate, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "endDate must be YYYY-MM-DD"})
		return
	}
	if !validClock(in.StartTime) || !validClock(in.EndTime) {
		c.JSON(http.StatusBadRequest, app.H{"error": "times must be HH:MM"})
		return
	}

	input := db.CreateLoanInput{
		BorrowerID:    app.UserIDFrom(c),
		RoomID:        in.RoomID,
		StartDate:     startDate,
		EndDate:       endDate,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Purpose:       in.Purpose,
		AcademicYear:  in.AcademicYear,
		Semester:      in.Semester,
		AttachmentURL: in.AttachmentURL,
	}
	for _, f := range in.Facilities {
		input.Facilities = append(input.Facilities, db.FacilityRequest{AssetID: f.ID, Quantity: f.Quantity})
	}

	loan, err := lc.Repo.CreateLoan(c.Request.Context(), input)
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"loan": loan})
}

func (lc *LoanController) List(c *gin.Context) {
	loans, err := lc.Repo.ListLoans(c.Request.Context(), db.LoanQuery{
		ViewerID:   app.UserIDFrom(c),
		ViewerRole: app.RoleFrom(c),
		Search:     c.Query("search"),
		Status:     c.DefaultQuery("status", "all"),
		AcademicYr: c.Query("academicYear"),
		Semester:   c.DefaultQuery("semester", "all"),
	})
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"loans": loans})
}

func (lc *LoanController) Get(c *gin.Context) {
	loan, err := lc.Repo.GetLoanFor(c.Request.Context(), c.Param("id"), app.UserIDFrom(c), app.RoleFrom(c))
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"loan": loan})
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (lc *LoanController) UpdateStatus(c *gin.Context) {
	var in statusReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	loan, err := lc.Repo.UpdateLoanStatus(c.Request.Context(), db.StatusUpdateInput{
		LoanID:    c.Param("id"),
		Status:    models.LoanStatus(in.Status),
		ActorID:   app.UserIDFrom(c),
		ActorRole: app.RoleFrom(c),
		Notes:     in.Notes,
	})
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"loan": loan})
}

func (lc *LoanController) Delete(c *gin.Context) {
	err := lc.Repo.DeleteLoan(c.Request.Context(), c.Param("id"), app.UserIDFrom(c), app.RoleFrom(c))
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// validClock accepts zero-padded 24h "HH:MM".
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

package controllers

import (
	"net/http"

	"lasalleserve/app"
	"lasalleserve/db"

	"github.com/gin-gonic/gin"
)

type ReturnController struct{ *Srv }

func NewReturnController(s *Srv) *ReturnController { return &ReturnController{Srv: s} }

type returnedItemReq struct {
	ID        string `json:"id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Condition string `json:"condition" binding:"required"`
}

type processReturnReq struct {
	ReturnedItems []returnedItemReq `json:"returnedItems"`
	Notes         string            `json:"notes"`
}

func (rc *ReturnController) Process(c *gin.Context) {
	var in processReturnReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	input := db.ProcessReturnInput{
		LoanID:    c.Param("loanId"),
		Notes:     in.Notes,
		ActorID:   app.UserIDFrom(c),
		ActorRole: app.RoleFrom(c),
	}
	for _, item := range in.ReturnedItems {
		input.Items = append(input.Items, db.ReturnedItem{
			AssetID:   item.ID,
			Quantity:  item.Quantity,
			Condition: item.Condition,
		})
	}

	loan, err := rc.Repo.ProcessReturn(c.Request.Context(), input)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"loan": loan})
}

func (rc *ReturnController) Pending(c *gin.Context) {
	loans, err := rc.Repo.ListPendingReturns(c.Request.Context(), app.UserIDFrom(c), app.RoleFrom(c))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"loans": loans})
}

func (rc *ReturnController) History(c *gin.Context) {
	loans, err := rc.Repo.ListReturnHistory(c.Request.Context(), db.ReturnHistoryQuery{
		ViewerID:     app.UserIDFrom(c),
		ViewerRole:   app.RoleFrom(c),
		AcademicYear: c.Query("academicYear"),
		Semester:     c.DefaultQuery("semester", "all"),
	})
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"returns": loans})
}

package controllers

import (
	"net/http"

	"lasalleserve/app"
	"lasalleserve/db"
	"lasalleserve/models"

	"github.com/gin-gonic/gin"
)

type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

type createReportReq struct {
	AssetID     string  `json:"assetId" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	PhotoURL    *string `json:"photoUrl"`
}

func (rc *ReportController) Create(c *gin.Context) {
	var in createReportReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	report, err := rc.Repo.CreateDamageReport(c.Request.Context(), db.CreateReportInput{
		AssetID:     in.AssetID,
		ReportedBy:  app.UserIDFrom(c),
		Description: in.Description,
		Priority:    in.Priority,
		PhotoURL:    in.PhotoURL,
	})
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"report": report})
}

func (rc *ReportController) List(c *gin.Context) {
	reports, err := rc.Repo.ListDamageReports(c.Request.Context(), db.ReportQuery{
		ViewerID:   app.UserIDFrom(c),
		ViewerRole: app.RoleFrom(c),
		Search:     c.Query("search"),
		Status:     c.DefaultQuery("status", "all"),
		Priority:   c.DefaultQuery("priority", "all"),
	})
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"damageReports": reports})
}

func (rc *ReportController) Get(c *gin.Context) {
	report, err := rc.Repo.FindDamageReportByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	if app.RoleFrom(c) != models.RoleHead && report.ReportedBy != app.UserIDFrom(c) {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, app.H{"report": report})
}

type updateReportReq struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress resolved"`
	Notes  string `json:"notes"`
}

func (rc *ReportController) UpdateStatus(c *gin.Context) {
	var in updateReportReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	report, err := rc.Repo.UpdateDamageReportStatus(c.Request.Context(), c.Param("id"), in.Status, in.Notes)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"report": report})
}

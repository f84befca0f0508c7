package controllers

import (
	"net/http"

	"lasalleserve/app"

	"github.com/gin-gonic/gin"
)

type DashboardController struct{ *Srv }

func NewDashboardController(s *Srv) *DashboardController { return &DashboardController{Srv: s} }

func (dc *DashboardController) Stats(c *gin.Context) {
	if app.RoleFrom(c).IsStaff() {
		stats, err := dc.Repo.StaffDashboard(c.Request.Context())
		if err != nil {
			dc.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, app.H{"stats": stats})
		return
	}

	stats, err := dc.Repo.BorrowerDashboard(c.Request.Context(), app.UserIDFrom(c))
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"stats": stats})
}

package controllers

import (
	"net/http"
	"strconv"

	"lasalleserve/app"
	"lasalleserve/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "users": res.Users})
}

func (uc *UserController) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid user id"})
		return
	}
	user, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": user})
}

type updateRoleReq struct {
	Role string `json:"role" binding:"required"`
}

// PATCH /api/users/:id/role
func (uc *UserController) UpdateRole(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid user id"})
		return
	}

	var in updateRoleReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	role := models.Role(in.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, app.H{"error": "unknown role"})
		return
	}

	user, err := uc.Repo.UpdateUserRole(c.Request.Context(), id, role)
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": user})
}

// DELETE /api/users/:id
func (uc *UserController) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == app.UserIDFrom(c) {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
		return
	}
	if err := uc.Repo.DeleteUser(c.Request.Context(), id); err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

package controllers

import (
	"net/http"
	"strconv"

	"lasalleserve/app"
	"lasalleserve/db"

	"github.com/gin-gonic/gin"
)

type AssetController struct{ *Srv }

func NewAssetController(s *Srv) *AssetController { return &AssetController{Srv: s} }

func (ac *AssetController) List(c *gin.Context) {
	assets, err := ac.Repo.ListAssets(c.Request.Context(), db.AssetQuery{
		Q:             c.Query("search"),
		Category:      c.DefaultQuery("category", "all"),
		AvailableOnly: c.Query("availableOnly") == "true",
	})
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"assets": assets})
}

func (ac *AssetController) Get(c *gin.Context) {
	asset, err := ac.Repo.FindAssetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"asset": asset})
}

type conditionReq struct {
	Condition string `json:"condition" binding:"required"`
	Quantity  int    `json:"quantity" binding:"min=0"`
}

type createAssetReq struct {
	Name            string         `json:"name" binding:"required"`
	Category        string         `json:"category" binding:"required,oneof=room facility"`
	Location        string         `json:"location"`
	Description     string         `json:"description"`
	AcquisitionYear string         `json:"acquisitionYear"`
	Semester        string         `json:"semester"`
	Conditions      []conditionReq `json:"conditions" binding:"required,min=1"`
}

func (ac *AssetController) Create(c *gin.Context) {
	var in createAssetReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	conditions := make(map[string]int, len(in.Conditions))
	for _, cond := range in.Conditions {
		conditions[cond.Condition] += cond.Quantity
	}

	asset, err := ac.Repo.CreateAsset(c.Request.Context(), db.CreateAssetInput{
		Name:            in.Name,
		Category:        in.Category,
		Location:        in.Location,
		Description:     in.Description,
		AcquisitionYear: in.AcquisitionYear,
		Semester:        in.Semester,
		Conditions:      conditions,
	})
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"asset": asset})
}

type updateAssetReq struct {
	Name            *string `json:"name"`
	Location        *string `json:"location"`
	Description     *string `json:"description"`
	AcquisitionYear *string `json:"acquisitionYear"`
	Semester        *string `json:"semester"`
}

func (ac *AssetController) Update(c *gin.Context) {
	var in updateAssetReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	asset, err := ac.Repo.UpdateAsset(c.Request.Context(), c.Param("id"), db.UpdateAssetInput{
		Name:            in.Name,
		Location:        in.Location,
		Description:     in.Description,
		AcquisitionYear: in.AcquisitionYear,
		Semester:        in.Semester,
	})
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"asset": asset})
}

func (ac *AssetController) Delete(c *gin.Context) {
	if err := ac.Repo.DeleteAsset(c.Request.Context(), c.Param("id")); err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AssetController) CheckStock(c *gin.Context) {
	qty, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil || qty < 1 {
		c.JSON(http.StatusBadRequest, app.H{"error": "quantity must be a positive integer"})
		return
	}

	check, err := ac.Repo.CheckStock(c.Request.Context(), c.Param("id"), qty)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"stock": check})
}

type adjustConditionReq struct {
	Condition string `json:"condition" binding:"required"`
	Delta     int    `json:"delta" binding:"required"`
}

// AdjustCondition is the staff-only stock correction path, including
// moving repaired units back into the good (loanable) bucket.
func (ac *AssetController) AdjustCondition(c *gin.Context) {
	var in adjustConditionReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if !app.RoleFrom(c).CanManageAssets() {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}

	asset, err := ac.Repo.AdjustCondition(c.Request.Context(), c.Param("id"), in.Condition, in.Delta)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"asset": asset})
}

package controllers

import (
	"testing"
	"time"

	"lasalleserve/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05/03/2026", formatDate(time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", formatDate(time.Time{}))
}

func TestFormatFacilities(t *testing.T) {
	assert.Equal(t, "-", formatFacilities(nil))

	items := []models.LoanItem{
		{Asset: &models.Asset{Name: "Projector"}, Quantity: 2},
		{Asset: &models.Asset{Name: "Speaker"}, Quantity: 1},
	}
	assert.Equal(t, "Projector (2x), Speaker (1x)", formatFacilities(items))

	// Falls back to the id when the asset was not preloaded.
	bare := []models.LoanItem{{AssetID: "a-1", Quantity: 3}}
	assert.Equal(t, "a-1 (3x)", formatFacilities(bare))
}

func TestFormatReturnedItems(t *testing.T) {
	good := models.ConditionGood
	qty := 1
	items := []models.LoanItem{
		{Asset: &models.Asset{Name: "Projector"}, Quantity: 2, ReturnedQuantity: &qty, ReturnedCondition: &good},
	}
	assert.Equal(t, "Projector (1x, good)", formatReturnedItems(items))

	// Unprocessed items fall back to the loaned quantity.
	pending := []models.LoanItem{{Asset: &models.Asset{Name: "Speaker"}, Quantity: 2}}
	assert.Equal(t, "Speaker (2x)", formatReturnedItems(pending))
}

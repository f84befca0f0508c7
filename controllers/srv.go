package controllers

import (
	"errors"
	"net/http"

	"lasalleserve/app"
	"lasalleserve/db"
	"lasalleserve/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Srv struct {
	Repo   *db.Repo
	Tokens *session.TokenStore
	Log    *zap.Logger
	Cfg    app.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	repo.Hours = db.OperatingHours{Open: a.Config.OperatingOpen, Close: a.Config.OperatingClose}
	return &Srv{
		Repo:   repo,
		Tokens: a.Tokens(),
		Log:    a.Log,
		Cfg:    a.Config,
	}
}

// statusFor maps a domain error onto the HTTP status and the message
// the client should see. Unknown errors stay generic; internals never
// leak.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, db.ErrForbidden),
		errors.Is(err, db.ErrSelfApproval),
		errors.Is(err, db.ErrNotOwner):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, db.ErrEmptyLoan),
		errors.Is(err, db.ErrInvalidWindow),
		errors.Is(err, db.ErrInvalidQuantity),
		errors.Is(err, db.ErrMissingAttachment),
		errors.Is(err, db.ErrUnknownStatus),
		errors.Is(err, db.ErrInvalidCondition),
		errors.Is(err, db.ErrItemNotInLoan),
		errors.Is(err, db.ErrDuplicateAsset),
		errors.Is(err, db.ErrAssetInUse),
		errors.Is(err, db.ErrNotARoom),
		errors.Is(err, db.ErrNotAFacility),
		errors.Is(err, db.ErrUserInUse),
		errors.Is(err, db.ErrLastAdmin):
		return http.StatusBadRequest, err.Error()
	}

	var transition *db.InvalidTransitionError
	if errors.As(err, &transition) {
		return http.StatusConflict, transition.Error()
	}
	var conflict *db.ResourceConflictError
	if errors.As(err, &conflict) {
		return http.StatusConflict, conflict.Error()
	}
	var stock *db.InsufficientStockError
	if errors.As(err, &stock) {
		return http.StatusConflict, stock.Error()
	}
	var over *db.OverReturnError
	if errors.As(err, &over) {
		return http.StatusBadRequest, over.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}

func (s *Srv) fail(c *gin.Context, err error) {
	code, msg := statusFor(err)
	if code == http.StatusInternalServerError {
		s.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(code, app.H{"error": msg})
}

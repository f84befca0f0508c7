package routes

import (
	"net/http"
	"time"

	"lasalleserve/app"
	"lasalleserve/controllers"
	"lasalleserve/models"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	userCtl := controllers.NewUserController(s)
	assetCtl := controllers.NewAssetController(s)
	loanCtl := controllers.NewLoanController(s)
	returnCtl := controllers.NewReturnController(s)
	reportCtl := controllers.NewReportController(s)
	dashCtl := controllers.NewDashboardController(s)
	exportCtl := controllers.NewExportController(s)

	authMW := app.AuthRequired(s.Tokens, a.Config)
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)
	staffMW := app.RoleRequired(models.RoleStaff, models.RoleAdmin)
	adminMW := app.RoleRequired(models.RoleAdmin)

	r.GET("/healthz", func(c *app.Ctx) {
		c.JSON(http.StatusOK, app.H{"ok": true})
	})

	// ------------------------------
	// Auth (register/login public, the rest behind the token)
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.POST("/logout", authCtl.Logout)
		authed.GET("/profile", authCtl.Profile)
	}

	// ------------------------------
	// User management (admin only)
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", userCtl.List) // ?q=&page=&size=
		users.GET("/:id", userCtl.Get)
		users.PATCH("/:id/role", userCtl.UpdateRole)
		users.DELETE("/:id", userCtl.Delete)
	}

	// ------------------------------
	// Assets: everyone browses, staff manage
	// ------------------------------
	assets := r.Group("/api/assets", authMW, seenMW)
	{
		assets.GET("", assetCtl.List) // ?category=&q=
		assets.GET("/:id", assetCtl.Get)
		assets.GET("/:id/stock", assetCtl.CheckStock) // ?quantity=
	}
	assetsStaff := r.Group("/api/assets", authMW, staffMW)
	{
		assetsStaff.POST("", assetCtl.Create)
		assetsStaff.PUT("/:id", assetCtl.Update)
		assetsStaff.DELETE("/:id", assetCtl.Delete)
		assetsStaff.PATCH("/:id/condition", assetCtl.AdjustCondition)
	}

	// ------------------------------
	// Loans: borrowers create and track, staff decide
	// ------------------------------
	loans := r.Group("/api/loans", authMW, seenMW)
	{
		loans.POST("", loanCtl.Create)
		loans.GET("", loanCtl.List) // ?status=&academicYear=&semester=&q=
		loans.GET("/:id", loanCtl.Get)
		loans.DELETE("/:id", loanCtl.Delete)
	}
	loansStaff := r.Group("/api/loans", authMW, staffMW)
	{
		loansStaff.PATCH("/:id/status", loanCtl.UpdateStatus)
	}

	// ------------------------------
	// Returns (staff only)
	// ------------------------------
	returns := r.Group("/api/returns", authMW, staffMW)
	{
		returns.GET("/pending", returnCtl.Pending)
		returns.POST("/:loanId", returnCtl.Process)
	}
	// Borrowers can read their own history too.
	r.GET("/api/returns/history", authMW, seenMW, returnCtl.History)

	// ------------------------------
	// Damage reports: anyone files, the head resolves
	// ------------------------------
	reports := r.Group("/api/reports", authMW, seenMW)
	{
		reports.POST("", reportCtl.Create)
		reports.GET("", reportCtl.List)
		reports.GET("/:id", reportCtl.Get)
	}
	reportsHead := r.Group("/api/reports", authMW,
		app.RoleRequired(models.RoleHead, models.RoleAdmin))
	{
		reportsHead.PATCH("/:id/status", reportCtl.UpdateStatus)
	}

	// ------------------------------
	// Dashboards and exports
	// ------------------------------
	r.GET("/api/dashboard", authMW, seenMW, dashCtl.Stats)

	exports := r.Group("/api/exports", authMW, staffMW)
	{
		exports.GET("/loans", exportCtl.Loans)
		exports.GET("/returns", exportCtl.Returns)
		exports.GET("/reports", exportCtl.Reports)
	}
}

package controllers

import (
	"errors"
	"net/http"
	"time"

	"lasalleserve/app"
	"lasalleserve/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

type registerReq struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Role       string `json:"role"`
	Department string `json:"department"`
	StudentID  string `json:"studentId"`
	Phone      string `json:"phone"`
}

// Register creates a borrower account. Staff-tier accounts are not
// self-service; they come from the bootstrap admin or an existing
// admin editing roles directly.
func (ac *AuthController) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	role := models.Role(in.Role)
	if role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleStudent && role != models.RoleLecturer {
		c.JSON(http.StatusBadRequest, app.H{"error": "role must be student or lecturer"})
		return
	}

	if _, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email); err == nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "email already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		ac.fail(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		ac.fail(c, err)
		return
	}

	u := &models.User{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Email:      in.Email,
		Password:   string(hash),
		Role:       role,
		Department: in.Department,
		StudentID:  in.StudentID,
		Phone:      in.Phone,
	}
	if err := ac.Repo.CreateUser(c.Request.Context(), u); err != nil {
		ac.fail(c, err)
		return
	}

	token, err := ac.issueToken(u)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"user": u, "token": token})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid email or password"})
		return
	}

	token, err := ac.issueToken(u)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u, "token": token})
}

// Logout revokes the presented token for the rest of its lifetime.
func (ac *AuthController) Logout(c *gin.Context) {
	tokenID, _ := c.Get(app.CtxTokenID)
	expVal, _ := c.Get(app.CtxTokenExp)

	jti, _ := tokenID.(string)
	exp, _ := expVal.(time.Time)
	if jti != "" && !exp.IsZero() {
		if err := ac.Tokens.Revoke(c.Request.Context(), jti, exp); err != nil {
			ac.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AuthController) Profile(c *gin.Context) {
	u, err := ac.Repo.FindUserByID(c.Request.Context(), app.UserIDFrom(c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

func (ac *AuthController) issueToken(u *models.User) (string, error) {
	now := time.Now()
	claims := app.Claims{
		Name: u.Name,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ac.Cfg.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ac.Cfg.JWTSecret))
}

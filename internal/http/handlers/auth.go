package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin issues the dashboard token. The single admin account comes from
// the environment; regular customers log in against the backend directly.
func (h *Handlers) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if h.Env.AdminEmail == "" || h.Env.AdminPasswordHash == "" {
		RespondError(c, http.StatusServiceUnavailable, "admin login is not configured", nil)
		return
	}
	if req.Email != h.Env.AdminEmail {
		RespondError(c, http.StatusUnauthorized, "wrong email or password", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.Env.AdminPasswordHash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "wrong email or password", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  req.Email,
		"role": "admin",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(h.Env.JWTSecret))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "could not sign token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user":  gin.H{"email": req.Email, "role": "admin"},
	})
}

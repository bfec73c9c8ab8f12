package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yaremchuk/theatre-boxoffice/internal/config"
	"github.com/yaremchuk/theatre-boxoffice/internal/utils"
)

// AuthHandler signs cashiers in.  The box office is a single-cashier tool:
// there is one credential pair, provisioned through configuration as a
// login plus a bcrypt hash — no user table.
type AuthHandler struct {
	cfg config.Config
}

// NewAuthHandler constructs an AuthHandler from the loaded configuration.
func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// Login handles POST /v1/auth/login.  The request body must contain a
// JSON object with "login" and "password".  On success it returns a 200
// response with the signed access token and its expiry; a wrong login or
// password yields 401 without distinguishing which of the two failed.
func (a *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Login = strings.TrimSpace(body.Login)
	if body.Login == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login and password are required"})
	}
	if body.Login != a.cfg.CashierLogin || !utils.VerifyPassword(a.cfg.CashierHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, err := utils.NewAccessToken(a.cfg.JWTSecret, body.Login, a.cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
	})
}

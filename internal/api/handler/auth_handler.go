package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/account-service/internal/api/metrics"
	apimiddleware "github.com/taskhive/account-service/internal/api/middleware"
	"github.com/taskhive/account-service/internal/core/domain"
	"github.com/taskhive/account-service/internal/core/ports"
)

type AuthHandler struct {
	authService   ports.AuthService
	secureCookies bool
}

// NewAuthHandler builds the handler. secureCookies should be true in
// production so the session cookie is only sent over TLS.
func NewAuthHandler(authService ports.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

// SignUp creates a new account, or resolves a returning google user.
//
// @Summary      Sign up a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Success      200   {object}  authResponse  "Returning google account"
// @Failure      400   {object}  map[string]any
// @Failure      500   {object}  map[string]any
// @Router       /api/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	// Password is required for email accounts only; google accounts get a
	// generated placeholder downstream.
	if req.Password == "" && req.LoginType != domain.LoginTypeGoogle {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}

	loginType := req.LoginType
	if loginType == "" {
		loginType = domain.LoginTypeEmail
	}

	result, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		LoginType: loginType,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.SignupsTotal.WithLabelValues(loginType, "conflict").Inc()
		} else {
			metrics.SignupsTotal.WithLabelValues(loginType, "error").Inc()
		}
		return err
	}

	status := http.StatusOK
	outcome := "returning"
	if result.Created {
		status = http.StatusCreated
		outcome = "created"
	}
	metrics.SignupsTotal.WithLabelValues(loginType, outcome).Inc()

	if result.Token != "" {
		h.setTokenCookie(c, result.Token)
	}

	return c.JSON(status, authResponse{User: result.User, Token: result.Token, Status: true})
}

// SignIn authenticates an email/password pair and returns a token. The token
// is also set as an HTTP-only cookie for browser sessions.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.SigninsTotal.WithLabelValues("not_found").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.SigninsTotal.WithLabelValues("invalid_credentials").Inc()
		default:
			metrics.SigninsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.SigninsTotal.WithLabelValues("success").Inc()
	h.setTokenCookie(c, token)

	return c.JSON(http.StatusOK, authResponse{User: user, Token: token, Status: true})
}

// Users lists all accounts. Protected by the gate; password hashes are never
// serialized.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /api/user [get]
func (h *AuthHandler) Users(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, usersResponse{Users: users, Status: true})
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     apimiddleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

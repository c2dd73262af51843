package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/account-service/internal/api/metrics"
	"github.com/taskhive/account-service/internal/core/domain"
	"github.com/taskhive/account-service/internal/core/ports"
)

// TokenCookie is the cookie carrying the session token for browser routes.
const TokenCookie = "token"

// signInPath is where browser requests are sent when their session is
// missing or invalid.
const signInPath = "/login"

// publicPaths require no token regardless of classification.
var publicPaths = map[string]struct{}{
	"/api/signin":   {},
	"/api/signup":   {},
	"/health":       {},
	"/health/ready": {},
	"/metrics":      {},
	"/login":        {},
	"/signup":       {},
}

// publicPrefixes extend the public set to whole subtrees.
var publicPrefixes = []string{
	"/api/public/",
	"/swagger/",
}

// Gate classifies every inbound request as public, protected-api, or
// private-page and enforces token presence and validity accordingly:
//
//   - public paths pass through unconditionally.
//   - /api paths require a verifiable token in the Authorization header
//     (an optional "Bearer " prefix is tolerated); failures render 401.
//   - anything else is a browser route: the token cookie must verify, or the
//     request is redirected to the sign-in page with the cookie cleared.
//
// On success the decoded identity is attached to the context under
// "user_id" and "email"; the token itself is forwarded untouched.
func Gate(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			if isPublic(path) {
				metrics.GateDecisionsTotal.WithLabelValues("public", "allowed").Inc()
				return next(c)
			}

			if path == "/api" || strings.HasPrefix(path, "/api/") {
				return gateAPI(c, tokens, next)
			}
			return gatePage(c, tokens, next)
		}
	}
}

func isPublic(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func gateAPI(c echo.Context, tokens ports.TokenService, next echo.HandlerFunc) error {
	raw := c.Request().Header.Get("Authorization")
	if after, found := strings.CutPrefix(raw, "Bearer "); found {
		raw = after
	}
	if raw == "" {
		metrics.GateDecisionsTotal.WithLabelValues("api", "missing_token").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	claims, err := tokens.Verify(raw)
	if err != nil {
		metrics.GateDecisionsTotal.WithLabelValues("api", verifyOutcome(err)).Inc()
		return err
	}

	metrics.GateDecisionsTotal.WithLabelValues("api", "allowed").Inc()
	setIdentity(c, claims)
	return next(c)
}

func gatePage(c echo.Context, tokens ports.TokenService, next echo.HandlerFunc) error {
	cookie, err := c.Cookie(TokenCookie)
	if err != nil || cookie.Value == "" {
		metrics.GateDecisionsTotal.WithLabelValues("page", "missing_token").Inc()
		return redirectToSignIn(c)
	}

	claims, verifyErr := tokens.Verify(cookie.Value)
	if verifyErr != nil {
		metrics.GateDecisionsTotal.WithLabelValues("page", verifyOutcome(verifyErr)).Inc()
		clearTokenCookie(c)
		return redirectToSignIn(c)
	}

	metrics.GateDecisionsTotal.WithLabelValues("page", "allowed").Inc()
	setIdentity(c, claims)
	return next(c)
}

func setIdentity(c echo.Context, claims *ports.TokenClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
}

func redirectToSignIn(c echo.Context) error {
	return c.Redirect(http.StatusFound, signInPath)
}

// clearTokenCookie expires the cookie so a browser holding a stale or
// tampered token does not re-present it on the next request.
func clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func verifyOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "invalid_signature"
	default:
		return "malformed"
	}
}

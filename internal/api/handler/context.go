package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the identity claims injected by the gate middleware
// and performs a fast-fail check before any service call: a non-empty email
// proves the gate ran and verified a token. A protected handler reached
// without one means a routing mistake, so reject with 401 rather than serve.
func ctxIdentity(c echo.Context) (userID, email string, err error) {
	email, _ = c.Get("email").(string)
	if email == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	userID, _ = c.Get("user_id").(string)
	return userID, email, nil
}

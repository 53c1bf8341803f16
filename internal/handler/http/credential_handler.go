// internal/handler/http/credential_handler.go
package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"douyin-comments/internal/models"
	"douyin-comments/internal/scraper"
)

type CredentialHandler struct {
	svc scraper.ScraperService
}

func NewCredentialHandler(svc scraper.ScraperService) *CredentialHandler {
	return &CredentialHandler{svc: svc}
}

// Verify godoc
// @Summary Check a Douyin cookie
// @Description Sends an unsigned probe to the comment endpoint. 200 means valid, 403 invalid, anything else is reported as 502.
// @Tags credential
// @Produce json
// @Param X-Douyin-Cookie header string true "Douyin cookie"
// @Success 200 {object} models.CredentialResponse
// @Failure 401 {object} models.HTTPError
// @Failure 502 {object} models.HTTPError
// @Router /credential/verify [post]
func (h *CredentialHandler) Verify(c echo.Context) error {
	credential := strings.TrimSpace(c.Request().Header.Get(CredentialHeader))
	if credential == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing `"+CredentialHeader+"` header")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	status, err := h.svc.VerifyCredential(ctx, credential)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, models.CredentialResponse{Status: status})
}

// internal/handler/http/resolve_handler.go
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"douyin-comments/internal/models"
	"douyin-comments/internal/scraper"
)

type ResolveHandler struct {
	svc scraper.ScraperService
}

func NewResolveHandler(svc scraper.ScraperService) *ResolveHandler {
	return &ResolveHandler{svc: svc}
}

type resolveRequest struct {
	Input string `query:"input" validate:"required"`
}

// Resolve godoc
// @Summary Resolve a Douyin link to a video ID
// @Description Accepts a share link (v.douyin.com, also inside share text), a video page URL, a modal_id URL or a bare ID
// @Tags resolve
// @Produce json
// @Param input query string true "Link, share text or video ID"
// @Success 200 {object} models.ResolveResponse
// @Failure 400 {object} models.HTTPError
// @Failure 502 {object} models.HTTPError
// @Router /resolve [get]
func (h *ResolveHandler) Resolve(c echo.Context) error {
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	id, err := h.svc.ResolveVideoID(ctx, req.Input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, models.ResolveResponse{VideoID: id})
}

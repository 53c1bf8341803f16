// internal/handler/http/analysis_handler.go
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"douyin-comments/internal/analysis"
	"douyin-comments/internal/models"
)

const defaultTopTerms = 100

// GetAnalysis godoc
// @Summary Analyse the comments of a Douyin video
// @Description Retrieves the comments like /comments and returns the summary, the hourly trend and word cloud terms instead of the records
// @Tags comments
// @Produce json
// @Param input query string true "Link, share text or video ID"
// @Param max_comments query int false "Stop after this many comments (0 = all)"
// @Param top query int false "Number of cloud terms (default 100)"
// @Param X-Douyin-Cookie header string false "Douyin cookie, defaults to the server's DOUYIN_COOKIE"
// @Success 200 {object} models.AnalysisResponse
// @Failure 400 {object} models.HTTPError
// @Failure 401 {object} models.HTTPError
// @Failure 403 {object} models.HTTPError
// @Failure 502 {object} models.HTTPError
// @Router /comments/analysis [get]
func (h *CommentHandler) GetAnalysis(c echo.Context) error {
	req, res, sessionErr, err := h.retrieve(c)
	if err != nil {
		return err
	}

	top := req.Top
	if top == 0 {
		top = defaultTopTerms
	}

	resp := models.AnalysisResponse{
		VideoID:  res.VideoID,
		Summary:  analysis.Summarize(res.Comments),
		Trend:    analysis.TimeTrend(res.Comments, nil),
		Terms:    analysis.CloudTerms(analysis.TermFrequency(res.Comments, nil, nil), top),
		Complete: res.Complete,
	}
	if sessionErr != nil {
		resp.Error = sessionErr.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

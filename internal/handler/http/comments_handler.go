// internal/handler/http/comments_handler.go
package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"douyin-comments/internal/analysis"
	"douyin-comments/internal/logger"
	"douyin-comments/internal/models"
	"douyin-comments/internal/scraper"
)

type CommentHandler struct {
	svc               scraper.ScraperService
	defaultCredential string
	timeout           time.Duration
	log               *zerolog.Logger
}

// NewCommentHandler uses defaultCredential when a request carries no cookie header
func NewCommentHandler(svc scraper.ScraperService, defaultCredential string, timeout time.Duration, log *zerolog.Logger) *CommentHandler {
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	if log == nil {
		log = logger.Named("http")
	}
	return &CommentHandler{
		svc:               svc,
		defaultCredential: strings.TrimSpace(defaultCredential),
		timeout:           timeout,
		log:               log,
	}
}

type commentsRequest struct {
	Input       string `query:"input" validate:"required"`
	MaxComments int    `query:"max_comments" validate:"gte=0"`
	Cursor      int64  `query:"cursor" validate:"gte=0"`
	Top         int    `query:"top" validate:"gte=0,lte=1000"`
}

// retrieve runs one session. A session that failed after accumulating comments is not an
// error here: the partial result is returned with sessionErr set.
func (h *CommentHandler) retrieve(c echo.Context) (req commentsRequest, res models.RetrievalResult, sessionErr error, err error) {
	if err = c.Bind(&req); err != nil {
		return req, res, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err = c.Validate(&req); err != nil {
		return req, res, nil, err
	}

	credential := strings.TrimSpace(c.Request().Header.Get(CredentialHeader))
	if credential == "" {
		credential = h.defaultCredential
	}
	if credential == "" {
		return req, res, nil, echo.NewHTTPError(http.StatusUnauthorized, "missing `"+CredentialHeader+"` header")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	videoID, rerr := h.svc.ResolveVideoID(ctx, req.Input)
	if rerr != nil {
		return req, res, nil, httpError(rerr)
	}

	res, sessionErr = h.svc.FetchComments(ctx, models.RetrievalRequest{
		VideoID:     videoID,
		Credential:  credential,
		StartCursor: req.Cursor,
		MaxComments: req.MaxComments,
	}, nil)
	if sessionErr != nil {
		h.log.Warn().
			Err(sessionErr).
			Str("video_id", videoID).
			Str("session_id", res.SessionID).
			Int("fetched", len(res.Comments)).
			Msg("comment session ended early")
		if len(res.Comments) == 0 {
			return req, res, sessionErr, httpError(sessionErr)
		}
	}
	return req, res, sessionErr, nil
}

// GetComments godoc
// @Summary Retrieve the comments of a Douyin video
// @Description Resolves the input, pages through all top-level comments and returns them with a summary.
// @Description A session that fails after some pages answers 200 with complete=false and the error.
// @Tags comments
// @Produce json
// @Param input query string true "Link, share text or video ID"
// @Param max_comments query int false "Stop after this many comments (0 = all)"
// @Param cursor query int false "Resume from this cursor"
// @Param X-Douyin-Cookie header string false "Douyin cookie, defaults to the server's DOUYIN_COOKIE"
// @Success 200 {object} models.CommentsResponse
// @Failure 400 {object} models.HTTPError
// @Failure 401 {object} models.HTTPError
// @Failure 403 {object} models.HTTPError
// @Failure 502 {object} models.HTTPError
// @Failure 504 {object} models.HTTPError
// @Router /comments [get]
func (h *CommentHandler) GetComments(c echo.Context) error {
	_, res, sessionErr, err := h.retrieve(c)
	if err != nil {
		return err
	}

	resp := models.CommentsResponse{
		RetrievalResult: res,
		Summary:         analysis.Summarize(res.Comments),
	}
	if sessionErr != nil {
		resp.Error = sessionErr.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

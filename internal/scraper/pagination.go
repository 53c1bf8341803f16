package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"douyin-comments/internal/logger"
	"douyin-comments/internal/models"
	pkgerrs "douyin-comments/pkg/errors"
)

// FetchComments pages through the top-level comments of req.VideoID.
//
// Pages are requested strictly one after another. The session stops when a page carries no
// comments or when the server returns a zero cursor; has_more is recorded but not used to
// decide. Every failure ends the session and is returned together with the comments
// accumulated so far. Nothing is retried: resume with StartCursor = result.NextCursor.
func (s *scraperService) FetchComments(
	ctx context.Context,
	req models.RetrievalRequest,
	progress models.ProgressFunc,
) (models.RetrievalResult, error) {
	result := models.RetrievalResult{
		SessionID:  uuid.NewString(),
		VideoID:    strings.TrimSpace(req.VideoID),
		Comments:   []models.Comment{},
		NextCursor: req.StartCursor,
	}
	if result.VideoID == "" {
		return result, &pkgerrs.EmptyInputError{Field: "video_id"}
	}

	ctx = logger.WithSession(ctx, result.SessionID)
	log := logger.C(ctx, s.log)
	startTime := time.Now()

	log.Info().
		Str("video_id", result.VideoID).
		Int64("start_cursor", req.StartCursor).
		Int("max_comments", req.MaxComments).
		Msg("comment retrieval started")

	cursor := req.StartCursor
	for {
		if result.Pages > 0 {
			if err := s.pacer.Wait(ctx); err != nil {
				return result, err
			}
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		pageNum := result.Pages + 1
		data, err := s.client.FetchCommentPage(ctx, result.VideoID, cursor, req.Credential)
		if err != nil {
			log.Warn().Err(err).Int("page", pageNum).Int("fetched", len(result.Comments)).Msg("comment retrieval aborted")
			return result, fmt.Errorf("fetch comments page %d: %w", pageNum, err)
		}

		page, err := s.parser.ParseCommentPage(ctx, data)
		if err != nil {
			log.Warn().Err(err).Int("page", pageNum).Int("fetched", len(result.Comments)).Msg("comment retrieval aborted")
			return result, fmt.Errorf("parse comments page %d: %w", pageNum, err)
		}

		result.Pages = pageNum
		result.HasMore = page.HasMore
		if result.Total == nil && page.Total != nil {
			total := *page.Total
			result.Total = &total
		}

		result.Comments = append(result.Comments, s.parser.NormalizeComments(page.Comments)...)
		limitReached := req.MaxComments > 0 && len(result.Comments) >= req.MaxComments
		if limitReached {
			result.Comments = result.Comments[:req.MaxComments]
		}

		if progress != nil {
			progress(models.Progress{Page: result.Pages, Fetched: len(result.Comments), Total: result.Total})
		}

		log.Debug().
			Int("page", result.Pages).
			Int("page_comments", len(page.Comments)).
			Int("fetched", len(result.Comments)).
			Int64("cursor", page.Cursor).
			Bool("has_more", page.HasMore).
			Msg("comment page accumulated")

		result.NextCursor = page.Cursor
		switch {
		case len(page.Comments) == 0, page.Cursor == 0:
			result.Complete = true
		case limitReached:
		default:
			cursor = page.Cursor
			continue
		}

		log.Info().
			Int("pages", result.Pages).
			Int("fetched", len(result.Comments)).
			Bool("complete", result.Complete).
			Dur("elapsed", time.Since(startTime)).
			Msg("comment retrieval finished")
		return result, nil
	}
}

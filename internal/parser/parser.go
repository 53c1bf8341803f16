// internal/parser/parser.go
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"douyin-comments/internal/models"
	pkgerrs "douyin-comments/pkg/errors"
)

const parseOp = "parse comment page"

type DouyinParser struct {
	normalizer Normalizer
}

// NewDouyinParser renders publish times in loc, time.Local when nil
func NewDouyinParser(loc *time.Location) *DouyinParser {
	return &DouyinParser{normalizer: Normalizer{Location: loc}}
}

// ParseCommentPage decodes one comment list response. The body must be a JSON object;
// anything else, including the empty 200 body sent for a rejected signature, is an
// *errors.ProtocolError.
func (p *DouyinParser) ParseCommentPage(ctx context.Context, data json.RawMessage) (models.CommentPage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return models.CommentPage{}, &pkgerrs.ProtocolError{Operation: parseOp, Message: "empty response body"}
	}
	if trimmed[0] != '{' {
		return models.CommentPage{}, &pkgerrs.ProtocolError{Operation: parseOp, Message: "response is not a JSON object"}
	}

	var raw models.RawCommentPage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return models.CommentPage{}, &pkgerrs.ProtocolError{Operation: parseOp, Message: "invalid JSON", Err: err}
	}

	page := models.CommentPage{
		Comments: raw.Comments,
		Cursor:   int64(raw.Cursor),
		HasMore:  raw.HasMore != 0,
	}
	if page.Comments == nil {
		page.Comments = []models.RawComment{}
	}
	if raw.Total != nil {
		total := int64(*raw.Total)
		page.Total = &total
	}
	return page, nil
}

func (p *DouyinParser) NormalizeComments(raw []models.RawComment) []models.Comment {
	out := make([]models.Comment, 0, len(raw))
	for _, rc := range raw {
		out = append(out, p.normalizer.Normalize(rc))
	}
	return out
}

// internal/parser/interface.go
package parser

import (
	"context"
	"encoding/json"

	"douyin-comments/internal/models"
)

type ParserInterface interface {
	ParseCommentPage(ctx context.Context, data json.RawMessage) (models.CommentPage, error)
	NormalizeComments(raw []models.RawComment) []models.Comment
}

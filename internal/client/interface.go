// internal/client/interface.go
package client

import (
	"context"
	"encoding/json"
)

type DouyinClientInterface interface {
	FetchCommentPage(ctx context.Context, videoID string, cursor int64, credential string) (json.RawMessage, error)
	ProbeCredential(ctx context.Context, credential string) (int, error)
	ResolveShortLink(ctx context.Context, rawURL string) (string, error)
}

package mocks

import (
	"context"
	"encoding/json"
)

type MockDouyinClient struct {
	FetchCommentPageFunc func(ctx context.Context, videoID string, cursor int64, credential string) (json.RawMessage, error)
	ProbeCredentialFunc  func(ctx context.Context, credential string) (int, error)
	ResolveShortLinkFunc func(ctx context.Context, rawURL string) (string, error)
}

func (m *MockDouyinClient) FetchCommentPage(ctx context.Context, videoID string, cursor int64, credential string) (json.RawMessage, error) {
	return m.FetchCommentPageFunc(ctx, videoID, cursor, credential)
}

func (m *MockDouyinClient) ProbeCredential(ctx context.Context, credential string) (int, error) {
	return m.ProbeCredentialFunc(ctx, credential)
}

func (m *MockDouyinClient) ResolveShortLink(ctx context.Context, rawURL string) (string, error) {
	return m.ResolveShortLinkFunc(ctx, rawURL)
}

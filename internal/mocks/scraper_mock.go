package mocks

import (
	"context"

	"douyin-comments/internal/models"
)

type MockScraperService struct {
	ResolveVideoIDFunc   func(ctx context.Context, input string) (string, error)
	VerifyCredentialFunc func(ctx context.Context, credential string) (models.CredentialStatus, error)
	FetchCommentsFunc    func(ctx context.Context, req models.RetrievalRequest, progress models.ProgressFunc) (models.RetrievalResult, error)
}

func (m *MockScraperService) ResolveVideoID(ctx context.Context, input string) (string, error) {
	return m.ResolveVideoIDFunc(ctx, input)
}

func (m *MockScraperService) VerifyCredential(ctx context.Context, credential string) (models.CredentialStatus, error) {
	return m.VerifyCredentialFunc(ctx, credential)
}

func (m *MockScraperService) FetchComments(ctx context.Context, req models.RetrievalRequest, progress models.ProgressFunc) (models.RetrievalResult, error) {
	return m.FetchCommentsFunc(ctx, req, progress)
}

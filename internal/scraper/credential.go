package scraper

import (
	"context"
	"net/http"
	"strings"

	"douyin-comments/internal/logger"
	"douyin-comments/internal/models"
	pkgerrs "douyin-comments/pkg/errors"
)

// VerifyCredential classifies credential with an unsigned probe:
// 200 is valid, 403 invalid, any other status an *errors.ValidationError.
func (s *scraperService) VerifyCredential(ctx context.Context, credential string) (models.CredentialStatus, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", &pkgerrs.EmptyInputError{Field: "credential"}
	}

	status, err := s.client.ProbeCredential(ctx, credential)
	if err != nil {
		return "", err
	}

	logger.C(ctx, s.log).Info().
		Str("credential", logger.MaskSecret(credential)).
		Int("status", status).
		Msg("credential probed")

	switch status {
	case http.StatusOK:
		return models.CredentialValid, nil
	case http.StatusForbidden:
		return models.CredentialInvalid, nil
	default:
		return "", &pkgerrs.ValidationError{StatusCode: status}
	}
}

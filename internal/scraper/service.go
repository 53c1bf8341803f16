// internal/scraper/service.go
package scraper

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"douyin-comments/internal/client"
	"douyin-comments/internal/logger"
	"douyin-comments/internal/models"
	"douyin-comments/internal/parser"
)

// ScraperService defines the operations exposed to the HTTP API and the CLI
type ScraperService interface {
	ResolveVideoID(ctx context.Context, input string) (string, error)
	VerifyCredential(ctx context.Context, credential string) (models.CredentialStatus, error)
	FetchComments(ctx context.Context, req models.RetrievalRequest, progress models.ProgressFunc) (models.RetrievalResult, error)
}

// Resolver maps user input to a video ID
type Resolver interface {
	Resolve(ctx context.Context, input string) (string, error)
}

type scraperService struct {
	client   client.DouyinClientInterface
	parser   parser.ParserInterface
	resolver Resolver
	pacer    Pacer
	log      *zerolog.Logger
}

func NewScraperService(
	client client.DouyinClientInterface,
	parser parser.ParserInterface,
	resolver Resolver,
	pacer Pacer,
	log *zerolog.Logger,
) ScraperService {
	if pacer == nil {
		pacer = NoDelay
	}
	if log == nil {
		log = logger.Named("scraper")
	}
	return &scraperService{
		client:   client,
		parser:   parser,
		resolver: resolver,
		pacer:    pacer,
		log:      log,
	}
}

// ResolveVideoID resolves a share link, video page, modal link or bare ID
func (s *scraperService) ResolveVideoID(ctx context.Context, input string) (string, error) {
	if s.resolver == nil {
		return "", fmt.Errorf("resolver not configured")
	}
	return s.resolver.Resolve(ctx, input)
}

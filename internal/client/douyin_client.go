// internal/client/douyin_client.go
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"douyin-comments/internal/config"
	"douyin-comments/internal/logger"
	"douyin-comments/internal/signing"
	pkgerrs "douyin-comments/pkg/errors"
	"douyin-comments/pkg/utils"
)

type Options struct {
	BaseURL    string
	UserAgent  string
	Signer     signing.Signer
	Tokens     signing.TokenSource
	HTTPClient *http.Client
	// Limiter is shared by every session using this client, nil disables it
	Limiter *rate.Limiter
	Logger  *zerolog.Logger
}

type DouyinClient struct {
	client  *http.Client
	builder *RequestBuilder
	limiter *rate.Limiter
	log     *zerolog.Logger
}

func New(opts Options) *DouyinClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("douyin-client")
	}

	return &DouyinClient{
		client: httpClient,
		builder: &RequestBuilder{
			BaseURL:   strings.TrimRight(opts.BaseURL, "/"),
			UserAgent: opts.UserAgent,
			Signer:    opts.Signer,
			Tokens:    opts.Tokens,
		},
		limiter: opts.Limiter,
		log:     log,
	}
}

// NewDouyinClient wires the fingerprinting HTTP client, proxies and limiter from cfg
func NewDouyinClient(cfg *config.Config, signer signing.Signer, log *zerolog.Logger) (*DouyinClient, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("DOUYIN_USER_AGENT environment variable is required")
	}

	browser, err := utils.ParseBrowserType(cfg.TLSFingerprint)
	if err != nil {
		return nil, err
	}

	httpClient, err := utils.NewHTTPClient(utils.ClientOptions{
		ProxyURLs:   cfg.ProxyURLs,
		Fingerprint: browser,
		Timeout:     cfg.RequestTimeout,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return New(Options{
		BaseURL:    cfg.BaseURL,
		UserAgent:  cfg.UserAgent,
		Signer:     signer,
		HTTPClient: httpClient,
		Limiter:    NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:     log,
	}), nil
}

// NewLimiter returns nil when rps is not positive
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func (c *DouyinClient) waitForRateLimit(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// FetchCommentPage requests one signed page of top-level comments and returns the decoded body.
// A 403 is an *errors.AuthError, any other non-200 an *errors.ProtocolError.
func (c *DouyinClient) FetchCommentPage(ctx context.Context, videoID string, cursor int64, credential string) (json.RawMessage, error) {
	const op = "fetch comments"

	if err := c.waitForRateLimit(ctx); err != nil {
		return nil, err
	}

	req, err := c.builder.Build(ctx, videoID, cursor, credential)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &pkgerrs.TransportError{Operation: op, URL: c.builder.BaseURL + CommentListPath, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, utils.MaxBodyBytes))
		resp.Body.Close()

		logger.C(ctx, c.log).Debug().
			Str("video_id", videoID).
			Int64("cursor", cursor).
			Int("status", resp.StatusCode).
			Msg("comment page rejected")

		if resp.StatusCode == http.StatusForbidden {
			return nil, &pkgerrs.AuthError{StatusCode: resp.StatusCode}
		}
		return nil, &pkgerrs.ProtocolError{Operation: op, StatusCode: resp.StatusCode, Message: "unexpected status"}
	}

	body, err := utils.DecodeBody(resp)
	if err != nil {
		return nil, &pkgerrs.ProtocolError{Operation: op, StatusCode: resp.StatusCode, Message: "undecodable body", Err: err}
	}

	logger.C(ctx, c.log).Debug().
		Str("video_id", videoID).
		Int64("cursor", cursor).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("comment page response")

	return body, nil
}

// ProbeCredential sends the unsigned count=1 probe and returns the HTTP status
func (c *DouyinClient) ProbeCredential(ctx context.Context, credential string) (int, error) {
	if err := c.waitForRateLimit(ctx); err != nil {
		return 0, err
	}

	req, err := c.builder.BuildProbe(ctx, credential)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, &pkgerrs.TransportError{Operation: "verify credential", URL: c.builder.BaseURL + CommentListPath, Err: err}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, utils.MaxBodyBytes))
	resp.Body.Close()

	logger.C(ctx, c.log).Debug().Int("status", resp.StatusCode).Msg("credential probe response")
	return resp.StatusCode, nil
}

// ResolveShortLink follows the redirects of a short link and returns the final URL
func (c *DouyinClient) ResolveShortLink(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &pkgerrs.UnresolvableIdentifierError{Input: rawURL, Reason: "malformed short link"}
	}
	utils.ApplyBrowserHeaders(req, c.builder.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("sec-fetch-dest", "document")
	req.Header.Set("sec-fetch-mode", "navigate")
	req.Header.Set("sec-fetch-site", "none")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &pkgerrs.TransportError{Operation: "resolve short link", URL: rawURL, Err: err}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, utils.MaxBodyBytes))
	resp.Body.Close()

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	logger.C(ctx, c.log).Debug().
		Str("short_link", rawURL).
		Str("final_url", finalURL).
		Int("status", resp.StatusCode).
		Msg("short link resolved")

	if resp.StatusCode != http.StatusOK {
		return "", &pkgerrs.UnresolvableIdentifierError{
			Input:      rawURL,
			Reason:     "short link did not resolve",
			StatusCode: resp.StatusCode,
		}
	}
	return finalURL, nil
}

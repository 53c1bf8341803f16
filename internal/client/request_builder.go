// internal/client/request_builder.go
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"douyin-comments/internal/signing"
	"douyin-comments/pkg/utils"
)

const (
	CommentListPath = "/aweme/v1/web/comment/list/"
	PageSize        = 20
)

// Param is one query parameter. Order matters: the signature covers the exact encoded string.
type Param struct {
	Key   string
	Value string
}

// EncodeParams form-encodes params in the given order
func EncodeParams(params []Param) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// CommentListParams returns the parameter list of one comment page request.
// The browser constants must match what the web client sends or the server rejects the signature.
func CommentListParams(videoID string, cursor int64, msToken string) []Param {
	return []Param{
		{"aweme_id", videoID},
		{"cursor", strconv.FormatInt(cursor, 10)},
		{"count", strconv.Itoa(PageSize)},
		{"item_type", "0"},
		{"insert_ids", ""},
		{"rcFT", ""},
		{"pc_client_type", "1"},
		{"version_code", "170400"},
		{"version_name", "17.4.0"},
		{"cookie_enabled", "true"},
		{"screen_width", "1920"},
		{"screen_height", "1080"},
		{"browser_language", "zh-CN"},
		{"browser_platform", "Win32"},
		{"browser_name", "Chrome"},
		{"browser_version", "104.0.0.0"},
		{"browser_online", "true"},
		{"platform", "PC"},
		{"downlink", "10"},
		{"msToken", msToken},
		{"device_platform", "webapp"},
		{"aid", "6383"},
		{"channel", "channel_pc_web"},
		{"webid", "7335414539335222835"},
	}
}

// ProbeParams is the minimal unsigned parameter set used to classify a credential
func ProbeParams() []Param {
	return []Param{
		{"device_platform", "webapp"},
		{"aid", "6383"},
		{"count", "1"},
	}
}

type RequestBuilder struct {
	BaseURL   string
	UserAgent string
	Signer    signing.Signer
	// Tokens defaults to signing.GenerateMsToken
	Tokens signing.TokenSource
}

// Build assembles a signed comment page request. When signing fails the
// *errors.SignatureError is returned and no request is produced.
func (b *RequestBuilder) Build(ctx context.Context, videoID string, cursor int64, credential string) (*http.Request, error) {
	tokens := b.Tokens
	if tokens == nil {
		tokens = signing.GenerateMsToken
	}

	query := EncodeParams(CommentListParams(videoID, cursor, tokens()))

	sig, err := signing.Sign(ctx, b.Signer, query, b.UserAgent)
	if err != nil {
		return nil, err
	}

	fullURL := b.BaseURL + CommentListPath + "?" + query + "&X-Bogus=" + url.QueryEscape(sig)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("X-Bogus", sig)
	b.decorate(req, credential)
	return req, nil
}

// BuildProbe assembles the unsigned credential probe request
func (b *RequestBuilder) BuildProbe(ctx context.Context, credential string) (*http.Request, error) {
	fullURL := b.BaseURL + CommentListPath + "?" + EncodeParams(ProbeParams())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	b.decorate(req, credential)
	return req, nil
}

func (b *RequestBuilder) decorate(req *http.Request, credential string) {
	utils.ApplyBrowserHeaders(req, b.UserAgent)
	if credential != "" {
		req.Header.Set("Cookie", credential)
	}
}

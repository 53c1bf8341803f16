// Package resolver turns the identifiers users paste (share links, video pages,
// modal links, bare IDs) into the numeric video ID used by the comment API.
package resolver

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"douyin-comments/internal/logger"
	pkgerrs "douyin-comments/pkg/errors"
)

const (
	// MinIDLength is the shortest digit string accepted as a bare video ID
	MinIDLength = 19

	videoPageMarker = "douyin.com/video/"
	videoSegment    = "video/"
	modalKey        = "modal_id="
)

// ShortLinkFollower follows a short link's redirects and returns the final URL
type ShortLinkFollower interface {
	ResolveShortLink(ctx context.Context, rawURL string) (string, error)
}

type Resolver struct {
	follower   ShortLinkFollower
	shortHosts []string
	linkRes    []*regexp.Regexp
	log        *zerolog.Logger
}

func NewResolver(follower ShortLinkFollower, shortHosts []string, log *zerolog.Logger) *Resolver {
	if log == nil {
		log = logger.Named("resolver")
	}
	r := &Resolver{follower: follower, log: log}
	for _, h := range shortHosts {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		r.shortHosts = append(r.shortHosts, h)
		r.linkRes = append(r.linkRes, regexp.MustCompile(`(?i)(?:https?://)?`+regexp.QuoteMeta(h)+`/[^\s"'<>，。]*`))
	}
	return r
}

// Resolve applies the rules in order, first match wins:
// bare ID, canonical video page, modal_id query, short link (followed, then re-checked).
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		return "", &pkgerrs.EmptyInputError{Field: "input"}
	}

	if isDigits(in) && len(in) >= MinIDLength {
		return in, nil
	}
	if id, ok := afterMarker(in, videoPageMarker, "/?"); ok {
		return id, nil
	}
	if id, ok := afterMarker(in, modalKey, "&"); ok {
		return id, nil
	}

	link, ok := r.shortLink(in)
	if !ok {
		return "", &pkgerrs.UnresolvableIdentifierError{Input: input, Reason: "no recognised link or ID"}
	}
	if r.follower == nil {
		return "", &pkgerrs.UnresolvableIdentifierError{Input: input, Reason: "short links are not supported"}
	}

	finalURL, err := r.follower.ResolveShortLink(ctx, link)
	if err != nil {
		return "", err
	}

	logger.C(ctx, r.log).Debug().Str("short_link", link).Str("final_url", finalURL).Msg("followed short link")

	if id, ok := afterMarker(finalURL, videoSegment, "/?"); ok {
		return id, nil
	}
	if id, ok := afterMarker(finalURL, modalKey, "&"); ok {
		return id, nil
	}
	return "", &pkgerrs.UnresolvableIdentifierError{Input: input, Reason: "short link led to " + finalURL}
}

// shortLink finds a short link inside in, which may be surrounding share text
func (r *Resolver) shortLink(in string) (string, bool) {
	for i, re := range r.linkRes {
		if !strings.Contains(strings.ToLower(in), strings.ToLower(r.shortHosts[i])) {
			continue
		}
		link := re.FindString(in)
		if link == "" {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(link), "http://") && !strings.HasPrefix(strings.ToLower(link), "https://") {
			link = "https://" + link
		}
		return link, true
	}
	return "", false
}

// afterMarker returns the digits following marker up to the first stop byte
func afterMarker(s, marker, stops string) (string, bool) {
	idx := strings.Index(s, marker)
	if idx < 0 {
		return "", false
	}
	seg := s[idx+len(marker):]
	if end := strings.IndexAny(seg, stops); end >= 0 {
		seg = seg[:end]
	}
	if !isDigits(seg) {
		return "", false
	}
	return seg, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

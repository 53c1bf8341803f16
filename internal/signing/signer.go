// Package signing produces the per-request msToken and obtains X-Bogus signatures.
//
// The signature algorithm itself is an external black box. The core only depends on the
// Signer interface so the pagination engine can run against fakes in tests and against a
// signing service in production.
package signing

import (
	"context"
	"errors"
	"strings"

	pkgerrs "douyin-comments/pkg/errors"
)

// Signer computes the X-Bogus signature for an encoded query string and user agent
type Signer interface {
	Sign(ctx context.Context, query, userAgent string) (string, error)
}

// SignerFunc adapts a plain function to the Signer interface
type SignerFunc func(ctx context.Context, query, userAgent string) (string, error)

func (f SignerFunc) Sign(ctx context.Context, query, userAgent string) (string, error) {
	return f(ctx, query, userAgent)
}

// Unavailable returns a Signer that always fails. It is wired when no signing
// service is configured so the failure surfaces on the first comment page.
func Unavailable() Signer {
	return SignerFunc(func(context.Context, string, string) (string, error) {
		return "", &pkgerrs.SignatureError{Message: "no signer configured"}
	})
}

// Sign calls s and normalizes its outcome: every failure and every blank signature
// is reported as a *errors.SignatureError.
func Sign(ctx context.Context, s Signer, query, userAgent string) (string, error) {
	if s == nil {
		return "", &pkgerrs.SignatureError{Message: "no signer configured"}
	}

	sig, err := s.Sign(ctx, query, userAgent)
	if err != nil {
		var se *pkgerrs.SignatureError
		if errors.As(err, &se) {
			return "", se
		}
		return "", &pkgerrs.SignatureError{Message: "sign", Err: err}
	}

	sig = strings.TrimSpace(sig)
	if sig == "" {
		return "", &pkgerrs.SignatureError{Message: "signer returned an empty signature"}
	}
	return sig, nil
}

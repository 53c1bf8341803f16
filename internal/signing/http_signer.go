package signing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrs "douyin-comments/pkg/errors"
)

// HTTPSigner obtains signatures from an external signing service.
//
// The service is called as GET <Endpoint>?params=<query>&user_agent=<ua> and must answer
// with {"x_bogus": "..."} or {"data": {"x_bogus": "..."}}.
type HTTPSigner struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPSigner creates a signer for endpoint. A nil client gets a 10 second timeout.
func NewHTTPSigner(endpoint string, httpClient *http.Client) (*HTTPSigner, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid signer URL %q", endpoint)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSigner{endpoint: endpoint, httpClient: httpClient}, nil
}

type signResponse struct {
	XBogus string `json:"x_bogus"`
	Data   *struct {
		XBogus string `json:"x_bogus"`
	} `json:"data"`
}

func (s *HTTPSigner) Sign(ctx context.Context, query, userAgent string) (string, error) {
	u, _ := url.Parse(s.endpoint)
	q := u.Query()
	q.Set("params", query)
	q.Set("user_agent", userAgent)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", &pkgerrs.SignatureError{Message: "creating signer request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &pkgerrs.SignatureError{Message: "calling signer", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", &pkgerrs.SignatureError{Message: "reading signer response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &pkgerrs.SignatureError{
			Message: fmt.Sprintf("signer answered status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var out signResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &pkgerrs.SignatureError{Message: "decoding signer response", Err: err}
	}

	sig := out.XBogus
	if sig == "" && out.Data != nil {
		sig = out.Data.XBogus
	}
	if strings.TrimSpace(sig) == "" {
		return "", &pkgerrs.SignatureError{Message: "signer returned an empty signature"}
	}
	return sig, nil
}

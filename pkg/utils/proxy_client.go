// pkg/utils/proxy_client.go
package utils

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	utls "github.com/refraction-networking/utls"
	"github.com/rs/zerolog"
	proxy "golang.org/x/net/proxy"
)

type BrowserType int

const (
	// NoFingerprint uses the standard library TLS stack
	NoFingerprint BrowserType = iota
	Chrome
	Firefox
	Safari
	Edge
)

var clientHelloIDs = map[BrowserType]utls.ClientHelloID{
	Chrome:  utls.HelloChrome_Auto,
	Firefox: utls.HelloFirefox_Auto,
	Safari:  utls.HelloSafari_Auto,
	Edge:    utls.HelloEdge_Auto,
}

// ParseBrowserType maps a TLS_FINGERPRINT value to a BrowserType
func ParseBrowserType(name string) (BrowserType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "chrome":
		return Chrome, nil
	case "firefox":
		return Firefox, nil
	case "safari":
		return Safari, nil
	case "edge":
		return Edge, nil
	case "none":
		return NoFingerprint, nil
	default:
		return NoFingerprint, fmt.Errorf("unknown TLS fingerprint %q", name)
	}
}

func (b BrowserType) String() string {
	switch b {
	case Chrome:
		return "chrome"
	case Firefox:
		return "firefox"
	case Safari:
		return "safari"
	case Edge:
		return "edge"
	default:
		return "none"
	}
}

// BrowserHeaders are the fixed headers the web client sends with every XHR.
// They must stay consistent with the user agent that was used for signing.
var BrowserHeaders = map[string]string{
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "zh-CN,zh;q=0.9",
	"Accept-Encoding": "gzip, deflate, br, zstd",
	"Referer":         "https://www.douyin.com/",
	"sec-fetch-dest":  "empty",
	"sec-fetch-mode":  "cors",
	"sec-fetch-site":  "same-origin",
}

// ApplyBrowserHeaders sets userAgent and every BrowserHeaders entry the request does not carry yet
func ApplyBrowserHeaders(req *http.Request, userAgent string) {
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	for k, v := range BrowserHeaders {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
}

type ProxyRotator struct {
	proxyURLs  []string
	parsedURLs []*url.URL
	currentIdx uint32
	mutex      sync.RWMutex
}

func NewProxyRotator(proxyURLs []string) (*ProxyRotator, error) {
	rotator := &ProxyRotator{}

	for _, rawURL := range proxyURLs {
		if strings.TrimSpace(rawURL) == "" {
			continue
		}
		parsedURL, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse proxy URL %s: %w", MaskProxyURL(rawURL), err)
		}
		switch parsedURL.Scheme {
		case "http", "https", "socks5":
		default:
			return nil, fmt.Errorf("unsupported proxy scheme: %s", parsedURL.Scheme)
		}
		rotator.proxyURLs = append(rotator.proxyURLs, rawURL)
		rotator.parsedURLs = append(rotator.parsedURLs, parsedURL)
	}

	return rotator, nil
}

// Len returns the number of configured proxies
func (r *ProxyRotator) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.parsedURLs)
}

// NextProxy returns proxies round-robin, or nil when none are configured
func (r *ProxyRotator) NextProxy() *url.URL {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if len(r.parsedURLs) == 0 {
		return nil
	}

	idx := (atomic.AddUint32(&r.currentIdx, 1) - 1) % uint32(len(r.parsedURLs))
	return r.parsedURLs[idx]
}

// FingerprintingDialer dials directly or through one proxy and performs the TLS handshake
// with a browser ClientHello. ALPN is pinned to http/1.1 because the transport only speaks HTTP/1.
type FingerprintingDialer struct {
	proxyURL      *url.URL
	clientHelloID utls.ClientHelloID
	netDialer     *net.Dialer
}

func NewFingerprintingDialer(proxyURL *url.URL, browser BrowserType) *FingerprintingDialer {
	helloID, ok := clientHelloIDs[browser]
	if !ok {
		helloID = utls.HelloChrome_Auto
	}

	return &FingerprintingDialer{
		proxyURL:      proxyURL,
		clientHelloID: helloID,
		netDialer: &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		},
	}
}

// DialContext opens a plain TCP connection to addr, tunnelled when a proxy is set
func (d *FingerprintingDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if d.proxyURL == nil {
		conn, err := d.netDialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, fmt.Errorf("direct dial: %w", err)
		}
		return conn, nil
	}

	conn, err := d.dialThroughProxyWithContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("proxy dial: %w", err)
	}
	return conn, nil
}

func (d *FingerprintingDialer) DialTLSContext(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	spec, err := helloSpec(d.clientHelloID)
	if err != nil {
		conn.Close()
		return nil, err
	}

	uconn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloCustom)
	if err := uconn.ApplyPreset(&spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply ClientHello preset: %w", err)
	}
	if err := uconn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("uTLS handshake: %w", err)
	}

	return uconn, nil
}

// helloSpec expands id into a ClientHelloSpec advertising only http/1.1
func helloSpec(id utls.ClientHelloID) (utls.ClientHelloSpec, error) {
	spec, err := utls.UTLSIdToSpec(id)
	if err != nil {
		return utls.ClientHelloSpec{}, fmt.Errorf("build ClientHello spec for %s: %w", id.Str(), err)
	}
	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
		}
	}
	return spec, nil
}

func (d *FingerprintingDialer) dialThroughProxyWithContext(ctx context.Context, network, addr string) (net.Conn, error) {
	switch d.proxyURL.Scheme {
	case "http", "https":
		conn, err := d.netDialer.DialContext(ctx, "tcp", proxyAddr(d.proxyURL))
		if err != nil {
			return nil, fmt.Errorf("dial HTTP proxy: %w", err)
		}
		if d.proxyURL.Scheme == "https" {
			tlsConn := tls.Client(conn, &tls.Config{ServerName: d.proxyURL.Hostname()})
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, fmt.Errorf("TLS to proxy: %w", err)
			}
			conn = tlsConn
		}

		if err := connectTunnel(ctx, conn, d.proxyURL, addr); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil

	case "socks5":
		auth := &proxy.Auth{}
		if d.proxyURL.User != nil {
			auth.User = d.proxyURL.User.Username()
			if password, ok := d.proxyURL.User.Password(); ok {
				auth.Password = password
			}
		}

		dialer, err := proxy.SOCKS5("tcp", d.proxyURL.Host, auth, d.netDialer)
		if err != nil {
			return nil, fmt.Errorf("create SOCKS5 dialer: %w", err)
		}

		if cd, ok := dialer.(proxy.ContextDialer); ok {
			conn, err := cd.DialContext(ctx, network, addr)
			if err != nil {
				return nil, fmt.Errorf("dial via SOCKS5 proxy: %w", err)
			}
			return conn, nil
		}

		connCh := make(chan net.Conn, 1)
		errCh := make(chan error, 1)

		go func() {
			conn, err := dialer.Dial(network, addr)
			if err != nil {
				errCh <- err
				return
			}
			connCh <- conn
		}()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case conn := <-connCh:
			return conn, nil
		case err := <-errCh:
			return nil, fmt.Errorf("dial via SOCKS5 proxy: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", d.proxyURL.Scheme)
	}
}

func proxyAddr(u *url.URL) string {
	if u.Port() != "" {
		return u.Host
	}
	if u.Scheme == "https" {
		return net.JoinHostPort(u.Hostname(), "443")
	}
	return net.JoinHostPort(u.Hostname(), "80")
}

// connectTunnel issues an HTTP CONNECT for addr over conn and waits for a 200
func connectTunnel(ctx context.Context, conn net.Conn, proxyURL *url.URL, addr string) error {
	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: addr},
		Host:   addr,
		Header: make(http.Header),
	}
	if proxyURL.User != nil {
		password, _ := proxyURL.User.Password()
		creds := base64.StdEncoding.EncodeToString([]byte(proxyURL.User.Username() + ":" + password))
		req.Header.Set("Proxy-Authorization", "Basic "+creds)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
		defer conn.SetDeadline(time.Time{})
	}

	if err := req.Write(conn); err != nil {
		return fmt.Errorf("write CONNECT request: %w", err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		return fmt.Errorf("read CONNECT response: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("proxy refused CONNECT to %s: %s", addr, resp.Status)
	}
	return nil
}

// TLSFingerprintingTransport spreads requests over the configured proxies. Each proxy owns
// its own http.Transport so connection pools never mix exits.
type TLSFingerprintingTransport struct {
	proxyRotator *ProxyRotator
	browser      BrowserType

	mu         sync.Mutex
	transports map[string]*http.Transport
}

func NewTLSFingerprintingTransport(rotator *ProxyRotator, browser BrowserType) *TLSFingerprintingTransport {
	if rotator == nil {
		rotator = &ProxyRotator{}
	}
	return &TLSFingerprintingTransport{
		proxyRotator: rotator,
		browser:      browser,
		transports:   make(map[string]*http.Transport),
	}
}

func (t *TLSFingerprintingTransport) transportFor(proxyURL *url.URL) *http.Transport {
	key := ""
	if proxyURL != nil {
		key = proxyURL.String()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if tr, ok := t.transports[key]; ok {
		return tr
	}

	dialer := NewFingerprintingDialer(proxyURL, t.browser)
	tr := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ForceAttemptHTTP2:     false,
		// bodies are decoded by DecodeBody since Accept-Encoding is set explicitly
		DisableCompression: true,
	}
	if t.browser != NoFingerprint {
		tr.DialTLSContext = dialer.DialTLSContext
	}

	t.transports[key] = tr
	return tr
}

func (t *TLSFingerprintingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.transportFor(t.proxyRotator.NextProxy()).RoundTrip(req)
}

// CloseIdleConnections closes idle connections of every per-proxy transport
func (t *TLSFingerprintingTransport) CloseIdleConnections() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tr := range t.transports {
		tr.CloseIdleConnections()
	}
}

// MaskProxyURL hides the password of a proxy URL so it can be logged
func MaskProxyURL(proxyURL string) string {
	if !strings.Contains(proxyURL, "@") {
		return proxyURL
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		parts := strings.SplitN(proxyURL, "@", 2)
		auth := strings.SplitN(parts[0], "://", 2)
		protocol := ""
		if len(auth) > 1 {
			protocol = auth[0] + "://"
			auth[0] = auth[1]
		}

		userPass := strings.SplitN(auth[0], ":", 2)
		if len(userPass) > 1 {
			return protocol + userPass[0] + ":****@" + parts[1]
		}
		return "[masked]"
	}

	if parsedURL.User != nil {
		username := parsedURL.User.Username()
		return strings.Replace(proxyURL, parsedURL.User.String(), username+":****", 1)
	}

	return proxyURL
}

// ClientOptions configures NewHTTPClient
type ClientOptions struct {
	ProxyURLs   []string
	Fingerprint BrowserType
	Timeout     time.Duration
	Logger      *zerolog.Logger
}

// NewHTTPClient builds the outbound client shared by every Douyin call: browser TLS
// fingerprint, optional proxy rotation and a per-request timeout ceiling.
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	rotator, err := NewProxyRotator(opts.ProxyURLs)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy rotator: %w", err)
	}

	if opts.Logger != nil {
		for i, p := range rotator.proxyURLs {
			opts.Logger.Info().Int("index", i+1).Str("proxy", MaskProxyURL(p)).Msg("proxy configured")
		}
		opts.Logger.Info().
			Int("proxies", rotator.Len()).
			Str("fingerprint", opts.Fingerprint.String()).
			Msg("created HTTP client")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Transport: NewTLSFingerprintingTransport(rotator, opts.Fingerprint),
		Timeout:   timeout,
	}, nil
}

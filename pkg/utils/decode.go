package utils

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// MaxBodyBytes bounds every decoded response body
const MaxBodyBytes = 32 << 20

// DecodeBody reads resp.Body and undoes its Content-Encoding. The body is closed.
func DecodeBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	body, err := Decompress(raw, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}

	// some edges gzip an already gzipped payload without saying so
	if len(body) > 2 && body[0] == 0x1f && body[1] == 0x8b {
		if again, err := Decompress(body, "gzip"); err == nil {
			body = again
		}
	}
	return body, nil
}

// Decompress decodes data according to a Content-Encoding header value.
// Stacked encodings ("gzip, br") are undone right to left.
func Decompress(data []byte, contentEncoding string) ([]byte, error) {
	encodings := strings.Split(contentEncoding, ",")
	for i := len(encodings) - 1; i >= 0; i-- {
		enc := strings.ToLower(strings.TrimSpace(encodings[i]))
		if enc == "" || enc == "identity" {
			continue
		}

		out, err := decompressOne(data, enc)
		if err != nil {
			return nil, fmt.Errorf("decoding %s body: %w", enc, err)
		}
		data = out
	}
	return data, nil
}

func decompressOne(data []byte, enc string) ([]byte, error) {
	var r io.Reader
	switch enc {
	case "gzip", "x-gzip":
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	case "deflate":
		// RFC 9110 deflate is zlib framed, but raw deflate is common in the wild
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			fr := flate.NewReader(bytes.NewReader(data))
			defer fr.Close()
			r = fr
		} else {
			defer zr.Close()
			r = zr
		}
	case "br":
		r = brotli.NewReader(bytes.NewReader(data))
	case "zstd":
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", enc)
	}

	return io.ReadAll(io.LimitReader(r, MaxBodyBytes))
}

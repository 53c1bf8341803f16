package signing

import "math/rand/v2"

const (
	// MsTokenLength is the length of every generated msToken
	MsTokenLength = 107

	msTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// TokenSource produces a fresh msToken for one outbound request
type TokenSource func() string

// GenerateMsToken returns a random 107-character alphanumeric token.
// The runtime-seeded generator is used, so consecutive calls never share a seed.
func GenerateMsToken() string {
	b := make([]byte, MsTokenLength)
	for i := range b {
		b[i] = msTokenAlphabet[rand.IntN(len(msTokenAlphabet))]
	}
	return string(b)
}

package resolver

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"douyin-comments/internal/mocks"
	pkgerrs "douyin-comments/pkg/errors"
)

func randomID(n int) string {
	var sb strings.Builder
	sb.WriteByte(byte('1' + rand.IntN(9)))
	for sb.Len() < n {
		sb.WriteByte(byte('0' + rand.IntN(10)))
	}
	return sb.String()
}

func newResolver(follower ShortLinkFollower) *Resolver {
	nop := zerolog.Nop()
	return NewResolver(follower, []string{"v.douyin.com"}, &nop)
}

func noFollow(t *testing.T) *mocks.MockDouyinClient {
	return &mocks.MockDouyinClient{
		ResolveShortLinkFunc: func(context.Context, string) (string, error) {
			t.Error("short link must not be followed")
			return "", nil
		},
	}
}

func TestResolveBareIDsUnchanged(t *testing.T) {
	r := newResolver(noFollow(t))
	for i := 0; i < 100; i++ {
		id := randomID(MinIDLength + rand.IntN(6))
		got, err := r.Resolve(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, id, got)
	}
}

func TestResolveURLShapes(t *testing.T) {
	r := newResolver(noFollow(t))
	for i := 0; i < 50; i++ {
		id := randomID(19)
		shapes := []string{
			"https://www.douyin.com/video/" + id,
			"https://www.douyin.com/video/" + id + "/",
			"https://www.douyin.com/video/" + id + "?previous_page=app_code_link",
			"www.douyin.com/video/" + id + "/comments?x=1",
			"https://www.douyin.com/user/MS4wLjABAAAA?modal_id=" + id,
			"https://www.douyin.com/user/self?from_tab_name=main&modal_id=" + id + "&vid=1",
			"  https://www.douyin.com/discover?modal_id=" + id + "  ",
		}
		for _, in := range shapes {
			got, err := r.Resolve(context.Background(), in)
			require.NoError(t, err, in)
			require.Equal(t, id, got, in)
		}
	}
}

func TestResolveShortLinks(t *testing.T) {
	id := randomID(19)
	var followed []string
	follower := &mocks.MockDouyinClient{
		ResolveShortLinkFunc: func(_ context.Context, rawURL string) (string, error) {
			followed = append(followed, rawURL)
			switch {
			case strings.Contains(rawURL, "Modal"):
				return "https://www.douyin.com/user/x?modal_id=" + id + "&a=b", nil
			default:
				return "https://www.iesdouyin.com/share/video/" + id + "/?region=CN&mid=1", nil
			}
		},
	}
	r := newResolver(follower)

	tests := []struct {
		input string
		link  string
	}{
		{"https://v.douyin.com/iRNBho6u/", "https://v.douyin.com/iRNBho6u/"},
		{"v.douyin.com/iRNBho6u/", "https://v.douyin.com/iRNBho6u/"},
		{"7.43 复制打开抖音，看看【某某的作品】好看 https://v.douyin.com/Modal12/ abc:/ 01/02", "https://v.douyin.com/Modal12/"},
	}

	for _, tt := range tests {
		followed = nil
		got, err := r.Resolve(context.Background(), tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, id, got)
		assert.Equal(t, []string{tt.link}, followed)
	}
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("blank", func(t *testing.T) {
		_, err := newResolver(noFollow(t)).Resolve(ctx, "   ")
		var ee *pkgerrs.EmptyInputError
		assert.ErrorAs(t, err, &ee)
	})

	t.Run("unrecognised", func(t *testing.T) {
		for _, in := range []string{"hello", "123456", "https://www.douyin.com/video/abc", "https://example.com/?modal_id=x1"} {
			_, err := newResolver(noFollow(t)).Resolve(ctx, in)
			var ue *pkgerrs.UnresolvableIdentifierError
			assert.ErrorAs(t, err, &ue, in)
		}
	})

	t.Run("short link leads nowhere", func(t *testing.T) {
		r := newResolver(&mocks.MockDouyinClient{
			ResolveShortLinkFunc: func(context.Context, string) (string, error) {
				return "https://www.douyin.com/", nil
			},
		})
		_, err := r.Resolve(ctx, "https://v.douyin.com/abc/")
		var ue *pkgerrs.UnresolvableIdentifierError
		assert.ErrorAs(t, err, &ue)
	})

	t.Run("short link status", func(t *testing.T) {
		r := newResolver(&mocks.MockDouyinClient{
			ResolveShortLinkFunc: func(_ context.Context, u string) (string, error) {
				return "", &pkgerrs.UnresolvableIdentifierError{Input: u, StatusCode: http.StatusNotFound}
			},
		})
		_, err := r.Resolve(ctx, "https://v.douyin.com/abc/")
		var ue *pkgerrs.UnresolvableIdentifierError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, http.StatusNotFound, ue.StatusCode)
	})

	t.Run("short link transport", func(t *testing.T) {
		r := newResolver(&mocks.MockDouyinClient{
			ResolveShortLinkFunc: func(_ context.Context, u string) (string, error) {
				return "", &pkgerrs.TransportError{Operation: "resolve short link", URL: u, Err: errors.New("reset")}
			},
		})
		_, err := r.Resolve(ctx, "https://v.douyin.com/abc/")
		var te *pkgerrs.TransportError
		assert.ErrorAs(t, err, &te)
	})

	t.Run("no follower", func(t *testing.T) {
		nop := zerolog.Nop()
		_, err := NewResolver(nil, []string{"v.douyin.com"}, &nop).Resolve(ctx, "https://v.douyin.com/abc/")
		var ue *pkgerrs.UnresolvableIdentifierError
		assert.ErrorAs(t, err, &ue)
	})
}

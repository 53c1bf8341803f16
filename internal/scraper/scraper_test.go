package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"douyin-comments/internal/client"
	"douyin-comments/internal/mocks"
	"douyin-comments/internal/models"
	"douyin-comments/internal/parser"
	"douyin-comments/internal/signing"
	pkgerrs "douyin-comments/pkg/errors"
)

const videoID = "7335414539335222835"

func newService(c *mocks.MockDouyinClient, pacer Pacer) ScraperService {
	nop := zerolog.Nop()
	return NewScraperService(c, parser.NewDouyinParser(time.UTC), nil, pacer, &nop)
}

// pagedClient serves pages in order and records the cursors it was asked for
func pagedClient(pages []json.RawMessage, cursors *[]int64) *mocks.MockDouyinClient {
	return &mocks.MockDouyinClient{
		FetchCommentPageFunc: func(_ context.Context, id string, cursor int64, _ string) (json.RawMessage, error) {
			*cursors = append(*cursors, cursor)
			if len(*cursors) > len(pages) {
				return nil, errors.New("requested a page past the end")
			}
			return pages[len(*cursors)-1], nil
		},
	}
}

func TestFetchCommentsScenarioA(t *testing.T) {
	var cursors []int64
	pages := []json.RawMessage{
		mocks.CommentPageJSON(1, 20, 20, true, 40),
		mocks.CommentPageJSON(21, 20, 40, true, 41),
		mocks.CommentPageJSON(0, 0, 0, false, -1),
	}

	var reports []models.Progress
	res, err := newService(pagedClient(pages, &cursors), NoDelay).FetchComments(context.Background(),
		models.RetrievalRequest{VideoID: videoID, Credential: "c"},
		func(p models.Progress) { reports = append(reports, p) })

	require.NoError(t, err)
	assert.Len(t, res.Comments, 40)
	assert.Equal(t, []int64{0, 20, 40}, cursors)
	assert.Equal(t, 3, res.Pages)
	assert.True(t, res.Complete)
	assert.False(t, res.HasMore)
	require.NotNil(t, res.Total)
	assert.Equal(t, int64(40), *res.Total, "first declared total wins")
	assert.NotEmpty(t, res.SessionID)

	assert.Equal(t, "1", res.Comments[0].ID)
	assert.Equal(t, "40", res.Comments[39].ID)

	require.Len(t, reports, 3)
	assert.Equal(t, 20, reports[0].Fetched)
	assert.Equal(t, 40, reports[2].Fetched)
	f, ok := reports[0].Fraction()
	assert.True(t, ok)
	assert.InDelta(t, 0.5, f, 1e-9)
}

func TestFetchCommentsStopsOnEmptyPageDespiteCursor(t *testing.T) {
	var cursors []int64
	pages := []json.RawMessage{
		mocks.CommentPageJSON(1, 20, 20, true, -1),
		mocks.CommentPageJSON(0, 0, 40, true, -1),
	}

	res, err := newService(pagedClient(pages, &cursors), NoDelay).FetchComments(context.Background(),
		models.RetrievalRequest{VideoID: videoID}, nil)

	require.NoError(t, err)
	assert.Equal(t, []int64{0, 20}, cursors)
	assert.Len(t, res.Comments, 20)
	assert.True(t, res.Complete)
	assert.True(t, res.HasMore, "has_more is recorded, not obeyed")
}

func TestFetchCommentsStopsOnZeroCursorDespiteComments(t *testing.T) {
	var cursors []int64
	pages := []json.RawMessage{
		mocks.CommentPageJSON(1, 20, 0, true, -1),
	}

	var reports []models.Progress
	res, err := newService(pagedClient(pages, &cursors), NoDelay).FetchComments(context.Background(),
		models.RetrievalRequest{VideoID: videoID},
		func(p models.Progress) { reports = append(reports, p) })

	require.NoError(t, err)
	assert.Equal(t, []int64{0}, cursors)
	assert.Len(t, res.Comments, 20)
	assert.True(t, res.Complete)
	assert.Nil(t, res.Total)

	require.Len(t, reports, 1)
	_, ok := reports[0].Fraction()
	assert.False(t, ok, "unknown total is indeterminate")
}

func TestFetchCommentsResumesAndHonoursMax(t *testing.T) {
	var cursors []int64
	pages := []json.RawMessage{
		mocks.CommentPageJSON(101, 20, 120, true, 500),
		mocks.CommentPageJSON(121, 20, 140, true, 500),
	}

	res, err := newService(pagedClient(pages, &cursors), NoDelay).FetchComments(context.Background(),
		models.RetrievalRequest{VideoID: videoID, StartCursor: 100, MaxComments: 30}, nil)

	require.NoError(t, err)
	assert.Equal(t, []int64{100, 120}, cursors)
	assert.Len(t, res.Comments, 30)
	assert.False(t, res.Complete)
	assert.Equal(t, int64(140), res.NextCursor)
}

func TestFetchCommentsReturnsPartialOnError(t *testing.T) {
	var calls int
	c := &mocks.MockDouyinClient{
		FetchCommentPageFunc: func(_ context.Context, _ string, cursor int64, _ string) (json.RawMessage, error) {
			calls++
			if calls == 1 {
				return mocks.CommentPageJSON(1, 20, 20, true, -1), nil
			}
			return nil, &pkgerrs.ProtocolError{Operation: "fetch comments", StatusCode: http.StatusInternalServerError}
		},
	}

	res, err := newService(c, NoDelay).FetchComments(context.Background(), models.RetrievalRequest{VideoID: videoID}, nil)

	var pe *pkgerrs.ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusInternalServerError, pe.StatusCode)
	assert.Len(t, res.Comments, 20)
	assert.Equal(t, int64(20), res.NextCursor)
	assert.False(t, res.Complete)
	assert.Equal(t, 2, calls)
}

func TestFetchCommentsProtocolErrorFromBody(t *testing.T) {
	c := &mocks.MockDouyinClient{
		FetchCommentPageFunc: func(context.Context, string, int64, string) (json.RawMessage, error) {
			return json.RawMessage(`[]`), nil
		},
	}

	res, err := newService(c, NoDelay).FetchComments(context.Background(), models.RetrievalRequest{VideoID: videoID}, nil)
	var pe *pkgerrs.ProtocolError
	assert.ErrorAs(t, err, &pe)
	assert.Empty(t, res.Comments)
}

func TestFetchCommentsRejectsBlankID(t *testing.T) {
	res, err := newService(&mocks.MockDouyinClient{}, NoDelay).FetchComments(context.Background(),
		models.RetrievalRequest{VideoID: " "}, nil)
	var ee *pkgerrs.EmptyInputError
	assert.ErrorAs(t, err, &ee)
	assert.NotNil(t, res.Comments)
}

type cancelPacer struct{ cancel context.CancelFunc }

func (p cancelPacer) Wait(ctx context.Context) error {
	p.cancel()
	return NoDelay.Wait(ctx)
}

func TestFetchCommentsCancelledBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cursors []int64
	pages := []json.RawMessage{mocks.CommentPageJSON(1, 20, 20, true, -1)}

	res, err := newService(pagedClient(pages, &cursors), cancelPacer{cancel}).FetchComments(ctx,
		models.RetrievalRequest{VideoID: videoID}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, res.Comments, 20)
	assert.Equal(t, []int64{0}, cursors)
}

// Scenario B runs the real client against a test server: the signer fails for page 2,
// so the server sees exactly one request.
func TestFetchCommentsScenarioBSignerFailsOnPageTwo(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(mocks.CommentPageJSON(1, 20, 20, true, 60))
	}))
	defer srv.Close()

	var signs int32
	signer := signing.SignerFunc(func(context.Context, string, string) (string, error) {
		if atomic.AddInt32(&signs, 1) == 2 {
			return "", errors.New("signer crashed")
		}
		return "DFSzswVO", nil
	})

	nop := zerolog.Nop()
	dc := client.New(client.Options{
		BaseURL:    srv.URL,
		UserAgent:  "UA",
		Signer:     signer,
		HTTPClient: srv.Client(),
		Logger:     &nop,
	})
	svc := NewScraperService(dc, parser.NewDouyinParser(time.UTC), nil, NoDelay, &nop)

	res, err := svc.FetchComments(context.Background(), models.RetrievalRequest{VideoID: videoID, Credential: "c"}, nil)

	var se *pkgerrs.SignatureError
	require.ErrorAs(t, err, &se)
	assert.Len(t, res.Comments, 20)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
	assert.EqualValues(t, 2, atomic.LoadInt32(&signs))
}

func TestVerifyCredentialScenarioC(t *testing.T) {
	tests := []struct {
		status  int
		want    models.CredentialStatus
		wantErr bool
	}{
		{http.StatusOK, models.CredentialValid, false},
		{http.StatusForbidden, models.CredentialInvalid, false},
		{http.StatusInternalServerError, "", true},
		{http.StatusFound, "", true},
	}

	for _, tt := range tests {
		c := &mocks.MockDouyinClient{
			ProbeCredentialFunc: func(_ context.Context, cred string) (int, error) {
				assert.Equal(t, "sessionid=abc", cred)
				return tt.status, nil
			},
		}

		got, err := newService(c, NoDelay).VerifyCredential(context.Background(), " sessionid=abc ")
		if tt.wantErr {
			var ve *pkgerrs.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.status, ve.StatusCode)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestVerifyCredentialErrors(t *testing.T) {
	c := &mocks.MockDouyinClient{
		ProbeCredentialFunc: func(context.Context, string) (int, error) {
			return 0, &pkgerrs.TransportError{Operation: "verify credential", Err: errors.New("timeout")}
		},
	}
	svc := newService(c, NoDelay)

	_, err := svc.VerifyCredential(context.Background(), "")
	var ee *pkgerrs.EmptyInputError
	assert.ErrorAs(t, err, &ee)

	_, err = svc.VerifyCredential(context.Background(), "cookie")
	var te *pkgerrs.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestResolveVideoIDDelegates(t *testing.T) {
	nop := zerolog.Nop()
	svc := NewScraperService(&mocks.MockDouyinClient{}, parser.NewDouyinParser(time.UTC),
		resolverFunc(func(_ context.Context, in string) (string, error) { return "id:" + in, nil }), NoDelay, &nop)

	got, err := svc.ResolveVideoID(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "id:x", got)
}

type resolverFunc func(ctx context.Context, input string) (string, error)

func (f resolverFunc) Resolve(ctx context.Context, input string) (string, error) { return f(ctx, input) }

package adsbridge

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTransport struct{}

func (stubTransport) CreateRequest() *Request {
	return NewRequest("https://ads-api.twitter.com")
}

func (stubTransport) Execute(context.Context, *Request) (*Response, error) {
	return &Response{StatusCode: 200}, nil
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(Consumer{Key: "ck", Secret: "cs"}, Token{Key: "tk", Secret: "ts"})
	require.NoError(t, err)
	return s
}

func TestDefaultVersion_LeadingNumeral(t *testing.T) {
	cases := map[string]string{
		"1.1-something": "1",
		"12":            "12",
		"7.0":           "7",
	}
	for in, want := range cases {
		a, err := New(stubTransport{}, newTestSession(t), WithAPIVersion(in))
		require.NoError(t, err, in)
		v, err := a.DefaultVersion()
		require.NoError(t, err)
		assert.Equal(t, want, v, in)
	}
}

func TestDefaultVersion_IsMemoized(t *testing.T) {
	a, err := New(stubTransport{}, newTestSession(t), WithAPIVersion("1.1-something"))
	require.NoError(t, err)

	v, err := a.DefaultVersion()
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	a.opts.apiVersion = "9.9"
	v, err = a.DefaultVersion()
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestDefaultVersion_ConcurrentCallersSeeOneValue(t *testing.T) {
	a, err := New(stubTransport{}, newTestSession(t), WithAPIVersion("3"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = a.DefaultVersion()
		}(i)
	}
	wg.Wait()
	for _, v := range results {
		assert.Equal(t, "3", v)
	}
}

func TestNew_RejectsVersionWithoutNumeral(t *testing.T) {
	_, err := New(stubTransport{}, newTestSession(t), WithAPIVersion("beta-1"))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = New(stubTransport{}, newTestSession(t), WithAPIVersion(""))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestNew_RejectsMissingCollaborators(t *testing.T) {
	_, err := New(nil, newTestSession(t))
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = New(stubTransport{}, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestCopyWithSession_KeepsResolvedVersion(t *testing.T) {
	a, err := New(stubTransport{}, newTestSession(t), WithAPIVersion("5"))
	require.NoError(t, err)

	other := a.CopyWithSession(a.Session().WithToken(Token{Key: "tk2", Secret: "ts2"}))
	other.opts.apiVersion = "not-a-version"

	v, err := other.DefaultVersion()
	require.NoError(t, err)
	assert.Equal(t, "5", v)
	assert.Equal(t, a.Transport(), other.Transport())
	assert.Equal(t, a.Logger(), other.Logger())
	assert.Equal(t, "tk2", other.Session().Token().Key)
}

func TestMethodBags_CoverEverySupportedMethod(t *testing.T) {
	assert.Equal(t, queryBag, methodBags[MethodGet])
	for _, m := range []string{MethodPost, MethodPut, MethodDelete} {
		assert.Equal(t, bodyBag, methodBags[m], m)
	}
	assert.Len(t, methodBags, 4)
}

func TestRequestURL_PrefixesVersion(t *testing.T) {
	req := NewRequest("https://ads-api.twitter.com/")
	req.Version = "12"

	req.Path = "/accounts"
	assert.Equal(t, "https://ads-api.twitter.com/12/accounts", req.URL())

	req.Path = "/12/accounts"
	assert.Equal(t, "https://ads-api.twitter.com/12/accounts", req.URL())

	req.Path = "/1.1/statuses/update.json"
	assert.Equal(t, "https://ads-api.twitter.com/1.1/statuses/update.json", req.URL())
}

// bareTransport builds envelopes without NewRequest, leaving bags and maps nil.
type bareTransport struct {
	last *Request
}

func (b *bareTransport) CreateRequest() *Request {
	return &Request{Host: "https://ads-api.twitter.com"}
}

func (b *bareTransport) Execute(_ context.Context, req *Request) (*Response, error) {
	b.last = req
	return &Response{StatusCode: 200}, nil
}

func TestCall_FillsBareEnvelope(t *testing.T) {
	transport := &bareTransport{}
	a, err := New(transport, newTestSession(t))
	require.NoError(t, err)

	resp, err := a.Call(context.Background(), "/12/accounts", MethodGet, map[string]string{"a": "1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	require.NotNil(t, transport.last)
	v, ok := transport.last.Query.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.True(t, transport.last.Query.Has(oauthSignatureParam))

	_, err = a.Call(context.Background(), "/12/media", MethodPost, map[string]string{"name": "x"}, map[string][]byte{"media": []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), transport.last.Files["media"])
	assert.True(t, transport.last.Body.Has(oauthSignatureParam))

	a, err = New(transport, newTestSession(t), WithPlacement(PlacementHeader))
	require.NoError(t, err)
	_, err = a.Call(context.Background(), "/12/accounts", MethodGet, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, transport.last.Headers["Authorization"], "OAuth ")
}

type nilRequestTransport struct{ stubTransport }

func (nilRequestTransport) CreateRequest() *Request { return nil }

func TestCall_NilEnvelope(t *testing.T) {
	a, err := New(nilRequestTransport{}, newTestSession(t))
	require.NoError(t, err)

	_, err = a.Call(context.Background(), "/12/accounts", MethodGet, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

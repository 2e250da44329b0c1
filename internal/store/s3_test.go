package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves path-style GetObject and PutObject requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(req.URL.Path, "/")
	switch req.Method {
	case http.MethodPut:
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		f.objects[path] = body
		f.puts++
		return response(http.StatusOK, nil, http.Header{"Etag": {`"etag"`}}), nil
	case http.MethodGet:
		body, ok := f.objects[path]
		if !ok {
			xml := `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`
			return response(http.StatusNotFound, []byte(xml), http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return response(http.StatusOK, body, http.Header{
			"Content-Type":   {"application/json"},
			"Content-Length": {fmt.Sprintf("%d", len(body))},
		}), nil
	}
	return response(http.StatusNotImplemented, nil, http.Header{}), nil
}

func response(status int, body []byte, header http.Header) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

func newFakeS3Store(t *testing.T) (*S3, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	s, err := NewS3(context.Background(), S3Config{
		Bucket:          "recipes",
		Key:             "team/stsfctry-recipes.json",
		Endpoint:        "http://s3.test",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		HTTPClient:      &http.Client{Transport: fake},
	})
	require.NoError(t, err)
	return s, fake
}

func TestS3LoadMissingObjectReturnsEmpty(t *testing.T) {
	s, _ := newFakeS3Store(t)

	recipes, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestS3RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, fake := newFakeS3Store(t)

	require.NoError(t, s.SaveAll(ctx, sampleRecipes()))
	assert.Equal(t, 1, fake.puts)
	assert.Contains(t, string(fake.objects["recipes/team/stsfctry-recipes.json"]), `"productionRate": 60`)

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecipes(), got)
}

func TestS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{})
	require.Error(t, err)
}

package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	calls   atomic.Int32
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls.Add(1)
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestLoadFileRelativeToBaseDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte("png"), 0o644))

	l := NewLoader(WithBaseDir(dir))
	data, err := l.Load(context.Background(), "logo.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	data, err = l.Load(context.Background(), "file://"+filepath.Join(dir, "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("jpeg"))
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))
	data, err := l.Load(context.Background(), srv.URL+"/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)

	_, err = l.Load(context.Background(), srv.URL+"/missing.jpg")
	var le *AssetLoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, srv.URL+"/missing.jpg", le.Ref)
}

func TestLoadTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	l := NewLoader(WithTimeout(50*time.Millisecond), WithHTTPClient(srv.Client()))
	start := time.Now()
	_, err := l.Load(context.Background(), srv.URL+"/slow.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLoadS3AndEmbedded(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{"site-photos/p123/room1.jpg": []byte("s3jpeg")}}
	l := NewLoader(
		WithS3(fake),
		WithFS(fstest.MapFS{"branding/logo.png": {Data: []byte("embedded")}}),
	)

	data, err := l.Load(context.Background(), "s3://site-photos/p123/room1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("s3jpeg"), data)

	data, err = l.Load(context.Background(), "embed:branding/logo.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("embedded"), data)

	_, err = NewLoader().Load(context.Background(), "s3://bucket/key")
	assert.ErrorIs(t, err, errNoS3)
	_, err = NewLoader().Load(context.Background(), "ftp://host/file")
	assert.Error(t, err)
}

func TestParseS3Ref(t *testing.T) {
	bucket, key, err := ParseS3Ref("s3://photos/a/b/c.jpg")
	require.NoError(t, err)
	assert.Equal(t, "photos", bucket)
	assert.Equal(t, "a/b/c.jpg", key)

	for _, bad := range []string{"photos/a.jpg", "s3://photos", "s3:///key"} {
		_, _, err := ParseS3Ref(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadAllCollectsSuccessesOnly(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{"b/ok.jpg": []byte("ok")}}
	l := NewLoader(WithS3(fake))

	bundle := l.LoadAll(context.Background(),
		Request{Ref: "s3://b/ok.jpg", Label: "Item 1"},
		Request{Ref: "s3://b/gone.jpg", Label: "Item 2"},
		Request{Ref: "s3://b/ok.jpg", Label: "Item 3"},
		Request{Ref: ""},
	)
	assert.Equal(t, 1, bundle.Len())
	data, ok := bundle.Lookup("s3://b/ok.jpg")
	assert.True(t, ok)
	assert.Equal(t, []byte("ok"), data)
	_, ok = bundle.Lookup("s3://b/gone.jpg")
	assert.False(t, ok)
	assert.EqualValues(t, 2, fake.calls.Load(), "duplicate refs are fetched once")
}

func TestStaticAssetsAreCached(t *testing.T) {
	ref := "s3://branding/cache-test-logo.png"
	t.Cleanup(func() { staticCache.Delete(ref) })

	fake := &fakeS3{objects: map[string][]byte{"branding/cache-test-logo.png": []byte("logo")}}
	l := NewLoader(WithS3(fake))
	for range 3 {
		b := l.LoadAll(context.Background(), Request{Ref: ref, Static: true})
		_, ok := b.Lookup(ref)
		require.True(t, ok)
	}
	assert.EqualValues(t, 1, fake.calls.Load())
}

func TestStaticCacheSeparatesBaseDirs(t *testing.T) {
	const ref = "branding/cache-test-logo.png"
	dirs := []string{t.TempDir(), t.TempDir()}
	for i, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "branding"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ref), []byte{byte('a' + i)}, 0o644))
	}

	for i, dir := range dirs {
		l := NewLoader(WithBaseDir(dir))
		t.Cleanup(func() { staticCache.Delete(l.cacheKey(ref)) })
		b := l.LoadAll(context.Background(), Request{Ref: ref, Static: true})
		data, ok := b.Lookup(ref)
		require.True(t, ok)
		assert.Equal(t, []byte{byte('a' + i)}, data, "loader rooted at %s", dir)
	}
}

func TestCacheKey(t *testing.T) {
	l := NewLoader(WithBaseDir("/srv/reports"))
	assert.Equal(t, "file:"+filepath.Join("/srv/reports", "logo.png"), l.cacheKey("logo.png"))
	assert.Equal(t, "file:"+filepath.Join("/srv/reports", "logo.png"), l.cacheKey("file://logo.png"))
	assert.Equal(t, "/abs/logo.png", l.cacheKey("/abs/logo.png"))
	assert.Equal(t, "s3://b/logo.png", l.cacheKey("s3://b/logo.png"))
	assert.Equal(t, "embed:branding/logo.png", l.cacheKey("embed:branding/logo.png"))
	assert.Equal(t, "logo.png", NewLoader().cacheKey("logo.png"))
}

func TestNilBundle(t *testing.T) {
	var b *Bundle
	_, ok := b.Lookup("x")
	assert.False(t, ok)
	assert.Zero(t, b.Len())
}

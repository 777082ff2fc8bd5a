package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	return img
}

func TestFit(t *testing.T) {
	cases := []struct {
		w, h, max int
		wantW     int
		wantH     int
	}{
		{1600, 800, 800, 800, 400},
		{600, 1200, 800, 400, 800},
		{300, 200, 800, 300, 200},
	}

	for _, tc := range cases {
		b := Fit(solid(tc.w, tc.h), tc.max).Bounds()
		if b.Dx() != tc.wantW || b.Dy() != tc.wantH {
			t.Fatalf("Fit(%dx%d, %d): expected %dx%d, got %dx%d", tc.w, tc.h, tc.max, tc.wantW, tc.wantH, b.Dx(), b.Dy())
		}
	}
}

func TestToWebPRejectsGarbage(t *testing.T) {
	_, err := ToWebP(strings.NewReader("not an image"), 100, 80)
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
}

type memStore struct {
	key, contentType string
	body             []byte
}

func (m *memStore) Put(_ context.Context, key, contentType string, body []byte) (string, error) {
	m.key, m.contentType, m.body = key, contentType, body
	return "https://cdn.test/" + key, nil
}

func TestUploaderConvertsToWebP(t *testing.T) {
	var src bytes.Buffer
	if err := png.Encode(&src, solid(1200, 600)); err != nil {
		t.Fatalf("png: %v", err)
	}

	store := &memStore{}
	url, err := NewUploader(store, 400).Upload(context.Background(), "barbers", "b1", &src)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if !strings.HasPrefix(store.key, "barbers/b1/") || !strings.HasSuffix(store.key, ".webp") {
		t.Fatalf("unexpected key %q", store.key)
	}
	if store.contentType != "image/webp" {
		t.Fatalf("unexpected content type %q", store.contentType)
	}
	if url != "https://cdn.test/"+store.key {
		t.Fatalf("unexpected url %q", url)
	}

	img, format, err := image.Decode(bytes.NewReader(store.body))
	if err != nil {
		t.Fatalf("decode uploaded body: %v", err)
	}
	if format != "webp" || img.Bounds().Dx() != 400 || img.Bounds().Dy() != 200 {
		t.Fatalf("unexpected output %s %v", format, img.Bounds())
	}
}

type fakePutter struct {
	in *s3.PutObjectInput
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	putter := &fakePutter{}
	store := &S3Store{client: putter, bucket: "media", publicURL: "https://cdn.test"}

	url, err := store.Put(context.Background(), "services/s1/x.webp", "image/webp", []byte("abc"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "https://cdn.test/services/s1/x.webp" {
		t.Fatalf("unexpected url %q", url)
	}
	if aws.ToString(putter.in.Bucket) != "media" || aws.ToString(putter.in.ContentType) != "image/webp" {
		t.Fatalf("unexpected put input: %+v", putter.in)
	}
}

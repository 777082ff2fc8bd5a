package media

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

const (
	DefaultMaxSide = 800
	webpQuality    = 80
)

// Store guarda bytes e devolve a URL pública do objeto.
type Store interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type Uploader struct {
	store   Store
	maxSide int
}

func NewUploader(store Store, maxSide int) *Uploader {
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	return &Uploader{store: store, maxSide: maxSide}
}

// Upload converte a imagem para WebP e grava em <folder>/<ownerID>/<uuid>.webp.
// Cada envio gera uma chave nova.
func (u *Uploader) Upload(ctx context.Context, folder, ownerID string, r io.Reader) (string, error) {
	body, err := ToWebP(r, u.maxSide, webpQuality)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%s.webp", folder, ownerID, uuid.NewString())
	return u.store.Put(ctx, key, "image/webp", body)
}

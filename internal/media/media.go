package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/infra/objectstore"
)

const (
	logoMaxEdge    = 512
	serviceMaxEdge = 1024

	webpQuality = 80
)

// Processor normalizes uploaded images: decode whatever came in,
// scale down to a bounded edge, re-encode as webp and store it.
type Processor struct {
	store *objectstore.Store
}

func NewProcessor(store *objectstore.Store) *Processor {
	return &Processor{store: store}
}

func (p *Processor) StoreLogo(
	ctx context.Context,
	businessID uint,
	r io.Reader,
) (string, error) {
	key := fmt.Sprintf("media/%d/logo-%s.webp", businessID, uuid.NewString())
	return p.process(ctx, key, r, logoMaxEdge)
}

func (p *Processor) StoreServiceImage(
	ctx context.Context,
	businessID uint,
	serviceID uint,
	r io.Reader,
) (string, error) {
	key := fmt.Sprintf("media/%d/service-%d-%s.webp", businessID, serviceID, uuid.NewString())
	return p.process(ctx, key, r, serviceMaxEdge)
}

func (p *Processor) process(
	ctx context.Context,
	key string,
	r io.Reader,
	maxEdge int,
) (string, error) {

	src, _, err := image.Decode(r)
	if err != nil {
		return "", httperr.ErrBusiness("invalid_image")
	}

	img := scaleDown(src, maxEdge)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return "", err
	}

	if err := p.store.Put(ctx, key, "image/webp", buf.Bytes()); err != nil {
		return "", err
	}
	return key, nil
}

// scaleDown shrinks the image so its longest edge fits maxEdge,
// preserving the aspect ratio. Smaller images pass through untouched.
func scaleDown(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

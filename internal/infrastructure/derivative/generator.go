package derivative

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"recipehub/media-api/internal/config"
	"recipehub/media-api/internal/domain/media"
	"recipehub/media-api/internal/infrastructure/metrics"
)

var errTooManyPixels = errors.New("image dimensions too large for thumbnail")

// Generator renders JPEG thumbnails for images and videos.
type Generator struct {
	size      int
	quality   int
	maxPixels int64
	workDir   string
	frames    FrameGrabber
	log       zerolog.Logger
}

func NewGenerator(cfg *config.Config, log zerolog.Logger) *Generator {
	return &Generator{
		size:      cfg.ThumbnailSize,
		quality:   cfg.ThumbnailQuality,
		maxPixels: cfg.ThumbnailMaxPix,
		workDir:   cfg.WorkDir,
		frames:    NewFFmpegFrameGrabber(cfg),
		log:       log.With().Str("component", "derivative-generator").Logger(),
	}
}

// Thumbnail returns JPEG bytes that fit within size x size.
func (g *Generator) Thumbnail(ctx context.Context, kind media.Kind, data []byte) (out []byte, err error) {
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		metrics.RecordDerivative(string(kind), outcome)
	}()

	switch kind {
	case media.KindImage:
		return g.imageThumbnail(data)
	case media.KindVideo:
		return g.videoThumbnail(ctx, data)
	default:
		return nil, fmt.Errorf("no derivative strategy for kind %q", kind)
	}
}

func (g *Generator) imageThumbnail(data []byte) ([]byte, error) {
	// Decoding allocates the full bitmap, so the header is checked first.
	hdr, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if hdr.Width <= 0 || hdr.Height <= 0 {
		return nil, fmt.Errorf("image has no pixels (%dx%d)", hdr.Width, hdr.Height)
	}
	if g.maxPixels > 0 && int64(hdr.Width)*int64(hdr.Height) > g.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", errTooManyPixels, hdr.Width, hdr.Height, g.maxPixels)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), g.size)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha channel
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: g.quality}); err != nil {
		return nil, fmt.Errorf("encode %s thumbnail: %w", format, err)
	}
	return buf.Bytes(), nil
}

// videoThumbnail spools the bytes to a temp file for ffmpeg. The temp file is
// removed on every return path.
func (g *Generator) videoThumbnail(ctx context.Context, data []byte) ([]byte, error) {
	path, cleanup, err := g.writeTempFile(data)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	frame, err := g.frames.GrabFrame(ctx, path)
	if err != nil {
		return nil, err
	}
	return g.imageThumbnail(frame)
}

func (g *Generator) writeTempFile(data []byte) (string, func(), error) {
	if err := os.MkdirAll(g.workDir, 0o755); err != nil {
		return "", func() {}, fmt.Errorf("mkdir workDir: %w", err)
	}
	f, err := os.CreateTemp(g.workDir, "frame-src-*")
	if err != nil {
		return "", func() {}, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			g.log.Warn().Err(err).Str("path", path).Msg("failed to remove temp file")
		}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("close temp file: %w", err)
	}
	return path, cleanup, nil
}

// fit scales w x h down to fit within limit x limit, keeping aspect ratio. It never upscales.
func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

package derivative

import (
	"bytes"
	"image"
	"strings"

	"recipehub/media-api/internal/domain/media"
)

// MetadataExtractor reads dimensions and format. Video metadata is limited to
// the container format implied by the declared mime type.
type MetadataExtractor struct{}

func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

func (MetadataExtractor) Extract(kind media.Kind, mimeType string, data []byte) *media.Metadata {
	switch kind {
	case media.KindImage:
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil
		}
		width, height := cfg.Width, cfg.Height
		return &media.Metadata{Width: &width, Height: &height, Format: format}
	case media.KindVideo:
		format := strings.TrimPrefix(media.ExtensionFor(mimeType), ".")
		if format == "" {
			return nil
		}
		return &media.Metadata{Format: format}
	default:
		return nil
	}
}

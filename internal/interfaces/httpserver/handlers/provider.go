package handlers

import (
	"github.com/rs/zerolog"
)

// Provider wires HTTP handlers.
type Provider struct {
	Media *MediaHandler
}

func NewProvider(service MediaService, log zerolog.Logger) *Provider {
	return &Provider{
		Media: NewMediaHandler(service, log),
	}
}

package jobsync

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
	enabled bool
}

// NewFeature creates the sync feature. A nil syncer disables it.
func NewFeature(syncer *Syncer) *Feature {
	f := &Feature{enabled: syncer != nil}
	if syncer != nil {
		f.handler = NewHandler(syncer)
	}
	return f
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "sync"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

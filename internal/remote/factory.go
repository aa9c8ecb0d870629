package remote

import (
	"context"

	"github.com/palpal-apps/work-tracker/internal/config"
	"github.com/palpal-apps/work-tracker/internal/logging"
)

// NewFromConfig selects the document store backend. The shared PalPal service
// wins when configured; otherwise a dedicated S3 store is used; otherwise the
// tracker runs local-only and a nil store is returned.
func NewFromConfig(ctx context.Context, cfg *config.Config) (DocumentStore, error) {
	switch {
	case cfg.HasSharedService():
		logging.Debugf("remote: using shared palpal service at %s", cfg.PalPal.Endpoint)
		return NewPalPalStore(ctx, cfg.PalPal, User{UID: cfg.User.UID, Email: cfg.User.Email}), nil
	case cfg.HasDedicatedStore():
		logging.Debugf("remote: using dedicated s3 store %s", cfg.S3.Bucket)
		return NewS3Store(ctx, cfg.S3, User{UID: cfg.User.UID, Email: cfg.User.Email})
	default:
		logging.Debugf("remote: no backend configured, running local-only")
		return nil, nil
	}
}

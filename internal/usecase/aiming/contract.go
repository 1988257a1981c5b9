package aiming

import (
	"context"

	domsite "github.com/kailas-cloud/fieldaim/internal/domain/site"
	"github.com/kailas-cloud/fieldaim/internal/usecase/feedback"
)

// SiteGetter resolves a site for target selection.
type SiteGetter interface {
	Get(ctx context.Context, id string) (domsite.Site, error)
}

// SinkFactory returns the host tone sink for a new session. It may return nil
// when cues are only counted.
type SinkFactory func(sessionID string) feedback.ToneSink

package bootstrap

import (
	"context"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/apiclient"
	appconfig "github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/config"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/hmppsauth"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/observability/metrics"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/whereabouts"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

// Upstream holds the API clients the services call.
type Upstream struct {
	Orchestration *orchestration.Client
	// Whereabouts is nil when WHEREABOUTS_API_URL is unset.
	Whereabouts *whereabouts.Client
}

// BuildUpstream wires the orchestration and whereabouts clients behind one
// shared system token source.
func BuildUpstream(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, m *metrics.UpstreamMetrics) *Upstream {
	if logger == nil {
		logger = logging.Default()
	}
	tokens := hmppsauth.NewTokenSource(ctx, hmppsauth.Config{
		AuthURL:      cfg.HMPPSAuthURL,
		ClientID:     cfg.APIClientID,
		ClientSecret: cfg.APIClientSecret,
	})
	if tokens == nil {
		logger.Warn("API_CLIENT_ID not set; upstream calls are unauthenticated")
	}

	newClient := func(api, baseURL string) *apiclient.Client {
		return apiclient.New(apiclient.Options{
			API:         api,
			BaseURL:     baseURL,
			TokenSource: tokens,
			Timeout:     cfg.UpstreamTimeout,
			Logger:      logger,
			Metrics:     m,
		})
	}

	up := &Upstream{Orchestration: orchestration.NewClient(newClient("orchestration", cfg.OrchestrationAPIURL))}
	if cfg.WhereaboutsAPIURL != "" {
		up.Whereabouts = whereabouts.NewClient(newClient("whereabouts", cfg.WhereaboutsAPIURL))
	}
	return up
}

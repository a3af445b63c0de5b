package embedding

import (
	"context"
	"errors"

	"github.com/intellidoc/backend/pkg/logger"
)

// ErrUnavailable is returned when every configured backend has failed.
var ErrUnavailable = errors.New("no embedding service available")

// Backend turns texts into fixed-dimension vectors. Implementations cover
// one provider each; the Provider chains them.
type Backend interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Ping(ctx context.Context) error
}

// Provider tries an ordered list of backends, first success wins. The
// dimension of the active (first) backend defines the namespace dimension;
// mixing backends within one collection corrupts distance comparisons, so
// deployments must keep the chain stable per collection.
type Provider struct {
	backends []Backend
	logger   logger.Logger
}

// NewProvider probes each candidate backend once and keeps the reachable
// ones, preserving order. At least one backend must answer the probe.
func NewProvider(ctx context.Context, candidates []Backend, log logger.Logger) (*Provider, error) {
	var available []Backend
	for _, b := range candidates {
		if err := b.Ping(ctx); err != nil {
			log.Warn("Embedding backend unavailable",
				logger.String("backend", b.Name()),
				logger.Error(err),
			)
			continue
		}
		available = append(available, b)
		log.Info("Embedding backend ready",
			logger.String("backend", b.Name()),
			logger.Int("dimension", b.Dimension()),
		)
	}

	if len(available) == 0 {
		return nil, ErrUnavailable
	}

	return &Provider{backends: available, logger: log}, nil
}

// Generate embeds texts in input order. Each backend is tried in turn; a
// failure falls through silently to the next. Exhausting the chain returns
// ErrUnavailable.
func (p *Provider) Generate(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	for _, b := range p.backends {
		vectors, err := b.Embed(ctx, texts)
		if err != nil {
			p.logger.Warn("Embedding backend failed, trying next",
				logger.String("backend", b.Name()),
				logger.Error(err),
			)
			continue
		}
		if len(vectors) != len(texts) {
			p.logger.Warn("Embedding backend returned wrong vector count",
				logger.String("backend", b.Name()),
				logger.Int("want", len(texts)),
				logger.Int("got", len(vectors)),
			)
			continue
		}
		return vectors, nil
	}

	return nil, ErrUnavailable
}

// Dimension reports the active backend's vector dimension.
func (p *Provider) Dimension() int {
	return p.backends[0].Dimension()
}

// Name reports the active backend's label, used in stats reporting.
func (p *Provider) Name() string {
	return p.backends[0].Name()
}

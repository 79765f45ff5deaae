package calendar

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ProfessionalFetcher loads the staff list from the data layer.
type ProfessionalFetcher interface {
	FetchProfessionals(ctx context.Context) ([]Professional, error)
}

// Directory holds the professionals shown as grid columns for one calendar session.
type Directory struct {
	fetcher ProfessionalFetcher
	log     *zap.Logger

	mu   sync.RWMutex
	list []Professional
	err  error
}

func NewDirectory(fetcher ProfessionalFetcher, log *zap.Logger) *Directory {
	return &Directory{
		fetcher: fetcher,
		log:     log.With(zap.String("component", "professional_directory")),
	}
}

// Load fetches the professionals, dropping the "Any professional" placeholder.
// On failure the directory is left empty until the next Load.
func (d *Directory) Load(ctx context.Context) error {
	list, err := d.fetcher.FetchProfessionals(ctx)
	if err != nil {
		failure := &FetchFailure{Op: "load professionals", Err: err}

		d.mu.Lock()
		d.list = nil
		d.err = failure
		d.mu.Unlock()

		d.log.Error("Failed to load professionals", zap.Error(err))
		return failure
	}

	filtered := FilterProfessionals(list)

	d.mu.Lock()
	d.list = filtered
	d.err = nil
	d.mu.Unlock()

	d.log.Info("Professionals loaded",
		zap.Int("count", len(filtered)),
		zap.Int("placeholders_dropped", len(list)-len(filtered)),
	)
	return nil
}

// List returns a copy of the loaded professionals, or nil if the last load failed.
func (d *Directory) List() []Professional {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Professional, len(d.list))
	copy(out, d.list)
	return out
}

// Err returns the error of the last load, if it failed.
func (d *Directory) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

// FilterProfessionals drops placeholder entries, keeping order.
func FilterProfessionals(list []Professional) []Professional {
	out := make([]Professional, 0, len(list))
	for _, p := range list {
		if p.IsPlaceholder() {
			continue
		}
		out = append(out, p)
	}
	return out
}

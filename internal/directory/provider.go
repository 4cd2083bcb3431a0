package directory

import (
	"context"
	"sync"

	"github.com/iliyamo/lagos-signal-directory/internal/logger"
	"github.com/iliyamo/lagos-signal-directory/internal/metrics"
)

// Provider hands out the Directory a request should read.  An error means
// an unexpected internal failure; unavailable data is reported as an
// empty Directory instead.
type Provider interface {
	Directory(ctx context.Context) (*Directory, error)
}

// Static serves a fixed Directory.
type Static struct {
	dir *Directory
}

// NewStatic wraps d; a nil d serves an empty directory.
func NewStatic(d *Directory) *Static {
	if d == nil {
		d = Empty()
	}
	return &Static{dir: d}
}

// Directory implements Provider.
func (s *Static) Directory(context.Context) (*Directory, error) { return s.dir, nil }

// LoadFunc loads a Directory from some backing store.
type LoadFunc func(ctx context.Context) (*Directory, Report, error)

// FileLoader adapts LoadFile to a LoadFunc.
func FileLoader(path string) LoadFunc {
	return func(context.Context) (*Directory, Report, error) { return LoadFile(path) }
}

// SQLLoader adapts LoadSQL to a LoadFunc.
func SQLLoader(db Querier, table string) LoadFunc {
	return func(ctx context.Context) (*Directory, Report, error) { return LoadSQL(ctx, db, table) }
}

// Snapshot loads its Directory at most once per process.  A failed load
// is logged and degrades to an empty Directory, matching a snapshot that
// simply has no data.
type Snapshot struct {
	load   LoadFunc
	once   sync.Once
	dir    *Directory
	report Report
	err    error
}

// NewSnapshot returns a lazily loading provider.
func NewSnapshot(load LoadFunc) *Snapshot {
	return &Snapshot{load: load}
}

// Directory implements Provider.  The load runs detached from the
// caller's cancellation so one aborted request cannot poison the cache.
func (s *Snapshot) Directory(ctx context.Context) (*Directory, error) {
	s.once.Do(func() { s.doLoad(context.WithoutCancel(ctx)) })
	return s.dir, nil
}

// Report returns the load report and the degraded load error, if any.
// It triggers the load when it has not happened yet.
func (s *Snapshot) Report(ctx context.Context) (Report, error) {
	_, _ = s.Directory(ctx)
	return s.report, s.err
}

func (s *Snapshot) doLoad(ctx context.Context) {
	d, rep, err := s.load(ctx)
	if err != nil || d == nil {
		logger.L().Errorf("directory load failed, serving empty directory: %v", err)
		metrics.DirectoryLoadFailTotal.Inc()
		s.dir, s.err = Empty(), err
		metrics.DirectoryLocations.Set(0)
		return
	}
	for _, q := range rep.Quarantined {
		logger.L().Warnf("directory: quarantined %q: %s", q.Location, q.Reason)
	}
	metrics.QuarantinedTotal.Add(float64(len(rep.Quarantined)))
	metrics.DirectoryLocations.Set(float64(d.Len()))
	logger.L().Infof("directory loaded: %d locations, %d quarantined", rep.Loaded, len(rep.Quarantined))
	s.dir, s.report = d, rep
}

// Package engine composes the pipeline: decode a scene document, walk it
// against fresh per-run caches, pack the geometry. Each Process call is
// one isolated run; nothing resolved in one run leaks into the next.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veldtec/displaymesh/internal/assets"
	"github.com/veldtec/displaymesh/internal/engine/display"
	"github.com/veldtec/displaymesh/internal/engine/pack"
	"github.com/veldtec/displaymesh/internal/engine/scene"
	"github.com/veldtec/displaymesh/internal/logger"
	"github.com/veldtec/displaymesh/pkg/formats"
)

// Options configure an Engine.
type Options struct {
	// Layout maps resource ids to tree paths, including the hardcoded
	// shadow root.
	Layout assets.Layout

	// Timeout bounds each asset fetch. Non-positive selects the asset
	// manager default.
	Timeout time.Duration

	// MaxIndirection bounds "#ref" texture chains. Non-positive selects
	// the geometry builder default.
	MaxIndirection int
}

// Engine compiles scene documents into packed geometry. Sources are
// shared across runs; caches are not.
type Engine struct {
	opts Options

	mu      sync.Mutex
	sources []assets.Source
	latest  uuid.UUID
}

// New creates an engine with no sources attached.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// AddSource appends an asset source. Later sources take priority.
func (e *Engine) AddSource(s assets.Source) {
	e.mu.Lock()
	e.sources = append(e.sources, s)
	e.mu.Unlock()
}

// AddDir attaches a filesystem asset tree.
func (e *Engine) AddDir(path string) error {
	dir, err := assets.NewDir(path)
	if err != nil {
		return err
	}
	e.AddSource(dir)
	return nil
}

// AddPack attaches a zip resource pack.
func (e *Engine) AddPack(path string) error {
	p, err := assets.OpenPack(path)
	if err != nil {
		return err
	}
	e.AddSource(p)
	return nil
}

// Close releases every attached source.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, s := range e.sources {
		if err := s.Close(); err != nil {
			logger.Warn("closing asset source", zap.Error(err))
		}
	}
	e.sources = nil
}

// Metadata travels beside the geometry buffer and is what consumers use
// to reconstruct typed views into it.
type Metadata struct {
	Geometries     []pack.Record      `json:"geometries"`
	OtherItems     []scene.RenderItem `json:"otherItems"`
	UseWideIndices bool               `json:"useWideIndices"`
}

// Result is the output message of one run. Stale marks a run that was
// superseded by a newer Process call before it finished; callers discard
// stale results.
type Result struct {
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
	Run     uuid.UUID `json:"run"`
	Stale   bool      `json:"-"`

	Metadata       *Metadata `json:"metadata,omitempty"`
	GeometryBuffer []byte    `json:"-"`
}

// Run is one processing pass: its own asset manager, resolver memo,
// geometry caches and identity.
type Run struct {
	ID     uuid.UUID
	mgr    *assets.Manager
	walker *scene.Walker
}

// Process compiles one scene document payload. Only an undecodable
// payload fails the run; every miss inside the walk degrades to missing
// geometry for the affected node alone.
func (e *Engine) Process(ctx context.Context, payload []byte) *Result {
	run := e.newRun()
	res := run.process(ctx, payload)
	res.Stale = !e.finish(run.ID)
	return res
}

// newRun builds a fresh run context and makes it the latest generation.
func (e *Engine) newRun() *Run {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := uuid.New()
	e.latest = id

	mgr := assets.NewManager(e.opts.Timeout)
	for _, s := range e.sources {
		mgr.AddSource(s)
	}
	proc := display.NewProcessor(mgr, e.opts.Layout, e.opts.MaxIndirection)
	return &Run{ID: id, mgr: mgr, walker: scene.NewWalker(proc)}
}

// finish reports whether the run is still the latest generation.
func (e *Engine) finish(id uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest == id
}

func (r *Run) process(ctx context.Context, payload []byte) *Result {
	start := time.Now()

	nodes, err := formats.DecodeDocument(payload)
	if err != nil {
		logger.Error("scene document rejected",
			zap.String("run", r.ID.String()), zap.Error(err))
		return &Result{Run: r.ID, Error: err.Error()}
	}

	items := r.walker.Walk(ctx, nodes)

	var other []scene.RenderItem
	for _, it := range items {
		if !it.HasGeometry() {
			other = append(other, it)
		}
	}
	packed := pack.Pack(items)

	hits, misses := r.mgr.Stats()
	logger.Info("scene compiled",
		zap.String("run", r.ID.String()),
		zap.Int("nodes", len(nodes)),
		zap.Int("geometries", len(packed.Records)),
		zap.Int("otherItems", len(other)),
		zap.Bool("wideIndices", packed.UseWideIndices),
		zap.Int64("assetHits", hits),
		zap.Int64("assetMisses", misses),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{
		Success: true,
		Run:     r.ID,
		Metadata: &Metadata{
			Geometries:     packed.Records,
			OtherItems:     other,
			UseWideIndices: packed.UseWideIndices,
		},
		GeometryBuffer: packed.Buffer,
	}
}

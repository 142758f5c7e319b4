package model

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/veldtec/displaymesh/internal/assets"
	"github.com/veldtec/displaymesh/internal/logger"
	"github.com/veldtec/displaymesh/pkg/formats"
)

// displayIgnoreGroups ties together marker ids that must never supply a
// display transform. Resolving any member adds the whole group to the
// model's ignore set.
var displayIgnoreGroups = [][]formats.ID{
	{
		{Namespace: formats.DefaultNamespace, Path: "item/generated"},
		{Namespace: formats.DefaultNamespace, Path: "builtin/generated"},
	},
	{
		{Namespace: formats.DefaultNamespace, Path: "item/handheld"},
	},
}

// Resolver resolves ids into merged models with per-run memoization.
// Failures are cached too, so repeated misses stay cheap.
type Resolver struct {
	provider *assets.Manager
	layout   assets.Layout

	mu   sync.Mutex
	memo map[formats.ID]*memoEntry
}

type memoEntry struct {
	done  chan struct{}
	model *Resolved
}

// NewResolver creates a resolver over the given provider.
func NewResolver(provider *assets.Manager, layout assets.Layout) *Resolver {
	return &Resolver{
		provider: provider,
		layout:   layout,
		memo:     make(map[formats.ID]*memoEntry),
	}
}

// Resolve resolves id into a merged model. nil means the id yields no
// geometry; the outcome, success or failure, is memoized for the run.
func (r *Resolver) Resolve(ctx context.Context, id formats.ID) *Resolved {
	return r.resolve(ctx, id, make(map[formats.ID]bool))
}

// resolve carries a chain-local visited set guarding parent cycles. The
// set stays goroutine-local; concurrent resolutions of the same id share
// one outcome through the memo instead.
func (r *Resolver) resolve(ctx context.Context, id formats.ID, visited map[formats.ID]bool) *Resolved {
	if visited[id] {
		logger.Warn("model parent cycle", zap.String("model", id.String()))
		return nil
	}
	visited[id] = true

	r.mu.Lock()
	if e, ok := r.memo[id]; ok {
		r.mu.Unlock()
		select {
		case <-e.done:
			return e.model
		default:
		}
		// The entry is in flight on another goroutine. A frame deeper in a
		// parent chain holds open entries of its own, and blocking there can
		// form a wait loop when two chains cross a parent cycle. Top-level
		// frames hold no entries and may wait; deeper frames resolve
		// privately instead.
		if len(visited) > 1 {
			return r.resolveFresh(ctx, id, visited)
		}
		select {
		case <-e.done:
			return e.model
		case <-ctx.Done():
			return nil
		}
	}
	e := &memoEntry{done: make(chan struct{})}
	r.memo[id] = e
	r.mu.Unlock()

	e.model = r.resolveFresh(ctx, id, visited)
	close(e.done)
	return e.model
}

func (r *Resolver) resolveFresh(ctx context.Context, id formats.ID, visited map[formats.ID]bool) *Resolved {
	raw, hardcoded, ok := r.lookup(ctx, id)
	if !ok {
		return nil
	}
	return r.merge(ctx, id, raw, hardcoded, visited)
}

// lookup finds and parses the raw model file for id by running the
// strategy list in order.
func (r *Resolver) lookup(ctx context.Context, id formats.ID) (*formats.Model, bool, bool) {
	// builtin/generated is an engine marker, not a file: it stands for
	// "flat sprite derived from the item texture".
	if strings.HasSuffix(id.Path, "builtin/generated") {
		return &formats.Model{Parent: formats.DefaultNamespace + ":item/generated"}, false, true
	}

	for _, s := range modelStrategies {
		for _, c := range s.candidates(r, id) {
			data, err := r.provider.Load(ctx, c.path)
			if err != nil {
				continue
			}
			m, err := formats.ParseModel(data)
			if err != nil {
				logger.Warn("malformed model",
					zap.String("model", id.String()),
					zap.String("path", c.path),
					zap.Error(err))
				continue
			}
			logger.Debug("model found",
				zap.String("model", id.String()),
				zap.String("strategy", s.name))
			return m, c.hardcoded, true
		}
	}

	logger.Debug("model not found", zap.String("model", id.String()))
	return nil, false, false
}

// merge overlays a raw model file on its recursively resolved parent.
func (r *Resolver) merge(ctx context.Context, id formats.ID, raw *formats.Model, hardcoded bool, visited map[formats.ID]bool) *Resolved {
	res := &Resolved{
		ID:            id,
		Textures:      make(map[string]string),
		Elements:      raw.Elements,
		Display:       raw.Display,
		TextureSize:   raw.TextureSize,
		FromHardcoded: hardcoded,
		IgnoreDisplay: make(map[formats.ID]bool),
	}

	if raw.Parent != "" {
		parent := r.resolve(ctx, formats.ParseID(raw.Parent), visited)
		if parent == nil {
			logger.Warn("unresolvable parent",
				zap.String("model", id.String()),
				zap.String("parent", raw.Parent))
		} else {
			for k, v := range parent.Textures {
				res.Textures[k] = v
			}
			if res.Elements == nil {
				res.Elements = parent.Elements
			}
			if res.TextureSize == nil {
				res.TextureSize = parent.TextureSize
			}
			res.ParentChain = append(append([]formats.ID{}, parent.ParentChain...), parent.ID)
			res.FromHardcoded = res.FromHardcoded || parent.FromHardcoded
			for pid := range parent.IgnoreDisplay {
				res.IgnoreDisplay[pid] = true
			}
		}
	}

	for k, v := range raw.Textures {
		res.Textures[k] = v
	}
	for _, ref := range raw.IgnoreDisplay {
		res.IgnoreDisplay[formats.ParseID(ref)] = true
	}
	for _, group := range displayIgnoreGroups {
		if !idInGroup(group, id) {
			continue
		}
		for _, member := range group {
			res.IgnoreDisplay[member] = true
		}
	}

	return res
}

func idInGroup(group []formats.ID, id formats.ID) bool {
	for _, member := range group {
		if member == id {
			return true
		}
	}
	return false
}

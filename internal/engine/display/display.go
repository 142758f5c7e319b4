// Package display turns block-display and item-display names into
// positioned geometry: blockstate-matched model placements for blocks,
// and model or synthesized sprite geometry plus a display-context
// transform for items.
package display

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/veldtec/displaymesh/internal/assets"
	"github.com/veldtec/displaymesh/internal/engine/mesh"
	"github.com/veldtec/displaymesh/internal/engine/model"
	"github.com/veldtec/displaymesh/internal/engine/sprite"
	"github.com/veldtec/displaymesh/internal/engine/state"
	"github.com/veldtec/displaymesh/internal/engine/texture"
	"github.com/veldtec/displaymesh/internal/logger"
	"github.com/veldtec/displaymesh/pkg/formats"
	"github.com/veldtec/displaymesh/pkg/math"
)

var (
	generatedID = formats.ParseID(formats.DefaultNamespace + ":item/generated")
	handheldID  = formats.ParseID(formats.DefaultNamespace + ":item/handheld")
)

// Placement pairs one produced mesh with its local transform.
type Placement struct {
	Local math.Mat4
	Mesh  *mesh.Mesh
}

type blockKey struct {
	id     formats.ID
	uvlock bool
	yaw    int16
	tint   uint32
}

// Processor resolves display names into geometry. All caches live for one
// processing run; misses degrade to empty results, never errors.
type Processor struct {
	provider *assets.Manager
	layout   assets.Layout
	resolver *model.Resolver
	states   *state.Loader
	textures *texture.Cache
	maxHops  int

	mu     sync.Mutex
	blocks map[blockKey]*mesh.Mesh
	items  map[string][]Placement
}

// NewProcessor creates a processor with fresh caches. maxHops bounds
// texture reference chains; zero selects the builder default.
func NewProcessor(provider *assets.Manager, layout assets.Layout, maxHops int) *Processor {
	if maxHops <= 0 {
		maxHops = mesh.DefaultMaxIndirection
	}
	return &Processor{
		provider: provider,
		layout:   layout,
		resolver: model.NewResolver(provider, layout),
		states:   state.NewLoader(provider, layout),
		textures: texture.NewCache(),
		maxHops:  maxHops,
		blocks:   make(map[blockKey]*mesh.Mesh),
		items:    make(map[string][]Placement),
	}
}

// Resolver exposes the processor's model resolver, sharing its memo with
// callers that resolve models directly.
func (p *Processor) Resolver() *model.Resolver {
	return p.resolver
}

// Block produces the placements for a block-display instance name such as
// "minecraft:oak_log[axis=y]". A missing or unmatched blockstate yields
// no placements.
func (p *Processor) Block(ctx context.Context, name string) []Placement {
	inst := state.ParseInstance(name)

	bs := p.states.Load(ctx, inst.ID)
	if bs == nil {
		return nil
	}

	applies := state.Select(bs, inst.Props)
	if len(applies) == 0 {
		logger.Debug("no blockstate match", zap.String("block", name))
		return nil
	}

	tint := bannerTint(inst.ID.Base())

	placements := make([]Placement, 0, len(applies))
	for _, apply := range applies {
		m := p.blockMesh(ctx, formats.ParseID(apply.Model), apply, tint)
		if m == nil {
			continue
		}
		placements = append(placements, Placement{Local: placementMatrix(apply), Mesh: m})
	}
	return placements
}

// blockMesh builds or reuses the geometry for one model application.
// The key folds in everything that shapes the output, so two placements
// share a mesh only when they would build identical buffers.
func (p *Processor) blockMesh(ctx context.Context, id formats.ID, apply formats.ApplySpec, tint *uint32) *mesh.Mesh {
	key := blockKey{id: id, uvlock: apply.UVLock, tint: mesh.White}
	if apply.UVLock {
		key.yaw = int16(apply.Y)
	}
	if tint != nil {
		key.tint = *tint
	}

	p.mu.Lock()
	cached, ok := p.blocks[key]
	p.mu.Unlock()
	if ok {
		return cached
	}

	var m *mesh.Mesh
	if res := p.resolver.Resolve(ctx, id); res != nil {
		m = mesh.Build(res, mesh.BuildOptions{
			UVLock:         apply.UVLock,
			Yaw:            apply.Y,
			BannerTint:     tint,
			MaxIndirection: p.maxHops,
		})
	}

	p.mu.Lock()
	p.blocks[key] = m
	p.mu.Unlock()
	return m
}

// Item produces the placement for an item-display instance name such as
// "minecraft:stick[display=thirdperson_righthand]". Results are memoized
// per full name.
func (p *Processor) Item(ctx context.Context, name string) []Placement {
	p.mu.Lock()
	cached, ok := p.items[name]
	p.mu.Unlock()
	if ok {
		return cached
	}

	result := p.buildItem(ctx, name)

	p.mu.Lock()
	p.items[name] = result
	p.mu.Unlock()
	return result
}

func (p *Processor) buildItem(ctx context.Context, name string) []Placement {
	inst := state.ParseInstance(name)

	displayType := inst.Props["display"]
	if displayType == "" {
		displayType = "none"
	}

	def := p.itemDefinition(ctx, inst.ID)

	res := p.resolver.Resolve(ctx, formats.ParseID(def.Model))
	if res == nil {
		logger.Warn("item model unresolved",
			zap.String("item", name), zap.String("model", def.Model))
		return nil
	}

	var m *mesh.Mesh
	var geom math.Mat4
	flat := !res.HasElements()
	if flat {
		// Sprite synthesis bakes in the centering and mirror.
		m = p.spriteMesh(ctx, res, def.Tints)
		geom = math.Identity()
	} else {
		m = mesh.Build(res, mesh.BuildOptions{
			ItemTints:      def.Tints,
			MaxIndirection: p.maxHops,
		})
		geom = math.Translate(-0.5, -0.5, -0.5)
	}
	if m == nil {
		return nil
	}

	tr := p.displayTransform(ctx, res, displayType, flat)
	return []Placement{{Local: transformMatrix(tr).Mul(geom), Mesh: m}}
}

// itemDefinition loads items/<path>.json, defaulting to the conventional
// item/<path> model when the definition is missing or malformed.
func (p *Processor) itemDefinition(ctx context.Context, id formats.ID) *formats.ItemDefinition {
	data, err := p.provider.Load(ctx, p.layout.Item(id))
	if err == nil {
		def, perr := formats.ParseItemDefinition(data)
		if perr == nil {
			return def
		}
		logger.Warn("malformed item definition",
			zap.String("item", id.String()), zap.Error(perr))
	}
	return &formats.ItemDefinition{Model: id.WithPath("item/" + id.Path).String()}
}

// spriteMesh synthesizes flat geometry from the model's layer textures,
// one sprite per layer, extruded when the model descends from the
// generated or handheld base.
func (p *Processor) spriteMesh(ctx context.Context, res *model.Resolved, tints []uint32) *mesh.Mesh {
	bordered := res.DescendsFrom(generatedID) || res.DescendsFrom(handheldID)

	m := &mesh.Mesh{}
	appended := false
	for layer := 0; ; layer++ {
		ref, ok := res.Texture(fmt.Sprintf("#layer%d", layer), p.maxHops)
		if !ok {
			break
		}
		texID := formats.ParseID(ref)

		tint := uint32(mesh.White)
		if layer < len(tints) {
			tint = tints[layer]
		}

		if bordered {
			sprite.Bordered(m, texID.String(), tint, p.pixels(ctx, texID))
		} else {
			sprite.Planes(m, texID.String(), tint)
		}
		appended = true
	}

	if !appended {
		logger.Debug("flat item has no layer textures", zap.String("model", res.ID.String()))
		return nil
	}
	return m
}

// pixels loads and decodes a texture through the per-run cache. Failures
// degrade to nil, which drops the silhouette walls but keeps the sprite.
func (p *Processor) pixels(ctx context.Context, id formats.ID) *texture.Pixels {
	path := p.layout.Texture(id)
	pix, err := p.textures.Load(path, func() ([]byte, error) {
		return p.provider.Load(ctx, path)
	})
	if err != nil {
		logger.Debug("texture unavailable", zap.String("texture", id.String()), zap.Error(err))
		return nil
	}
	return pix
}

// bannerTint extracts the dye color from a banner block name such as
// "light_gray_wall_banner".
func bannerTint(base string) *uint32 {
	if !strings.HasSuffix(base, "banner") {
		return nil
	}
	token := strings.TrimSuffix(base, "_banner")
	token = strings.TrimSuffix(token, "_wall")
	if c, ok := mesh.DyeColor(token); ok {
		return &c
	}
	return nil
}

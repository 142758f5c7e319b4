package state

import (
	"context"
	"regexp"

	"go.uber.org/zap"

	"github.com/veldtec/displaymesh/internal/assets"
	"github.com/veldtec/displaymesh/internal/logger"
	"github.com/veldtec/displaymesh/pkg/formats"
)

// BannerModel is the canonical model substituted when a banner-family
// block has no blockstate asset.
const BannerModel = "minecraft:block/banner"

// hardcodedStatePattern lists the families whose blockstate is read from
// the hardcoded tree first.
var hardcodedStatePattern = regexp.MustCompile(`(^|_)(bed|trapped_chest)$`)

// bannerPattern recognizes banner-family block names.
var bannerPattern = regexp.MustCompile(`(^|_)banner$`)

// Loader fetches and parses blockstate definitions.
type Loader struct {
	provider *assets.Manager
	layout   assets.Layout
}

// NewLoader creates a loader over the given provider.
func NewLoader(provider *assets.Manager, layout assets.Layout) *Loader {
	return &Loader{provider: provider, layout: layout}
}

// Load fetches the blockstate for a block id. Bed and trapped-chest
// families read the hardcoded tree first; a missing banner-family
// blockstate degrades to a synthetic single-variant one. nil means the
// block contributes no geometry.
func (l *Loader) Load(ctx context.Context, id formats.ID) *formats.Blockstate {
	paths := []string{l.layout.Blockstate(id)}
	if hardcodedStatePattern.MatchString(id.Base()) {
		paths = []string{l.layout.HardcodedBlockstate(id), l.layout.Blockstate(id)}
	}

	for _, p := range paths {
		data, err := l.provider.Load(ctx, p)
		if err != nil {
			continue
		}
		bs, err := formats.ParseBlockstate(data)
		if err != nil {
			logger.Warn("malformed blockstate",
				zap.String("block", id.String()),
				zap.String("path", p),
				zap.Error(err))
			continue
		}
		return bs
	}

	if bannerPattern.MatchString(id.Base()) {
		logger.Debug("substituting banner blockstate", zap.String("block", id.String()))
		return &formats.Blockstate{
			Variants: formats.VariantList{{
				Key:   "",
				Apply: formats.ApplyList{{Model: BannerModel}},
			}},
		}
	}

	logger.Debug("blockstate not found", zap.String("block", id.String()))
	return nil
}

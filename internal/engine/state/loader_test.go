package state

import (
	"context"
	"testing"

	"github.com/veldtec/displaymesh/internal/assets"
	"github.com/veldtec/displaymesh/pkg/formats"
)

func testLoader(tree assets.MapSource) *Loader {
	mgr := assets.NewManager(0)
	mgr.AddSource(tree)
	return NewLoader(mgr, assets.NewLayout(""))
}

func TestLoaderStandard(t *testing.T) {
	l := testLoader(assets.MapSource{
		"assets/minecraft/blockstates/oak_log.json": []byte(`{
			"variants": {"axis=y": {"model": "minecraft:block/oak_log"}}
		}`),
	})

	bs := l.Load(context.Background(), formats.ParseID("minecraft:oak_log"))
	if bs == nil {
		t.Fatal("expected a blockstate, got nil")
	}
	if len(bs.Variants) != 1 || bs.Variants[0].Key != "axis=y" {
		t.Errorf("unexpected variants: %+v", bs.Variants)
	}
}

func TestLoaderBedReadsHardcodedFirst(t *testing.T) {
	l := testLoader(assets.MapSource{
		"hardcoded/minecraft/blockstates/red_bed.json": []byte(`{
			"variants": {"": {"model": "hardcoded-bed"}}
		}`),
		"assets/minecraft/blockstates/red_bed.json": []byte(`{
			"variants": {"": {"model": "standard-bed"}}
		}`),
	})

	bs := l.Load(context.Background(), formats.ParseID("minecraft:red_bed"))
	if bs == nil {
		t.Fatal("expected a blockstate, got nil")
	}
	if bs.Variants[0].Apply[0].Model != "hardcoded-bed" {
		t.Errorf("bed family must prefer the hardcoded tree, got %s", bs.Variants[0].Apply[0].Model)
	}
}

func TestLoaderTrappedChestReadsHardcodedFirst(t *testing.T) {
	l := testLoader(assets.MapSource{
		"hardcoded/minecraft/blockstates/trapped_chest.json": []byte(`{
			"variants": {"": {"model": "hardcoded-chest"}}
		}`),
	})

	bs := l.Load(context.Background(), formats.ParseID("minecraft:trapped_chest"))
	if bs == nil {
		t.Fatal("expected a blockstate, got nil")
	}
	if bs.Variants[0].Apply[0].Model != "hardcoded-chest" {
		t.Errorf("unexpected model: %s", bs.Variants[0].Apply[0].Model)
	}
}

func TestLoaderMalformedFallsThrough(t *testing.T) {
	l := testLoader(assets.MapSource{
		"hardcoded/minecraft/blockstates/red_bed.json": []byte(`{"variants": [`),
		"assets/minecraft/blockstates/red_bed.json": []byte(`{
			"variants": {"": {"model": "standard-bed"}}
		}`),
	})

	bs := l.Load(context.Background(), formats.ParseID("minecraft:red_bed"))
	if bs == nil {
		t.Fatal("expected the standard blockstate after a malformed hardcoded one")
	}
	if bs.Variants[0].Apply[0].Model != "standard-bed" {
		t.Errorf("unexpected model: %s", bs.Variants[0].Apply[0].Model)
	}
}

func TestLoaderBannerSynthetic(t *testing.T) {
	l := testLoader(assets.MapSource{})

	bs := l.Load(context.Background(), formats.ParseID("minecraft:white_banner"))
	if bs == nil {
		t.Fatal("banner family must degrade to the synthetic blockstate")
	}
	if len(bs.Variants) != 1 || bs.Variants[0].Key != "" {
		t.Fatalf("unexpected synthetic variants: %+v", bs.Variants)
	}
	if bs.Variants[0].Apply[0].Model != BannerModel {
		t.Errorf("synthetic banner must point at %s, got %s", BannerModel, bs.Variants[0].Apply[0].Model)
	}

	// A real banner blockstate still wins over the synthetic one.
	l = testLoader(assets.MapSource{
		"assets/minecraft/blockstates/white_banner.json": []byte(`{
			"variants": {"rotation=0": {"model": "real-banner"}}
		}`),
	})
	bs = l.Load(context.Background(), formats.ParseID("minecraft:white_banner"))
	if bs == nil || bs.Variants[0].Apply[0].Model != "real-banner" {
		t.Errorf("real banner blockstate must not be substituted, got %+v", bs)
	}
}

func TestLoaderMissing(t *testing.T) {
	l := testLoader(assets.MapSource{})

	if bs := l.Load(context.Background(), formats.ParseID("minecraft:stone")); bs != nil {
		t.Errorf("missing non-banner blockstate must yield nil, got %+v", bs)
	}
}

// displaymesh compiles a display scene document into a packed geometry
// buffer plus JSON metadata.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/veldtec/displaymesh/internal/assets"
	"github.com/veldtec/displaymesh/internal/config"
	"github.com/veldtec/displaymesh/internal/engine"
	"github.com/veldtec/displaymesh/internal/logger"
)

var (
	flagOut        = flag.String("out", ".", "Output directory for metadata.json and geometry.bin")
	flagWatch      = flag.Bool("watch", false, "Recompile when the scene or assets change")
	flagInitConfig = flag.Bool("init-config", false, "Write the default config file and exit")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if *flagInitConfig {
		path := filepath.Join(config.ConfigDir(), "config.yaml")
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	scenePath := flag.Arg(0)
	if scenePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: displaymesh [flags] <scene-file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	eng := engine.New(engine.Options{
		Layout:         assets.NewLayout(cfg.Assets.HardcodedDir),
		Timeout:        cfg.Pipeline.AssetTimeout,
		MaxIndirection: cfg.Pipeline.MaxIndirection,
	})
	defer eng.Close()

	for _, root := range cfg.Assets.Roots {
		if err := addRoot(eng, root); err != nil {
			logger.Error("attaching asset root", zap.String("root", root), zap.Error(err))
			os.Exit(1)
		}
	}

	c := &compiler{engine: eng, scenePath: scenePath, outDir: *flagOut}
	if err := c.compile(context.Background()); err != nil {
		logger.Error("compile failed", zap.Error(err))
		os.Exit(1)
	}

	if *flagWatch {
		if err := c.watch(cfg.Assets.Roots); err != nil {
			logger.Error("watch failed", zap.Error(err))
			os.Exit(1)
		}
	}
}

// addRoot attaches a filesystem tree or, for .zip paths, a resource pack.
func addRoot(eng *engine.Engine, root string) error {
	if strings.EqualFold(filepath.Ext(root), ".zip") {
		return eng.AddPack(root)
	}
	return eng.AddDir(root)
}

// compiler reruns the engine against one scene file and writes the
// metadata/buffer pair.
type compiler struct {
	engine    *engine.Engine
	scenePath string
	outDir    string

	mu sync.Mutex
}

func (c *compiler) compile(ctx context.Context) error {
	payload, err := os.ReadFile(c.scenePath)
	if err != nil {
		return fmt.Errorf("reading scene: %w", err)
	}

	res := c.engine.Process(ctx, payload)
	if res.Stale {
		logger.Info("discarding stale run", zap.String("run", res.Run.String()))
		return nil
	}
	if !res.Success {
		return fmt.Errorf("processing scene: %s", res.Error)
	}
	return c.write(res)
}

func (c *compiler) write(res *engine.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.outDir, 0755); err != nil {
		return err
	}

	meta, err := json.MarshalIndent(res.Metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.outDir, "metadata.json"), meta, 0644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.outDir, "geometry.bin"), res.GeometryBuffer, 0644); err != nil {
		return err
	}

	logger.Info("wrote output",
		zap.String("dir", c.outDir),
		zap.Int("geometries", len(res.Metadata.Geometries)),
		zap.Int("otherItems", len(res.Metadata.OtherItems)),
		zap.Int("bytes", len(res.GeometryBuffer)))
	return nil
}

// watch recompiles on scene or asset changes until interrupted. Runs may
// overlap; a superseded run comes back stale and is discarded.
func (c *compiler) watch(roots []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(c.scenePath)); err != nil {
		return err
	}
	for _, root := range roots {
		if err := watchTree(w, root); err != nil {
			logger.Warn("watching asset root", zap.String("root", root), zap.Error(err))
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	// Editors fire bursts of events per save; collapse each burst into
	// one recompile.
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	logger.Info("watching for changes", zap.String("scene", c.scenePath))
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						logger.Warn("watching new directory", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			debounce.Reset(200 * time.Millisecond)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case <-debounce.C:
			go func() {
				if err := c.compile(context.Background()); err != nil {
					logger.Error("recompile failed", zap.Error(err))
				}
			}()
		case <-sig:
			logger.Info("shutting down")
			return nil
		}
	}
}

// watchTree registers every directory under root. Non-directory roots
// (zip packs) get their containing directory watched instead.
func watchTree(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/frameforge/stage/config"
	"github.com/frameforge/stage/plugin"
	"github.com/frameforge/stage/stage"
)

func main() {
	var (
		configDir = flag.String("config", ".", "Directory containing stage.yaml")
		fps       = flag.Int("fps", 10, "Frames per second for the demo loop")
	)
	flag.Parse()

	if err := run(*configDir, *fps); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir string, fps int) error {
	ctx := context.Background()

	cfg, err := config.LoadOptional(configDir)
	if err != nil {
		return err
	}
	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts := []stage.Option{stage.WithLogger(log)}
	if len(cfg.Stage.ExternalKinds) > 0 {
		opts = append(opts, stage.WithExternalKinds(cfg.Stage.ExternalKinds...))
	} else {
		opts = append(opts, stage.WithExternalKinds(externalClockKind))
	}
	st := stage.New(opts...)

	// External handlers: WASM guests from stage.yaml, else the
	// built-in clock resolver so the demo shows the miss path.
	var resolvers []plugin.Resolver
	for _, spec := range cfg.Plugins {
		data, err := os.ReadFile(spec.Path)
		if err != nil {
			return fmt.Errorf("read plugin %s: %w", spec.Path, err)
		}
		host, err := plugin.NewHost(ctx, data, spec.Kinds, plugin.WithLogger(log))
		if err != nil {
			return fmt.Errorf("load plugin %s: %w", spec.Path, err)
		}
		defer func(h *plugin.Host) { _ = h.Close(ctx) }(host)
		resolvers = append(resolvers, host)
	}
	if len(resolvers) == 0 {
		resolvers = append(resolvers, newClockResolver(st))
	}

	model := newDemoModel(st, resolvers, log, fps)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}

	log.Info("demo finished",
		zap.Uint64("frames", st.Stats().Frames),
		zap.Uint64("drawn", st.Stats().Drawn))
	return nil
}

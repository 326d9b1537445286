/*
fieldscope opens a window showing the demo surface and its vector
quantities. Settings are read from a TOML file and reloaded while running.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/fieldscope/engine"
	"github.com/spaghettifunk/fieldscope/engine/config"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/platform"
	"github.com/spaghettifunk/fieldscope/engine/renderer/opengl"
	"github.com/spaghettifunk/fieldscope/engine/ui"
	"github.com/spaghettifunk/fieldscope/testbed"
)

func main() {
	configPath := flag.String("config", "", "TOML config file, watched for changes")
	panelPath := flag.String("panel", "", "file the control panel is written to")
	panelEvery := flag.Uint64("panel-every", 60, "frames between panel updates")
	flag.Parse()

	cfg := config.Default()
	var options []engine.Option

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			core.LogFatal("failed to load config: %s", err)
		}
		cfg = loaded

		watcher, err := config.NewWatcher(*configPath)
		if err != nil {
			core.LogFatal("failed to watch config: %s", err)
		}
		defer watcher.Close()
		options = append(options, engine.WithConfigUpdates(watcher.Updates()))
	}

	if *panelPath != "" {
		f, err := os.Create(*panelPath)
		if err != nil {
			core.LogFatal("failed to open panel file: %s", err)
		}
		defer f.Close()
		options = append(options, engine.WithPanel(ui.NewConsole(f), *panelEvery))
	}

	tb := testbed.NewTestGame(cfg)

	newBackend := func() (engine.Backend, error) {
		b, err := opengl.New()
		if err != nil {
			return nil, err
		}
		return b, nil
	}

	e, err := engine.New(tb.Game, platform.New(), newBackend, options...)
	if err != nil {
		core.LogFatal("%s", err)
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal("%s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// stop the loop; shutdown happens on the main thread
	go func() {
		<-sigCh
		e.Stop()
	}()

	// run engine
	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		core.LogFatal("%s", runErr)
	}
}

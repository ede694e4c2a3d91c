package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"portfolio-scene/internal/asset"
	"portfolio-scene/internal/clock"
	"portfolio-scene/internal/config"
	"portfolio-scene/internal/debug"
	"portfolio-scene/internal/env"
	"portfolio-scene/internal/graphics"
	"portfolio-scene/internal/interaction"
	"portfolio-scene/internal/logger"
	"portfolio-scene/internal/scene"
)

func main() {
	if err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "env:", err)
	}
	variant := flag.String("variant", env.String("PORTFOLIO_VARIANT", "editor"), "builtin variant ("+strings.Join(config.Names(), ", ")+")")
	cfgPath := flag.String("config", env.String("PORTFOLIO_CONFIG", config.DefaultPath), "variant YAML file layered over the builtin")
	logPath := flag.String("log", env.String("PORTFOLIO_LOG", logger.DefaultPath), "log file, - keeps lines in memory only")
	showFPS := flag.Bool("fps", env.Bool("PORTFOLIO_FPS", false), "show FPS, memory and camera readouts")
	width := flag.Int("width", 1280, "window width, 0 for fullscreen")
	height := flag.Int("height", 720, "window height, 0 for fullscreen")
	flag.Parse()

	log := logger.New(*logPath)
	v, err := config.Load(*cfgPath, *variant)
	if err != nil {
		log.Errorf("config: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *showFPS {
		v.ShowFPS = true
	}

	loop := graphics.NewLoop()
	hub := interaction.NewHub()
	host := scene.Host{
		Viewport:  graphics.Screen{},
		Hub:       hub,
		Scheduler: loop,
		Surfaces:  graphics.Surfaces{Log: log},
		Clock:     clock.NewReal(),
		Loader: &asset.GLTFLoader{
			Fetcher:    asset.Fetcher{CacheDir: v.CacheDir},
			EnvMapPath: v.EnvMapPath,
		},
		OpenMedia: mediaOpener(v.CacheDir),
	}
	mgr, err := scene.New(v, host,
		scene.WithLogger(log),
		scene.WithOnLoaded(func() { log.Infof("scene %s: first frame rendered", v.Name) }),
		scene.WithOnError(func(err error) { fmt.Fprintln(os.Stderr, err) }),
	)
	if err != nil {
		log.Errorf("scene: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dbg := debug.New()
	dbg.SetShowFPS(v.ShowFPS)
	dbg.SetShowMemAlloc(v.ShowFPS)
	if v.ShowFPS {
		dbg.SetCamera(mgr.Camera)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	input := graphics.NewInput(hub)
	mounted := false
	update := func() {
		// mount inside the loop so the viewport reads the real window size
		if !mounted {
			mounted = true
			if err := mgr.Mount(ctx); err != nil {
				log.Errorf("mount: %v", err)
			}
		}
		if w, h, ok := graphics.Resized(); ok {
			mgr.Resize(w, h)
		}
		input.Poll()
	}
	win := graphics.Window{
		Title:  "portfolio - " + v.Name,
		Width:  int32(*width),
		Height: int32(*height),
		OnClose: func() {
			if err := mgr.Unmount(); err != nil {
				log.Errorf("unmount: %v", err)
			}
		},
	}
	graphics.Run(win, loop, update, dbg.Draw)
}

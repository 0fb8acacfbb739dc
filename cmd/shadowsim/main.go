// shadowsim runs the shadow-map planner headless and reports texture usage.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowcast/internal/config"
	"github.com/Faultbox/shadowcast/internal/engine/camera"
	"github.com/Faultbox/shadowcast/internal/engine/lighting"
	"github.com/Faultbox/shadowcast/internal/engine/renderable"
	"github.com/Faultbox/shadowcast/internal/engine/renderplan"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
	"github.com/Faultbox/shadowcast/internal/engine/texture"
	"github.com/Faultbox/shadowcast/internal/logger"
	"github.com/Faultbox/shadowcast/internal/sim"
	"github.com/Faultbox/shadowcast/internal/trace"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	// commands return an exit code so their deferred cleanup runs
	code := 0
	switch command {
	case "run":
		code = cmdRun(args)
	case "plan":
		code = cmdPlan(args)
	case "trace":
		code = cmdTrace(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		code = 1
	}
	os.Exit(code)
}

func printUsage() {
	fmt.Println(`shadowsim - shadow map planner simulator

Usage:
  shadowsim <command> [options]

Commands:
  run [-config f] [-quality q] [-frames n] [-lights n] [-trace f] [-debug] [-save-config]
                                     Simulate a scene and print a summary
  plan [-quality q] [-type t] <distance> <range>
                                     Print the map sizes planned for one light
  trace <file.trace>                 Summarize a recorded trace

Examples:
  shadowsim run -frames 1000 -lights 64
  shadowsim run -quality medium -trace run.trace
  shadowsim plan -type spot 40 10
  shadowsim trace run.trace`)
}

func cmdRun(args []string) int {
	if err := config.ParseArgs(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== ShadowCast Simulator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			logger.Error("failed to save config", zap.Error(err))
			return 1
		}
		logger.Info("config saved", zap.String("path", path))
	}

	settings, policy, err := renderplan.SettingsFromConfig(cfg.Shadow)
	if err != nil {
		logger.Error("invalid shadow settings", zap.Error(err))
		return 1
	}

	mem := texture.NewMemory()
	scenario, err := sim.New(sim.OptionsFromConfig(cfg), renderplan.FrameOptions{
		Settings:       settings,
		Policy:         policy,
		PoolIdleFrames: cfg.Shadow.PoolIdleFrames,
	}, mem)
	if err != nil {
		logger.Error("failed to create scenario", zap.Error(err))
		return 1
	}
	defer scenario.Close()

	var w *trace.Writer
	if cfg.Simulation.TraceFile != "" {
		w, err = trace.Create(cfg.Simulation.TraceFile, trace.Header{
			Version: trace.Version,
			Quality: cfg.Shadow.Quality,
			Lights:  cfg.Simulation.Lights,
			Cameras: cfg.Simulation.Cameras,
			Seed:    cfg.Simulation.Seed,
		})
		if err != nil {
			logger.Error("failed to create trace", zap.Error(err))
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := scenario.Run(ctx, w)
	if w != nil {
		if err := w.Close(); err != nil {
			logger.Error("failed to close trace", zap.Error(err))
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("simulation failed", zap.Error(runErr))
		return 1
	}

	fmt.Printf("Quality: %s (map %d, cube %d)\n", cfg.Shadow.Quality, settings.Base.Map2D, settings.Base.Cube)
	fmt.Print(summary.String())
	fmt.Printf("texture peak:    %s (%d created)\n", trace.FormatBytes(mem.Peak()), mem.Created())
	logger.Info("simulation finished", zap.Int("frames", summary.Frames))
	return 0
}

func cmdPlan(args []string) int {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	quality := fs.String("quality", "high", "Shadow quality")
	lightType := fs.String("type", "point", "Light type (point, spot, projector)")
	factor := fs.Float64("factor", 0.5, "Dynamic range factor")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: shadowsim plan [-quality q] [-type t] <distance> <range>")
		return 1
	}
	distance, err := strconv.ParseFloat(fs.Arg(0), 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: distance: %v\n", err)
		return 1
	}
	lightRange, err := strconv.ParseFloat(fs.Arg(1), 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: range: %v\n", err)
		return 1
	}

	q, err := renderplan.ParseQuality(*quality)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	typ, err := lighting.ParseLightType(*lightType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	settings := renderplan.Settings{Base: renderplan.BaseSizesFor(q), DynamicRangeFactor: float32(*factor)}
	if !settings.Base.Enabled() {
		fmt.Println("Shadows are off")
		return 0
	}

	mem := texture.NewMemory()
	pool := renderable.New(mem)
	defer pool.Close()

	light := lighting.NewLight("light", typ, camera.Fixed{}.Position(), float32(lightRange),
		shadow.Resources{Textures: mem, Pool: pool})
	defer light.Release()
	light.Caster().SetShadowType(shadow.StaticAndDynamic)

	pl := renderplan.NewPlanLight(light)
	if err := pl.PlanShadowCasting(camera.Fixed{float32(distance), 0, 0}, settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Light:      %s, range %.2f, distance %.2f\n", typ, lightRange, pl.Distance)
	fmt.Printf("Reduction:  static %d, dynamic %d\n", pl.ReductionFactorStatic, pl.ReductionFactorDynamic)
	fmt.Printf("Solid:      static %d, dynamic %d\n", pl.ShadowSizeStatic, pl.ShadowSizeDynamic)
	fmt.Printf("Transp:     static %d, dynamic %d\n", pl.TranspShadowSizeStatic, pl.TranspShadowSizeDynamic)
	fmt.Printf("Ambient:    static %d, dynamic %d\n", pl.AmbientShadowSizeStatic, pl.AmbientShadowSizeDynamic)
	fmt.Printf("GI:         dynamic %d\n", pl.GIShadowSizeDynamic)
	return 0
}

func cmdTrace(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: shadowsim trace <file.trace>")
		return 1
	}

	r, err := trace.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer r.Close()

	h := r.Header()
	fmt.Printf("Trace:      %s\n", args[0])
	fmt.Printf("Version:    %d\n", h.Version)
	fmt.Printf("Quality:    %s\n", h.Quality)
	fmt.Printf("Lights:     %d\n", h.Lights)
	fmt.Printf("Cameras:    %d\n", h.Cameras)
	fmt.Printf("Seed:       %d\n", h.Seed)
	fmt.Println()

	summary, err := trace.Summarize(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Print(summary.String())
	return 0
}

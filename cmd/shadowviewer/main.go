// shadowviewer runs the shadow planner against a live OpenGL context so the
// textures it plans are really allocated and rendered into.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowcast/internal/config"
	"github.com/Faultbox/shadowcast/internal/engine/camera"
	"github.com/Faultbox/shadowcast/internal/engine/glshadow"
	"github.com/Faultbox/shadowcast/internal/engine/renderplan"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
	"github.com/Faultbox/shadowcast/internal/engine/window"
	"github.com/Faultbox/shadowcast/internal/logger"
	"github.com/Faultbox/shadowcast/internal/sim"
	"github.com/Faultbox/shadowcast/internal/trace"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== ShadowCast Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	settings, policy, err := renderplan.SettingsFromConfig(cfg.Shadow)
	if err != nil {
		return err
	}

	win, err := window.New("ShadowCast", cfg.Viewer)
	if err != nil {
		return err
	}
	defer win.Close()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("OpenGL init failed: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	opts := sim.OptionsFromConfig(cfg)
	scenario, err := sim.New(opts, renderplan.FrameOptions{
		Settings:       settings,
		Policy:         policy,
		PoolIdleFrames: cfg.Shadow.PoolIdleFrames,
	}, glshadow.NewProvider())
	if err != nil {
		return err
	}
	defer scenario.Close()

	pass, err := glshadow.NewDepthPass(opts.WorldSize, occluderGrid(opts.WorldSize))
	if err != nil {
		return err
	}
	defer pass.Destroy()

	orbit := camera.NewOrbitCamera()
	orbit.Distance = opts.WorldSize / 4
	scenario.AddCamera(orbit)
	scenario.SetRenderFunc(func(pl *renderplan.PlanLight, maps renderplan.ShadowMaps) error {
		return renderMaps(pass, pl, maps)
	})

	log := logger.Named("viewer")
	var summary trace.Summary
	last := time.Now()
	for frame := 0; opts.Frames == 0 || frame < opts.Frames; frame++ {
		if win.PollQuit() {
			break
		}
		orbit.Orbit(0.01, 0)

		rec, err := scenario.Step()
		if err != nil {
			return err
		}
		summary.Add(rec)

		width, height := win.GetSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0.1, 0.1, 0.12, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		win.SwapBuffers()

		if time.Since(last) >= time.Second {
			last = time.Now()
			win.SetTitle(fmt.Sprintf("ShadowCast - %s in %d textures, %d lights planned",
				trace.FormatBytes(rec.Bytes), rec.LiveTextures, rec.Planned))
			log.Debug("frame", zap.Int("frame", rec.Frame), zap.Int64("bytes", rec.Bytes))
		}
	}

	fmt.Print(summary.String())
	return nil
}

// occluderGrid places boxes of varying height on a grid over the world.
func occluderGrid(worldSize float32) []glshadow.Occluder {
	const cells = 6
	step := worldSize / cells
	var boxes []glshadow.Occluder
	for x := 0; x < cells; x++ {
		for z := 0; z < cells; z++ {
			height := float32(2 + (x*cells+z)%5*2)
			boxes = append(boxes, glshadow.Occluder{
				Center: mgl32.Vec3{
					(float32(x)+0.5)*step - worldSize/2,
					height / 2,
					(float32(z)+0.5)*step - worldSize/2,
				},
				Size: mgl32.Vec3{step / 4, height, step / 4},
			})
		}
	}
	return boxes
}

// renderMaps draws the occluders into every map the plan asks to render,
// once per shadow layer.
func renderMaps(pass *glshadow.DepthPass, pl *renderplan.PlanLight, maps renderplan.ShadowMaps) error {
	var textures []shadow.Texture
	if maps.RenderStatic {
		textures = append(textures, maps.Static, maps.TranspStatic, maps.TranspStaticColor, maps.AmbientStatic)
	}
	if maps.RenderDynamic {
		textures = append(textures, maps.Dynamic, maps.TranspDynamic, maps.TranspDynamicColor, maps.AmbientDynamic)
	}

	caster := pl.Light().Caster()
	for _, tex := range textures {
		if tex == nil {
			continue
		}
		faces := 1
		if tex.Target() == shadow.TargetCube {
			faces = 6
		}
		for face := 0; face < faces && face < caster.ShadowLayerCount(); face++ {
			layer, err := caster.ShadowLayerAt(face)
			if err != nil {
				return err
			}
			rt, err := glshadow.NewTarget(tex, face)
			if err != nil {
				return fmt.Errorf("render target of %s: %w", pl.Light().Name, err)
			}
			pass.Render(rt, layer.Matrix)
			rt.Destroy()
		}
	}
	return nil
}

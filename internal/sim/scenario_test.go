package sim

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Faultbox/shadowcast/internal/config"
	"github.com/Faultbox/shadowcast/internal/engine/camera"
	"github.com/Faultbox/shadowcast/internal/engine/renderplan"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
	"github.com/Faultbox/shadowcast/internal/engine/texture"
	"github.com/Faultbox/shadowcast/internal/trace"
)

func testOptions() (Options, renderplan.FrameOptions) {
	opts := Options{
		Frames:      40,
		Lights:      9,
		Cameras:     2,
		Seed:        3,
		CameraSpeed: 1,
		WorldSize:   100,
		Acquire:     renderplan.AcquireOptions{Transparent: true, Ambient: true},
	}
	frameOpts := renderplan.FrameOptions{
		Settings:       renderplan.Settings{Base: renderplan.BaseSizesFor(renderplan.QualityLow)},
		Policy:         shadow.EvictionPolicy{StaticFrames: 20, DynamicFrames: 5},
		PoolIdleFrames: 5,
	}
	return opts, frameOpts
}

func TestScenarioRun(t *testing.T) {
	opts, frameOpts := testOptions()
	mem := texture.NewMemory()
	s, err := New(opts, frameOpts, mem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := s.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Frames != opts.Frames {
		t.Errorf("expected %d frames, got %d", opts.Frames, summary.Frames)
	}
	if summary.StaticRenders == 0 || summary.DynamicRenders == 0 {
		t.Errorf("expected static and dynamic renders, got %d and %d", summary.StaticRenders, summary.DynamicRenders)
	}
	if summary.Failed != 0 {
		t.Errorf("expected no failed plans, got %d", summary.Failed)
	}
	// every dynamic light renders once per frame at most
	if max := opts.Frames * opts.Lights; summary.DynamicRenders > max {
		t.Errorf("expected at most %d dynamic renders, got %d", max, summary.DynamicRenders)
	}
	if summary.PeakBytes == 0 || mem.Live() == 0 {
		t.Error("expected textures held during the run")
	}

	s.Close()
	if mem.Live() != 0 || mem.Bytes() != 0 {
		t.Errorf("expected everything released, %d live %d bytes", mem.Live(), mem.Bytes())
	}
}

func TestScenarioStepPlansAllLights(t *testing.T) {
	opts, frameOpts := testOptions()
	s, err := New(opts, frameOpts, texture.NewMemory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	rec, err := s.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Planned != opts.Lights*opts.Cameras {
		t.Errorf("expected %d planned lights, got %d", opts.Lights*opts.Cameras, rec.Planned)
	}
	if len(rec.Lights) != opts.Lights {
		t.Errorf("expected %d light samples, got %d", opts.Lights, len(rec.Lights))
	}
	if rec.LiveTextures == 0 || rec.Bytes == 0 {
		t.Errorf("expected live textures, got %+v", rec)
	}
	for _, l := range rec.Lights {
		if l.Static == 0 && l.Dynamic == 0 {
			t.Errorf("light %s has no planned size", l.Name)
		}
	}
}

func TestScenarioAddCamera(t *testing.T) {
	opts, frameOpts := testOptions()
	opts.Cameras = 0
	s, err := New(opts, frameOpts, texture.NewMemory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	rec, _ := s.Step()
	if rec.Planned != 0 {
		t.Errorf("expected nothing planned without cameras, got %d", rec.Planned)
	}

	s.AddCamera(camera.Fixed(s.Lights().Lights()[0].Position))
	rec, err = s.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Planned != opts.Lights {
		t.Errorf("expected %d planned lights, got %d", opts.Lights, rec.Planned)
	}
}

func TestScenarioViewDistance(t *testing.T) {
	opts, frameOpts := testOptions()
	opts.ViewDistance = 0.001
	s, err := New(opts, frameOpts, texture.NewMemory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	rec, _ := s.Step()
	if rec.Planned != 0 {
		t.Errorf("expected no lights in view, got %d", rec.Planned)
	}
}

func TestScenarioDeterministic(t *testing.T) {
	run := func() []trace.Record {
		opts, frameOpts := testOptions()
		s, err := New(opts, frameOpts, texture.NewMemory())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer s.Close()

		var recs []trace.Record
		for i := 0; i < 10; i++ {
			rec, err := s.Step()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			recs = append(recs, rec)
		}
		return recs
	}

	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Error("expected identical records for the same seed")
	}
}

func TestScenarioTrace(t *testing.T) {
	opts, frameOpts := testOptions()
	s, err := New(opts, frameOpts, texture.NewMemory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	var buf bytes.Buffer
	w, err := trace.NewWriter(&buf, trace.Header{Lights: opts.Lights, Cameras: opts.Cameras, Seed: opts.Seed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary, err := s.Run(context.Background(), w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := trace.NewReader(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	replayed, err := trace.Summarize(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replayed.Frames != summary.Frames || replayed.PeakBytes != summary.PeakBytes || replayed.Resizes != summary.Resizes {
		t.Errorf("expected replayed summary to match, got %+v and %+v", replayed, summary)
	}
}

func TestScenarioCancel(t *testing.T) {
	opts, frameOpts := testOptions()
	opts.Frames = 0
	s, err := New(opts, frameOpts, texture.NewMemory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestScenarioRenderFunc(t *testing.T) {
	opts, frameOpts := testOptions()
	s, err := New(opts, frameOpts, texture.NewMemory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	calls := 0
	s.SetRenderFunc(func(pl *renderplan.PlanLight, maps renderplan.ShadowMaps) error {
		calls++
		if maps.RenderStatic && maps.Static == nil {
			t.Errorf("light %s: static render without static map", pl.Light().Name)
		}
		return nil
	})
	s.Step()
	if calls != opts.Lights {
		t.Errorf("expected %d renders on the first frame, got %d", opts.Lights, calls)
	}

	boom := errors.New("boom")
	s.SetRenderFunc(func(*renderplan.PlanLight, renderplan.ShadowMaps) error { return boom })
	for i := 0; i < 3; i++ {
		if _, err := s.Step(); err != nil {
			if !errors.Is(err, boom) {
				t.Errorf("expected render error, got %v", err)
			}
			return
		}
	}
	t.Error("expected a render error from dynamic lights")
}

func TestNewRejectsNegativeCounts(t *testing.T) {
	opts, frameOpts := testOptions()
	opts.Lights = -1
	if _, err := New(opts, frameOpts, texture.NewMemory()); !errors.Is(err, shadow.ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Lights = 5
	opts := OptionsFromConfig(cfg)

	if opts.Lights != 5 {
		t.Errorf("expected 5 lights, got %d", opts.Lights)
	}
	if opts.ViewDistance != cfg.Simulation.WorldSize/2 {
		t.Errorf("expected view distance %v, got %v", cfg.Simulation.WorldSize/2, opts.ViewDistance)
	}
	if !opts.Acquire.UseFloat {
		t.Error("expected float depth from inverse_depth")
	}
}

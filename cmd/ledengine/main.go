// Command ledengine runs the headless audio-reactive LED render engine:
// it loads configuration, opens the DDP transport and state persister, and
// drives the render tick loop until it is signaled to stop.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ledcore/ledengine/internal/config"
	"github.com/ledcore/ledengine/internal/ddp"
	"github.com/ledcore/ledengine/internal/dsp"
	"github.com/ledcore/ledengine/internal/effect"
	"github.com/ledcore/ledengine/internal/engine"
	"github.com/ledcore/ledengine/internal/store"
	"github.com/ledcore/ledengine/internal/supervisor"
)

// audioControl adapts a *dsp.Processor to engine.AudioControl, translating
// the engine's persisted DSPSettings into the processor's own Settings
// shape.
type audioControl struct {
	proc *dsp.Processor
}

func (a audioControl) UpdateSettings(s engine.DSPSettings) {
	kind, err := dsp.ParseFilterbankKind(s.FilterbankType)
	if err != nil {
		kind = dsp.Balanced
	}
	a.proc.UpdateSettings(dsp.Settings{
		FFTSize:          s.FFTSize,
		NumBands:         s.NumBands,
		MinFreq:          s.MinFreq,
		MaxFreq:          s.MaxFreq,
		FilterbankKind:   kind,
		TargetSampleRate: s.TargetSampleRate,
		SmoothingFactor:  s.SmoothingFactor,
		AGCAttack:        s.AGCAttack,
		AGCDecay:         s.AGCDecay,
		AudioDelayMS:     s.AudioDelayMS,
	})
}

func (a audioControl) Restart() { a.proc.Restart() }

func main() {
	cfg := config.Load()
	logger := log.New(os.Stderr, "ledengine: ", log.LstdFlags)

	conn, err := ddp.Dial(cfg.UseIPv4Opt)
	if err != nil {
		logger.Fatalf("open ddp socket: %v", err)
	}
	defer conn.Close()

	persister, err := store.Open(cfg.StateDir, cfg.StateBackend)
	if err != nil {
		logger.Fatalf("open state store: %v", err)
	}
	defer persister.Close()

	var registerer prometheus.Registerer
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		registerer = reg
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			logger.Printf("metrics listening on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Printf("metrics server: %v", err)
			}
		}()
	}
	metrics := engine.NewMetrics(registerer)

	mailboxes := engine.NewMailboxes(64, 8)

	initDSP := engine.DSPSettings{
		FFTSize:          cfg.FFTSize,
		NumBands:         cfg.NumBands,
		MinFreq:          cfg.MinFreq,
		MaxFreq:          cfg.MaxFreq,
		FilterbankType:   cfg.FilterbankType,
		TargetSampleRate: cfg.TargetRate,
		SmoothingFactor:  cfg.SmoothingK,
		AGCAttack:        cfg.AGCAttack,
		AGCDecay:         cfg.AGCDecay,
		AudioDelayMS:     cfg.AudioDelayMS,
	}
	filterbankKind, err := dsp.ParseFilterbankKind(cfg.FilterbankType)
	if err != nil {
		logger.Printf("config: %v, defaulting to balanced", err)
		filterbankKind = dsp.Balanced
	}
	processor := dsp.NewProcessor(cfg.SampleRate, 1, dsp.Settings{
		FFTSize:          cfg.FFTSize,
		NumBands:         cfg.NumBands,
		MinFreq:          cfg.MinFreq,
		MaxFreq:          cfg.MaxFreq,
		FilterbankKind:   filterbankKind,
		TargetSampleRate: cfg.TargetRate,
		SmoothingFactor:  cfg.SmoothingK,
		AGCAttack:        cfg.AGCAttack,
		AGCDecay:         cfg.AGCDecay,
		AudioDelayMS:     cfg.AudioDelayMS,
	})

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Println("shutting down")
		cancel()
	}()

	go func() {
		if err := processor.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Printf("audio processor: %v", err)
		}
	}()
	go func() {
		for range processor.RestartRequested() {
			logger.Println("audio capture restart requested (no capture backend wired in this build)")
		}
	}()

	deps := &engine.Deps{
		DDP:                conn,
		DDPPort:            cfg.DDPPort,
		DDPMaxData:         cfg.DDPMaxData,
		Persister:          persister,
		Metrics:            metrics,
		Mailboxes:          mailboxes,
		LatestFrame:        func() effect.AudioFrame { return effect.AudioFrame{Bands: processor.Snapshot()} },
		TargetFPS:          cfg.TargetFPS,
		Logger:             logger,
		AudioControl:       audioControl{proc: processor},
		InitialDSPSettings: initDSP,
		InitialAPIPort:     cfg.APIPort,
	}

	supCfg := supervisor.Config{Restart: cfg.RestartOnError, RestartDelay: supervisor.DurationString(cfg.RestartDelay)}
	err = supervisor.RunFunc(ctx, "render-loop", supCfg, func(ctx context.Context) error {
		return engine.Run(ctx, deps)
	})
	if err != nil && ctx.Err() == nil {
		logger.Fatalf("engine exited: %v", err)
	}
}

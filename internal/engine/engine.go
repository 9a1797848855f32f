package engine

import (
	"context"
	"log"

	"github.com/ledcore/ledengine/internal/ddp"
	"github.com/ledcore/ledengine/internal/effect"
	"github.com/ledcore/ledengine/internal/store"
)

// Deps bundles everything the tick loop needs from the host process: the
// transport connection, the persistence boundary, metrics, the mailboxes
// external callers use to drive it, and a callback returning the most
// recently captured audio frame (audio capture itself is out of scope).
type Deps struct {
	DDP          *ddp.Conn
	DDPPort      int
	DDPMaxData   int
	Persister    store.Persister
	Metrics      *Metrics
	Mailboxes    *Mailboxes
	LatestFrame  func() effect.AudioFrame
	TargetFPS    int
	Logger       *log.Logger

	// AudioControl forwards CmdUpdateDSPSettings/CmdRestartAudioCapture to
	// the audio processing context; nil disables that forwarding.
	AudioControl AudioControl
	// InitialDSPSettings/InitialAPIPort seed a fresh (no persisted
	// snapshot) engine state; they are overwritten by whatever a loaded
	// snapshot carries.
	InitialDSPSettings DSPSettings
	InitialAPIPort     int
}

// Run drives the tick loop until ctx is canceled or an unrecoverable error
// occurs. It owns all engine state; every external read or mutation goes
// through deps.Mailboxes.
func Run(ctx context.Context, deps *Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	initDSP := deps.InitialDSPSettings
	if initDSP == (DSPSettings{}) {
		initDSP = DefaultDSPSettings()
	}
	c := newCore(deps.TargetFPS, initDSP, deps.InitialAPIPort, deps.AudioControl, logger)
	if deps.Persister != nil {
		if err := loadSnapshot(ctx, deps.Persister, c); err != nil {
			logger.Printf("engine: load snapshot: %v", err)
		}
	}

	pc := newPacer(c.playback.TargetFPS)
	renderStates := make(map[string]*surfaceRenderState)
	var frameCount uint8

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		changed := false

		// Drain at most one request per tick: synchronous reads never block
		// the render path for longer than one reply.
		select {
		case req := <-deps.Mailboxes.Requests:
			resp, mutated := c.handleRequest(req)
			req.Reply <- resp
			close(req.Reply)
			changed = changed || mutated
		default:
		}

		retunedFPS := false
	drainCommands:
		for {
			select {
			case cmd := <-deps.Mailboxes.Commands:
				ok, err := c.applyCommand(cmd, deps.Mailboxes.Events)
				if err != nil {
					logger.Printf("engine: command %d: %v", cmd.Kind, err)
				}
				changed = changed || ok
				if cmd.Kind == CmdSetTargetFPS {
					retunedFPS = true
				}
			default:
				break drainCommands
			}
		}
		if retunedFPS {
			pc.setFPS(c.playback.TargetFPS)
		}

		if changed && deps.Persister != nil {
			if err := saveSnapshot(ctx, deps.Persister, c); err != nil {
				logger.Printf("engine: save snapshot: %v", err)
			}
		}

		if !c.playback.Paused {
			frame := effect.AudioFrame{}
			if deps.LatestFrame != nil {
				frame = deps.LatestFrame()
			}
			frameCount++

			deviceBuffers := make(map[string][]byte)
			preview := make(map[string][]byte, len(c.bound))

			for surfaceID, eff := range c.bound {
				surface, ok := c.snapshot.Surfaces[surfaceID]
				if !ok {
					continue
				}
				pixelCount := surface.PixelCount()
				state, ok := renderStates[surfaceID]
				if !ok || len(state.r) != pixelCount {
					state = newSurfaceRenderState(pixelCount)
					renderStates[surfaceID] = state
				}
				rendered := renderSurface(eff, state, frame, pixelCount)
				scatterIntoDeviceBuffers(surface, rendered, c.snapshot.Devices, deviceBuffers)
				preview[surfaceID] = rendered
			}

			if deps.DDP != nil {
				for ip, buf := range deviceBuffers {
					if len(buf) == 0 {
						continue
					}
					if err := deps.DDP.Send(ip, deps.DDPPort, frameCount, buf, deps.DDPMaxData); err != nil {
						logger.Printf("engine: ddp send to %s: %v", ip, err)
						if deps.Metrics != nil {
							deps.Metrics.DDPWriteErrors.Inc()
						}
					}
				}
			}

			deps.Mailboxes.Events.Emit(Event{Kind: EventEngineTick, Tick: frameCount, Preview: preview})
			if deps.Metrics != nil {
				deps.Metrics.TicksTotal.Inc()
			}
		}

		overran, err := pc.wait(ctx)
		if err != nil {
			return err
		}
		if overran && deps.Metrics != nil {
			deps.Metrics.TicksDroppedTotal.Inc()
		}
		if deps.Metrics != nil {
			deps.Metrics.FPS.Set(float64(c.playback.TargetFPS))
		}
	}
}

func loadSnapshot(ctx context.Context, p store.Persister, c *core) error {
	blob, err := p.Load(ctx)
	if err != nil || blob == nil {
		return err
	}
	var dto snapshotDTO
	if err := store.Unmarshal(blob, &dto); err != nil {
		return err
	}
	snap, err := decodeSnapshot(dto)
	if err != nil {
		return err
	}
	c.snapshot = snap
	return nil
}

func saveSnapshot(ctx context.Context, p store.Persister, c *core) error {
	dto, err := encodeSnapshot(c.snapshot)
	if err != nil {
		return err
	}
	blob, err := store.Marshal(dto)
	if err != nil {
		return err
	}
	return p.Save(ctx, blob)
}

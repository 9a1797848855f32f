package engine

import (
	"fmt"
	"log"

	"github.com/ledcore/ledengine/internal/effect"
)

// AudioControl forwards the DSP commands the tick loop cannot apply
// itself to the audio processing context running on its own goroutine.
// cmd/ledengine wires this to a *dsp.Processor.
type AudioControl interface {
	UpdateSettings(DSPSettings)
	Restart()
}

// core holds everything the tick loop mutates: persisted configuration plus
// the live effect instances bound to each surface (live render phase state
// is never persisted, so it always starts cold on ActivateScene/StartEffect).
type core struct {
	snapshot EngineStateSnapshot
	bound    map[string]effect.Effect
	playback PlaybackState
	audio    AudioControl
	logger   *log.Logger
}

func newCore(targetFPS int, initDSP DSPSettings, initAPIPort int, audio AudioControl, logger *log.Logger) *core {
	if logger == nil {
		logger = log.Default()
	}
	snap := newEngineStateSnapshot()
	snap.DSPSettings = initDSP
	snap.APIPort = initAPIPort
	return &core{
		snapshot: snap,
		bound:    make(map[string]effect.Effect),
		playback: PlaybackState{Paused: false, TargetFPS: targetFPS},
		audio:    audio,
		logger:   logger,
	}
}

func devicePassthroughID(ip string) string { return "device_" + ip }

// applyCommand mutates core per cmd and reports whether engine state
// (anything EngineStateSnapshot covers) changed and needs persisting.
func (c *core) applyCommand(cmd Command, bus *Bus) (bool, error) {
	switch cmd.Kind {
	case CmdStartEffect:
		return c.startEffect(cmd.SurfaceID, cmd.Config, bus)
	case CmdStopEffect:
		delete(c.bound, cmd.SurfaceID)
		bus.Emit(Event{Kind: EventSurfacesChanged})
		return false, nil
	case CmdUpdateSettings:
		eff, ok := c.bound[cmd.SurfaceID]
		if !ok {
			return false, fmt.Errorf("engine: update_settings: surface %q has no bound effect", cmd.SurfaceID)
		}
		if err := eff.UpdateConfig(cmd.Config); err != nil {
			return false, err
		}
		return false, nil
	case CmdAddSurface:
		c.snapshot.Surfaces[cmd.Surface.ID] = cmd.Surface
		bus.Emit(Event{Kind: EventSurfacesChanged})
		return true, nil
	case CmdUpdateSurface:
		c.snapshot.Surfaces[cmd.Surface.ID] = cmd.Surface
		bus.Emit(Event{Kind: EventSurfacesChanged})
		return true, nil
	case CmdRemoveSurface:
		return c.removeSurface(cmd.SurfaceID, bus)
	case CmdAddDevice:
		return c.addDevice(cmd.Device, bus)
	case CmdRemoveDevice:
		return c.removeDevice(cmd.DeviceIP, bus)
	case CmdSetTargetFPS:
		c.playback.TargetFPS = cmd.TargetFPS
		bus.Emit(Event{Kind: EventPlaybackStateChanged})
		return false, nil
	case CmdUpdateDSPSettings:
		c.snapshot.DSPSettings = cmd.DSPSettings
		if c.audio != nil {
			c.audio.UpdateSettings(cmd.DSPSettings)
		}
		bus.Emit(Event{Kind: EventDSPSettingsChanged})
		return true, nil
	case CmdRestartAudioCapture:
		if c.audio != nil {
			c.audio.Restart()
		}
		return false, nil
	case CmdSetAPIPort:
		c.snapshot.APIPort = cmd.APIPort
		bus.Emit(Event{Kind: EventAPIPortChanged})
		return true, nil
	case CmdTogglePause:
		if cmd.Paused != nil {
			c.playback.Paused = *cmd.Paused
		} else {
			c.playback.Paused = !c.playback.Paused
		}
		bus.Emit(Event{Kind: EventPlaybackStateChanged})
		return false, nil
	case CmdReloadState:
		return true, nil
	case CmdSaveScene:
		c.snapshot.Scenes[cmd.Scene.ID] = cmd.Scene
		bus.Emit(Event{Kind: EventScenesChanged})
		return true, nil
	case CmdDeleteScene:
		delete(c.snapshot.Scenes, cmd.SceneID)
		bus.Emit(Event{Kind: EventScenesChanged})
		return true, nil
	case CmdActivateScene:
		return c.activateScene(cmd.SceneID, bus)
	default:
		return false, fmt.Errorf("engine: unknown command kind %d", cmd.Kind)
	}
}

func (c *core) startEffect(surfaceID string, cfg effect.Config, bus *Bus) (bool, error) {
	surface, ok := c.snapshot.Surfaces[surfaceID]
	if !ok {
		return false, fmt.Errorf("engine: start_effect: unknown surface %q", surfaceID)
	}
	eff, err := effect.New(cfg, surface.PixelCount())
	if err != nil {
		return false, fmt.Errorf("engine: start_effect: %w", err)
	}
	c.bound[surfaceID] = eff
	bus.Emit(Event{Kind: EventSurfacesChanged})
	return false, nil
}

func (c *core) removeSurface(surfaceID string, bus *Bus) (bool, error) {
	surface, ok := c.snapshot.Surfaces[surfaceID]
	if !ok {
		return false, fmt.Errorf("engine: remove_surface: unknown surface %q", surfaceID)
	}
	delete(c.snapshot.Surfaces, surfaceID)
	delete(c.bound, surfaceID)
	if surface.IsDevice != "" {
		delete(c.snapshot.Devices, surface.IsDevice)
	}
	bus.Emit(Event{Kind: EventSurfacesChanged})
	if surface.IsDevice != "" {
		bus.Emit(Event{Kind: EventDevicesChanged})
	}
	return true, nil
}

func (c *core) addDevice(dev Device, bus *Bus) (bool, error) {
	c.snapshot.Devices[dev.IP] = dev
	surfaceID := devicePassthroughID(dev.IP)
	matrix := make([][]*Cell, 1)
	matrix[0] = make([]*Cell, dev.PixelCount)
	for i := range matrix[0] {
		matrix[0][i] = &Cell{DeviceIP: dev.IP, Pixel: i}
	}
	c.snapshot.Surfaces[surfaceID] = Surface{ID: surfaceID, Name: dev.Name, Matrix: matrix, IsDevice: dev.IP}
	bus.Emit(Event{Kind: EventDevicesChanged})
	bus.Emit(Event{Kind: EventSurfacesChanged})
	return true, nil
}

func (c *core) removeDevice(ip string, bus *Bus) (bool, error) {
	if _, ok := c.snapshot.Devices[ip]; !ok {
		return false, fmt.Errorf("engine: remove_device: unknown device %q", ip)
	}
	delete(c.snapshot.Devices, ip)
	surfaceID := devicePassthroughID(ip)
	delete(c.snapshot.Surfaces, surfaceID)
	delete(c.bound, surfaceID)
	bus.Emit(Event{Kind: EventDevicesChanged})
	bus.Emit(Event{Kind: EventSurfacesChanged})
	return true, nil
}

// activateScene clears every surface's bound effect, then binds as many of
// the scene's resolved effects as it can: a surface whose preset reference
// cannot be resolved, or that the scene names but no longer exists, is
// logged and left unbound rather than aborting the whole activation.
func (c *core) activateScene(sceneID string, bus *Bus) (bool, error) {
	scene, ok := c.snapshot.Scenes[sceneID]
	if !ok {
		return false, fmt.Errorf("engine: activate_scene: unknown scene %q", sceneID)
	}

	for k := range c.bound {
		delete(c.bound, k)
	}

	selected := make(map[string]string, len(scene.SurfaceEffects))
	settings := make(map[string]effect.Config, len(scene.SurfaceEffects))
	var active []string

	for surfaceID, se := range scene.SurfaceEffects {
		cfg, err := c.resolveSceneEffect(se)
		if err != nil {
			c.logger.Printf("engine: activate_scene %q: surface %q skipped: %v", sceneID, surfaceID, err)
			continue
		}
		selected[surfaceID] = cfg.EffectID()
		settings[surfaceID] = cfg

		surface, ok := c.snapshot.Surfaces[surfaceID]
		if !ok {
			c.logger.Printf("engine: activate_scene %q: surface %q skipped: unknown surface", sceneID, surfaceID)
			continue
		}
		eff, err := effect.New(cfg, surface.PixelCount())
		if err != nil {
			c.logger.Printf("engine: activate_scene %q: surface %q skipped: %v", sceneID, surfaceID, err)
			continue
		}
		c.bound[surfaceID] = eff
		active = append(active, surfaceID)
	}

	bus.Emit(Event{
		Kind:            EventSceneActivated,
		SceneID:         sceneID,
		SelectedEffects: selected,
		EffectSettings:  settings,
		ActiveEffects:   active,
	})
	return false, nil
}

// resolveSceneEffect resolves a literal config directly, or a preset
// reference first against user presets then built-in presets.
func (c *core) resolveSceneEffect(se SceneEffect) (effect.Config, error) {
	if !se.IsReference() {
		return se.Literal, nil
	}
	if byName, ok := c.snapshot.Presets[se.EffectID]; ok {
		if cfg, ok := byName[se.PresetName]; ok {
			return cfg, nil
		}
	}
	if builtins := effect.BuiltInPresets(se.EffectID); builtins != nil {
		if cfg, ok := builtins[se.PresetName]; ok {
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("preset %q/%q not found", se.EffectID, se.PresetName)
}

// handleRequest answers a synchronous Request and reports whether it
// mutated persisted state (SavePreset/DeletePreset) and so needs a
// snapshot save before the reply is trusted durable.
func (c *core) handleRequest(req Request) (Response, bool) {
	switch req.Kind {
	case ReqGetSurfaces:
		return Response{Surfaces: c.snapshot.Surfaces}, false
	case ReqGetDevices:
		return Response{Devices: c.snapshot.Devices}, false
	case ReqGetPresets:
		return Response{Presets: c.snapshot.Presets}, false
	case ReqGetScenes:
		return Response{Scenes: c.snapshot.Scenes}, false
	case ReqGetPlaybackState:
		return Response{PlaybackState: c.playback}, false
	case ReqGetDSPSettings:
		return Response{DSPSettings: c.snapshot.DSPSettings}, false
	case ReqGetFullState:
		return Response{FullState: c.snapshot}, false
	case ReqSavePreset:
		if c.snapshot.Presets[req.EffectID] == nil {
			c.snapshot.Presets[req.EffectID] = make(map[string]effect.Config)
		}
		c.snapshot.Presets[req.EffectID][req.PresetName] = req.Config
		return Response{}, true
	case ReqDeletePreset:
		if byName, ok := c.snapshot.Presets[req.EffectID]; ok {
			delete(byName, req.PresetName)
		}
		return Response{}, true
	default:
		return Response{Err: fmt.Errorf("engine: unknown request kind %d", req.Kind)}, false
	}
}

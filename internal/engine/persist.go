package engine

import (
	"encoding/json"
	"fmt"

	"github.com/ledcore/ledengine/internal/effect"
)

// configDTO is the wire form of an effect.Config: a type tag plus its
// concrete fields, since the Config interface itself carries no decoding
// information once serialized.
type configDTO struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func encodeConfig(cfg effect.Config) (configDTO, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return configDTO{}, fmt.Errorf("engine: encode %s config: %w", cfg.EffectID(), err)
	}
	return configDTO{Kind: cfg.EffectID(), Data: data}, nil
}

func decodeConfig(dto configDTO) (effect.Config, error) {
	switch dto.Kind {
	case "blade_power":
		var c effect.BladePowerConfig
		if err := json.Unmarshal(dto.Data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "fire":
		var c effect.FireConfig
		if err := json.Unmarshal(dto.Data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "scan":
		var c effect.ScanConfig
		if err := json.Unmarshal(dto.Data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "rainbow":
		var c effect.RainbowConfig
		if err := json.Unmarshal(dto.Data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "scroll":
		var c effect.ScrollConfig
		if err := json.Unmarshal(dto.Data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "solid_scan":
		var c effect.SolidScanConfig
		if err := json.Unmarshal(dto.Data, &c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("engine: unknown effect kind %q in snapshot", dto.Kind)
	}
}

// sceneEffectDTO is SceneEffect's wire form: either Literal is set (a
// configDTO) or EffectID/PresetName name a preset reference.
type sceneEffectDTO struct {
	Literal    *configDTO `json:"literal,omitempty"`
	EffectID   string     `json:"effect_id,omitempty"`
	PresetName string     `json:"preset_name,omitempty"`
}

func encodeSceneEffect(se SceneEffect) (sceneEffectDTO, error) {
	if se.IsReference() {
		return sceneEffectDTO{EffectID: se.EffectID, PresetName: se.PresetName}, nil
	}
	dto, err := encodeConfig(se.Literal)
	if err != nil {
		return sceneEffectDTO{}, err
	}
	return sceneEffectDTO{Literal: &dto}, nil
}

func decodeSceneEffect(dto sceneEffectDTO) (SceneEffect, error) {
	if dto.Literal != nil {
		cfg, err := decodeConfig(*dto.Literal)
		if err != nil {
			return SceneEffect{}, err
		}
		return SceneEffect{Literal: cfg}, nil
	}
	return SceneEffect{EffectID: dto.EffectID, PresetName: dto.PresetName}, nil
}

type sceneDTO struct {
	ID             string                    `json:"id"`
	Name           string                    `json:"name"`
	SurfaceEffects map[string]sceneEffectDTO `json:"surface_effects"`
}

func encodeScene(s Scene) (sceneDTO, error) {
	out := sceneDTO{ID: s.ID, Name: s.Name, SurfaceEffects: make(map[string]sceneEffectDTO, len(s.SurfaceEffects))}
	for surfaceID, se := range s.SurfaceEffects {
		dto, err := encodeSceneEffect(se)
		if err != nil {
			return sceneDTO{}, fmt.Errorf("engine: encode scene %s surface %s: %w", s.ID, surfaceID, err)
		}
		out.SurfaceEffects[surfaceID] = dto
	}
	return out, nil
}

func decodeScene(dto sceneDTO) (Scene, error) {
	out := Scene{ID: dto.ID, Name: dto.Name, SurfaceEffects: make(map[string]SceneEffect, len(dto.SurfaceEffects))}
	for surfaceID, sed := range dto.SurfaceEffects {
		se, err := decodeSceneEffect(sed)
		if err != nil {
			return Scene{}, fmt.Errorf("engine: decode scene %s surface %s: %w", dto.ID, surfaceID, err)
		}
		out.SurfaceEffects[surfaceID] = se
	}
	return out, nil
}

// snapshotDTO is the JSON-safe form of EngineStateSnapshot persisted by
// internal/store.
type snapshotDTO struct {
	Devices     map[string]Device              `json:"devices"`
	Surfaces    map[string]Surface              `json:"surfaces"`
	DSPSettings DSPSettings                     `json:"dsp_settings"`
	Presets     map[string]map[string]configDTO `json:"presets"`
	Scenes      map[string]sceneDTO             `json:"scenes"`
	APIPort     int                             `json:"api_port"`
}

func encodeSnapshot(s EngineStateSnapshot) (snapshotDTO, error) {
	out := snapshotDTO{
		Devices:     s.Devices,
		Surfaces:    s.Surfaces,
		DSPSettings: s.DSPSettings,
		Presets:     make(map[string]map[string]configDTO, len(s.Presets)),
		Scenes:      make(map[string]sceneDTO, len(s.Scenes)),
		APIPort:     s.APIPort,
	}
	for effectID, byName := range s.Presets {
		encoded := make(map[string]configDTO, len(byName))
		for name, cfg := range byName {
			dto, err := encodeConfig(cfg)
			if err != nil {
				return snapshotDTO{}, fmt.Errorf("engine: encode preset %s/%s: %w", effectID, name, err)
			}
			encoded[name] = dto
		}
		out.Presets[effectID] = encoded
	}
	for id, scene := range s.Scenes {
		dto, err := encodeScene(scene)
		if err != nil {
			return snapshotDTO{}, err
		}
		out.Scenes[id] = dto
	}
	return out, nil
}

func decodeSnapshot(dto snapshotDTO) (EngineStateSnapshot, error) {
	out := newEngineStateSnapshot()
	if dto.Devices != nil {
		out.Devices = dto.Devices
	}
	if dto.Surfaces != nil {
		out.Surfaces = dto.Surfaces
	}
	out.DSPSettings = dto.DSPSettings
	out.APIPort = dto.APIPort
	for effectID, byName := range dto.Presets {
		decoded := make(map[string]effect.Config, len(byName))
		for name, cdto := range byName {
			cfg, err := decodeConfig(cdto)
			if err != nil {
				return EngineStateSnapshot{}, fmt.Errorf("engine: decode preset %s/%s: %w", effectID, name, err)
			}
			decoded[name] = cfg
		}
		out.Presets[effectID] = decoded
	}
	for id, sdto := range dto.Scenes {
		scene, err := decodeScene(sdto)
		if err != nil {
			return EngineStateSnapshot{}, err
		}
		out.Scenes[id] = scene
	}
	return out, nil
}

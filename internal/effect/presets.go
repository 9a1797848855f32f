package effect

// firePresets holds the built-in presets shipped for the fire effect.
var firePresets = map[string]Config{
	"Classic Campfire": FireConfig{
		Cooling:    55,
		Sparking:   120,
		Gradient:   "linear-gradient(90deg, #000000 0%, #ff0000 50%, #ffff00 100%)",
		BaseConfig: DefaultBaseConfig(),
	},
	"Soul Fire": FireConfig{
		Cooling:    20,
		Sparking:   150,
		Gradient:   "linear-gradient(90deg, #000000 0%, #ff0080 50%, #ffffff 100%)",
		BaseConfig: DefaultBaseConfig(),
	},
	"Nuclear Waste": FireConfig{
		Cooling:    35,
		Sparking:   90,
		Gradient:   "linear-gradient(90deg, #000000 0%, #00ff00 50%, #ffffff 100%)",
		BaseConfig: DefaultBaseConfig(),
	},
}

// scanPresets holds the built-in presets shipped for the scan effect.
var scanPresets = map[string]Config{
	"K.I.T.T.": ScanConfig{
		Speed:      0.8,
		Width:      5,
		Gradient:   "#ff0000",
		BaseConfig: DefaultBaseConfig(),
	},
	"Cylon": ScanConfig{
		Speed:      1.2,
		Width:      7,
		Gradient:   "#ff3300",
		BaseConfig: DefaultBaseConfig(),
	},
	"Rainbow Chase": ScanConfig{
		Speed:      0.6,
		Width:      4,
		Gradient:   "linear-gradient(90deg, #ff0000 0%, #ffff00 25%, #00ff00 50%, #00ffff 75%, #ff00ff 100%)",
		BaseConfig: DefaultBaseConfig(),
	},
}

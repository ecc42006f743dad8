// Package config loads rule presets ("house rules") for new sessions.
//
// A preset is a JSON or YAML file in the preset directory. Its file name
// without extension is the id used when creating a session:
//
//	name: Speed Deal
//	description: Complete sets win, turn limits enforced
//	win_rule: complete_sets
//	enforce_turn_limits: true
//	flags:
//	  limit_double_rent_to_one: true
//	limits:
//	  draw_default: 2
//	  draw_if_empty: 5
//	  max_plays: 3
//	  hand_limit: 7
//
// The "classic" preset is always available. A classic file in the
// directory overrides the built-in one.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadPreset("speed")
//	opts := preset.Options()
//
// Presets are validated on load and cached until RefreshCache.
package config

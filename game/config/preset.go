package config

import (
	"fmt"
	"strings"

	"github.com/wricardo/monopoly-deal/game/engine"
	"github.com/wricardo/monopoly-deal/game/rules"
)

// DefaultPresetName names the built-in official rules
const DefaultPresetName = "classic"

// Preset is a named set of house rules applied when a session starts
type Preset struct {
	Name              string            `json:"name" yaml:"name"`
	Description       string            `json:"description" yaml:"description"`
	Flags             rules.Flags       `json:"flags" yaml:"flags"`
	WinRule           engine.WinRule    `json:"win_rule" yaml:"win_rule"`
	EnforceTurnLimits bool              `json:"enforce_turn_limits" yaml:"enforce_turn_limits"`
	Limits            *rules.TurnLimits `json:"limits,omitempty" yaml:"limits,omitempty"`
}

// PresetInfo describes a preset available for session creation
type PresetInfo struct {
	ID                string         `json:"id"`
	Filename          string         `json:"filename,omitempty"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	WinRule           engine.WinRule `json:"win_rule"`
	EnforceTurnLimits bool           `json:"enforce_turn_limits"`
}

// Options converts the preset into engine options
func (p *Preset) Options() engine.Options {
	opts := engine.DefaultOptions()
	opts.Flags = p.Flags
	opts.EnforceTurnLimits = p.EnforceTurnLimits
	if p.WinRule != "" {
		opts.WinRule = p.WinRule
	}
	if p.Limits != nil {
		opts.Limits = *p.Limits
	}
	return opts
}

// ValidatePreset checks a preset for unusable values
func ValidatePreset(p *Preset) error {
	var errs []string

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	switch p.WinRule {
	case "", engine.WinByPropertyCount, engine.WinByCompleteSets:
	default:
		errs = append(errs, fmt.Sprintf("unknown win_rule %q", p.WinRule))
	}
	if l := p.Limits; l != nil {
		if l.DrawDefault < 1 || l.DrawIfEmpty < 1 {
			errs = append(errs, "limits.draw_default and limits.draw_if_empty must be positive")
		}
		if l.MaxPlays < 1 {
			errs = append(errs, "limits.max_plays must be positive")
		}
		if l.HandLimit < 0 {
			errs = append(errs, "limits.hand_limit cannot be negative")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func classicPreset() *Preset {
	limits := rules.DefaultTurnLimits()
	return &Preset{
		Name:        "Classic",
		Description: "Official card rules; first to three properties on the table wins",
		WinRule:     engine.WinByPropertyCount,
		Limits:      &limits,
	}
}

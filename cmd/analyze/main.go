// Command analyze prints quick, human-readable summaries of the card catalog
// and of the rules presets in a configs directory. It shows deck composition,
// rent tables per color, and flags presets that fail validation or are likely
// to produce very long games.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/wricardo/monopoly-deal/game/cards"
	"github.com/wricardo/monopoly-deal/game/config"
	"github.com/wricardo/monopoly-deal/game/engine"
	"github.com/wricardo/monopoly-deal/game/rules"
	"github.com/wricardo/monopoly-deal/game/session"
)

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	analyzeCatalog(os.Stdout)
	analyzeRents(os.Stdout)
	if err := analyzePresets(os.Stdout, dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// analyzeCatalog prints card counts and money value grouped by card type
func analyzeCatalog(w io.Writer) {
	counts := map[cards.Type]int{}
	values := map[cards.Type]int{}
	for _, e := range cards.Catalog() {
		counts[e.Card.Type] += e.Count
		values[e.Card.Type] += e.Count * e.Card.Value
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)

	fmt.Fprintf(w, "=== Catalog (%d cards) ===\n", cards.CatalogTotal())
	for _, t := range types {
		fmt.Fprintf(w, "%-10s %3d cards, %3dM total value\n", t, counts[cards.Type(t)], values[cards.Type(t)])
	}
	opening := session.MaxPlayers * engine.HandSize
	fmt.Fprintf(w, "Deck after dealing %d players: %d cards\n", session.MaxPlayers, cards.CatalogTotal()-opening)
}

// analyzeRents prints the rent ladder of every color, with and without buildings
func analyzeRents(w io.Writer) {
	fmt.Fprintln(w, "\n=== Rent tables ===")
	for _, color := range cards.AllColors {
		size := rules.SetSize(color)
		steps := make([]string, 0, size)
		for owned := 1; owned <= size; owned++ {
			steps = append(steps, fmt.Sprintf("%dM", rules.BaseRent(color, owned)))
		}
		line := fmt.Sprintf("%-11s set of %d: %s", color, size, strings.Join(steps, " / "))
		if rules.BuildEligible(color) {
			line += fmt.Sprintf("  (house %dM, hotel %dM)",
				rules.ComputeRent(color, size, true, false, 0),
				rules.ComputeRent(color, size, true, true, 0))
		}
		fmt.Fprintln(w, line)
	}
}

// analyzePresets validates and summarizes every preset file in dir. The
// built-in classic preset is included when no file overrides it.
func analyzePresets(w io.Writer, dir string) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n=== Presets in %s ===\n", dir)
	ids := []string{}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".json" && ext != ".yaml" && ext != ".yml") {
			continue
		}
		ids = append(ids, strings.ToLower(strings.TrimSuffix(entry.Name(), ext)))
	}
	if !slices.Contains(ids, config.DefaultPresetName) {
		ids = append(ids, config.DefaultPresetName)
	}
	sort.Strings(ids)

	for _, id := range slices.Compact(ids) {
		fmt.Fprintf(w, "\n--- %s ---\n", id)
		preset, err := manager.LoadPreset(id)
		if err != nil {
			fmt.Fprintf(w, "⚠️  Invalid: %v\n", err)
			continue
		}
		summarizePreset(w, preset)
	}
	return nil
}

func summarizePreset(w io.Writer, preset *config.Preset) {
	opts := preset.Options()
	fmt.Fprintf(w, "Name: %s\n", preset.Name)
	fmt.Fprintf(w, "Win rule: %s\n", opts.WinRule)
	fmt.Fprintf(w, "Turn limits: %v\n", opts.EnforceTurnLimits)
	if opts.EnforceTurnLimits {
		l := opts.Limits
		fmt.Fprintf(w, "  draw %d (%d when empty), %d plays, hand limit %d\n",
			l.DrawDefault, l.DrawIfEmpty, l.MaxPlays, l.HandLimit)
	}
	fmt.Fprintf(w, "Flags: double rent capped=%v, sly deal on full sets=%v, forced deal on full sets=%v\n",
		opts.Flags.LimitDoubleRentToOne, opts.Flags.SlyDealOnFullSets, opts.Flags.ForcedDealOnFullSets)

	warnings := presetWarnings(opts)
	for _, warning := range warnings {
		fmt.Fprintf(w, "⚠️  %s\n", warning)
	}
	if len(warnings) == 0 {
		fmt.Fprintln(w, "✅ No issues found")
	}
}

// presetWarnings lists settings likely to stall or drag out a game
func presetWarnings(opts engine.Options) []string {
	if !opts.EnforceTurnLimits {
		return nil
	}
	var warnings []string
	l := opts.Limits
	if l.HandLimit < l.DrawIfEmpty {
		warnings = append(warnings, fmt.Sprintf("Hand limit %d is below the empty-hand draw of %d", l.HandLimit, l.DrawIfEmpty))
	}
	if l.HandLimit < l.DrawDefault+engine.HandSize-l.MaxPlays {
		warnings = append(warnings, "Players will discard on most turns")
	}
	if opts.WinRule == engine.WinByCompleteSets && l.MaxPlays == 1 {
		warnings = append(warnings, "One play per turn with the complete sets rule makes for very long games")
	}
	return warnings
}

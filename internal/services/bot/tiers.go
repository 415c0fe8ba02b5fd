package bot

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/wordmaster/internal/model"
)

type tierFile struct {
	Tiers []model.DifficultyTier `yaml:"tiers"`
}

// LoadTiers reads difficulty tiers from YAML of the form
//
//	tiers:
//	  - name: easy
//	    breakpoints:
//	      - {min_length: 2, probability: 80}
//	      - {min_length: 4, probability: -1}
func LoadTiers(r io.Reader) (map[string]model.DifficultyTier, error) {
	var f tierFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode tiers: %w", err)
	}

	tiers := make(map[string]model.DifficultyTier, len(f.Tiers))
	for _, t := range f.Tiers {
		if t.Name == "" {
			return nil, fmt.Errorf("tier without a name")
		}
		if len(t.Breakpoints) == 0 {
			return nil, fmt.Errorf("tier %q has no breakpoints", t.Name)
		}
		for _, bp := range t.Breakpoints {
			if bp.MinLength < 1 || bp.Probability < model.Never || bp.Probability > 100 {
				return nil, fmt.Errorf("tier %q: invalid breakpoint %+v", t.Name, bp)
			}
		}
		tiers[t.Name] = t
	}
	return tiers, nil
}

// LoadTiersFile reads tiers from a YAML file and merges them over the built-in ones
func LoadTiersFile(path string) (map[string]model.DifficultyTier, error) {
	tiers := model.DefaultDifficulties()
	if path == "" {
		return tiers, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	custom, err := LoadTiers(file)
	if err != nil {
		return nil, err
	}
	for name, t := range custom {
		tiers[name] = t
	}
	return tiers, nil
}

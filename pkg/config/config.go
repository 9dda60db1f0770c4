package config

import (
	"fmt"
	"os"

	"github.com/maercaestro/oasis/pkg/types"
	"github.com/maercaestro/oasis/pkg/vessel"
	"gopkg.in/yaml.v3"
)

// TankSpec is one tank's starting contents as loaded from YAML.
type TankSpec struct {
	Name     string             `yaml:"name"`
	Capacity float64            `yaml:"capacity"`
	Contents map[string]float64 `yaml:"contents"`
}

// File is the top-level shape of a planning run's YAML configuration
// file: everything the four engines need, expressed as plain data.
type File struct {
	Days     int     `yaml:"days"`
	MaxRate  float64 `yaml:"max_rate"`
	Refinery string  `yaml:"refinery"`

	Crudes        map[string]types.Crude       `yaml:"crudes"`
	Products      map[string]types.Product     `yaml:"products"`
	Recipes       []types.BlendingRecipe       `yaml:"recipes"`
	Tanks         []TankSpec                   `yaml:"tanks"`
	Routes        []types.Route                `yaml:"routes"`
	VesselClasses []vessel.VesselClass         `yaml:"vessel_classes"`
	Requirements  []types.FeedstockRequirement `yaml:"requirements"`
}

// Load reads and parses a planning run's YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &f, nil
}

// OpeningInventoryByGrade sums every tank's starting contents into a single
// per-grade total, the shape the genetic optimizer and the five-tank LP
// variant both take as their opening inventory.
func (f *File) OpeningInventoryByGrade() map[string]float64 {
	opening := make(map[string]float64)
	for _, t := range f.BuildTanks() {
		for el := t.Content.Front(); el != nil; el = el.Next() {
			opening[el.Key] += el.Value
		}
	}
	return opening
}

// BuildTanks turns the YAML tank specs into live types.Tank values.
func (f *File) BuildTanks() []*types.Tank {
	tanks := make([]*types.Tank, 0, len(f.Tanks))
	for _, spec := range f.Tanks {
		t := types.NewTank(spec.Name, spec.Capacity)
		for grade, volume := range spec.Contents {
			t.Content.Set(grade, volume)
		}
		tanks = append(tanks, t)
	}
	return tanks
}

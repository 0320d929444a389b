package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ninernav/domain"
)

type seedFile struct {
	Maps []domain.Map `yaml:"maps"`
}

func NewSeedCmd() *cobra.Command {
	var mapsFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load playable maps from a YAML file",
		Long: `Inserts every map listed in the file. Maps whose name already exists are
left as they are, so the command can be run repeatedly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			maps, err := readMaps(mapsFile)
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			inserted, err := seedMaps(db, maps)
			if err != nil {
				return err
			}
			cmd.Printf("Seeded %d of %d maps\n", inserted, len(maps))
			return nil
		},
	}
	cmd.Flags().StringVar(&mapsFile, "maps", "maps.yaml", "YAML file with the map list")
	return cmd
}

func readMaps(path string) ([]domain.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for i, m := range f.Maps {
		if m.Name == "" || m.ImagePath == "" {
			return nil, fmt.Errorf("map #%d: name and image_path are required", i+1)
		}
		if m.Latitude < -90 || m.Latitude > 90 || m.Longitude < -180 || m.Longitude > 180 {
			return nil, fmt.Errorf("map %q: %w", m.Name, domain.ErrBadCoordinates)
		}
	}
	return f.Maps, nil
}

func seedMaps(db *gorm.DB, maps []domain.Map) (int64, error) {
	if len(maps) == 0 {
		return 0, nil
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&maps)
	return result.RowsAffected, result.Error
}

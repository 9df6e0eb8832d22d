package main

import (
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/croptrack/internal/config"
	"git.home.luguber.info/inful/croptrack/internal/logfields"
)

// starterCatalog is a minimal working catalog the user can extend.
const starterCatalog = `# croptrack catalog
autoweed_sensor_id: 5557

produce:
  - { name: Weeds, item_id: 6055, marker: weeds }
  - { name: Scarecrow, item_id: 6059, marker: scarecrow }
  - { name: Potato, item_id: 1942 }

tables:
  - name: allotment
    rows:
      - { first_value: 0, count: 4, produce: Weeds, state: growing, stages: 4, tick_rate: 5 }
      - { first_value: 6, count: 4, produce: Potato, state: growing, stages: 5, tick_rate: 10 }
      - { first_value: 10, produce: Potato, state: harvestable, first_stage: 4, stages: 5, tick_rate: 0 }

regions:
  - id: 12851
    name: Falador
    patches:
      - { name: falador-north, sensor_id: 4771, tab: allotment, table: allotment, notify: true }
      - { name: falador-south, sensor_id: 4772, tab: allotment, table: allotment, notify: true }
`

func runInit(configPath string, force bool) error {
	if err := writeStarterFile(configPath, config.DefaultYAML, force); err != nil {
		return err
	}
	if err := writeStarterFile("catalog.yaml", starterCatalog, force); err != nil {
		return err
	}
	slog.Info("Configuration initialized", logfields.Path(configPath))
	return nil
}

func writeStarterFile(path, content string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

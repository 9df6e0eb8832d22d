package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/croptrack/internal/farming"
)

// fileCatalog is the YAML shape of a catalog file.
type fileCatalog struct {
	AutoweedSensorID int           `yaml:"autoweed_sensor_id"`
	Produce          []fileProduce `yaml:"produce"`
	Tables           []fileTable   `yaml:"tables"`
	Regions          []fileRegion  `yaml:"regions"`
}

type fileProduce struct {
	Name   string `yaml:"name"`
	ItemID int    `yaml:"item_id"`
	Marker string `yaml:"marker,omitempty"`
}

type fileTable struct {
	Name string    `yaml:"name"`
	Rows []fileRow `yaml:"rows"`
}

type fileRow struct {
	FirstValue int    `yaml:"first_value"`
	Count      int    `yaml:"count,omitempty"` // defaults to 1
	Produce    string `yaml:"produce"`
	State      string `yaml:"state"`
	FirstStage int    `yaml:"first_stage,omitempty"`
	Stages     int    `yaml:"stages"`
	TickRate   int    `yaml:"tick_rate"` // minutes per stage, 0 = static
}

type fileRegion struct {
	ID      int         `yaml:"id"`
	Name    string      `yaml:"name"`
	Bounds  []Bounds    `yaml:"bounds,omitempty"`
	Patches []filePatch `yaml:"patches"`
}

type filePatch struct {
	Name     string `yaml:"name"`
	SensorID int    `yaml:"sensor_id"`
	Tab      string `yaml:"tab"`
	Table    string `yaml:"table"`
	Notify   bool   `yaml:"notify"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from raw YAML.
func Parse(data []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	cat := &Catalog{
		regions:        make(map[int]*Region),
		tabs:           make(map[farming.Tab][]*Patch),
		tables:         make(map[string]*GrowthTable),
		produce:        make(map[string]farming.Produce),
		autoweedSensor: fc.AutoweedSensorID,
	}

	for _, fp := range fc.Produce {
		marker, err := parseMarker(fp.Marker)
		if err != nil {
			return nil, fmt.Errorf("produce %s: %w", fp.Name, err)
		}
		if _, ok := cat.produce[fp.Name]; ok {
			return nil, fmt.Errorf("produce %s: duplicate definition", fp.Name)
		}
		cat.produce[fp.Name] = farming.Produce{Name: fp.Name, ItemID: fp.ItemID, Marker: marker}
	}

	for _, ft := range fc.Tables {
		if _, ok := cat.tables[ft.Name]; ok {
			return nil, fmt.Errorf("table %s: duplicate definition", ft.Name)
		}
		table := &GrowthTable{Name: ft.Name}
		for i, fr := range ft.Rows {
			produce, ok := cat.produce[fr.Produce]
			if !ok {
				return nil, fmt.Errorf("table %s row %d: unknown produce %q", ft.Name, i, fr.Produce)
			}
			state, err := parseCropState(fr.State)
			if err != nil {
				return nil, fmt.Errorf("table %s row %d: %w", ft.Name, i, err)
			}
			count := fr.Count
			if count == 0 {
				count = 1
			}
			if fr.Stages <= 0 {
				return nil, fmt.Errorf("table %s row %d: stages must be positive", ft.Name, i)
			}
			if fr.FirstStage+count > fr.Stages {
				return nil, fmt.Errorf("table %s row %d: stages %d cannot hold %d values from stage %d",
					ft.Name, i, fr.Stages, count, fr.FirstStage)
			}
			table.rows = append(table.rows, tableRow{
				firstValue: fr.FirstValue,
				count:      count,
				firstStage: fr.FirstStage,
				state: farming.PatchState{
					Produce:   produce,
					CropState: state,
					Stages:    fr.Stages,
					TickRate:  fr.TickRate,
				},
			})
		}
		cat.tables[ft.Name] = table
	}

	for _, fr := range fc.Regions {
		if _, ok := cat.regions[fr.ID]; ok {
			return nil, fmt.Errorf("region %d: duplicate definition", fr.ID)
		}
		region := &Region{ID: fr.ID, Name: fr.Name, Bounds: fr.Bounds}
		for _, fp := range fr.Patches {
			table, ok := cat.tables[fp.Table]
			if !ok {
				return nil, fmt.Errorf("patch %s: unknown table %q", fp.Name, fp.Table)
			}
			tab, err := parseTab(fp.Tab)
			if err != nil {
				return nil, fmt.Errorf("patch %s: %w", fp.Name, err)
			}
			patch := &Patch{
				Name:     fp.Name,
				Region:   region,
				Tab:      tab,
				SensorID: fp.SensorID,
				Table:    table,
				Notify:   fp.Notify,
			}
			region.Patches = append(region.Patches, patch)
			cat.tabs[tab] = append(cat.tabs[tab], patch)
		}
		cat.regions[fr.ID] = region
	}

	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func parseMarker(s string) (farming.Marker, error) {
	switch farming.Marker(s) {
	case farming.MarkerNone, farming.MarkerWeeds, farming.MarkerScarecrow:
		return farming.Marker(s), nil
	}
	return farming.MarkerNone, fmt.Errorf("unknown marker %q", s)
}

func parseCropState(s string) (farming.CropState, error) {
	switch farming.CropState(s) {
	case farming.CropGrowing, farming.CropDiseased, farming.CropDead,
		farming.CropHarvestable, farming.CropEmpty:
		return farming.CropState(s), nil
	}
	return "", fmt.Errorf("unknown crop state %q", s)
}

func parseTab(s string) (farming.Tab, error) {
	for _, tab := range farming.Tabs() {
		if farming.Tab(s) == tab {
			return tab, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

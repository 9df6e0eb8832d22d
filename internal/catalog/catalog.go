// Package catalog holds the static, read-only world description: regions
// with their patches, the growth tables that map raw live values to growth
// states, and the produce kinds those tables reference. The catalog is
// loaded once from YAML and never mutated; per-patch runtime state lives in
// the tracker.
package catalog

import (
	"fmt"
	"strconv"

	"git.home.luguber.info/inful/croptrack/internal/farming"
)

// Location is a point reported by the live-value source, used to decide
// which region's patches to sample.
type Location struct {
	RegionID int
	X        int
	Y        int
}

// Bounds is an inclusive rectangle within a region.
type Bounds struct {
	MinX int `yaml:"min_x"`
	MinY int `yaml:"min_y"`
	MaxX int `yaml:"max_x"`
	MaxY int `yaml:"max_y"`
}

func (b Bounds) contains(loc Location) bool {
	return loc.X >= b.MinX && loc.X <= b.MaxX && loc.Y >= b.MinY && loc.Y <= b.MaxY
}

// Region is a bounded grouping of patches. An empty bounds list means the
// whole region counts as in bounds.
type Region struct {
	ID      int
	Name    string
	Bounds  []Bounds
	Patches []*Patch
}

// InBounds reports whether the location falls inside this region.
func (r *Region) InBounds(loc Location) bool {
	if loc.RegionID != r.ID {
		return false
	}
	if len(r.Bounds) == 0 {
		return true
	}
	for _, b := range r.Bounds {
		if b.contains(loc) {
			return true
		}
	}
	return false
}

// Patch is one tracked resource. SensorID keys both the live-value read
// and the stored sample within the region's namespace.
type Patch struct {
	Name     string
	Region   *Region
	Tab      farming.Tab
	SensorID int
	Table    *GrowthTable
	Notify   bool
}

// Key is the store key for this patch within its region group.
func (p *Patch) Key() string { return strconv.Itoa(p.SensorID) }

// ID identifies the patch uniquely across regions. Sensor ids may repeat
// between regions, so the region id is part of the identity.
func (p *Patch) ID() string {
	return strconv.Itoa(p.Region.ID) + "/" + strconv.Itoa(p.SensorID)
}

// tableRow maps a contiguous run of raw values to consecutive stages of
// one growth state.
type tableRow struct {
	firstValue int
	count      int
	firstStage int
	state      farming.PatchState
}

// GrowthTable maps raw live values to growth states for one patch kind.
type GrowthTable struct {
	Name string
	rows []tableRow
}

// StateFor returns the growth state for a raw value, or nil when the
// value maps to no known state.
func (t *GrowthTable) StateFor(value int) *farming.PatchState {
	for _, row := range t.rows {
		if value < row.firstValue || value >= row.firstValue+row.count {
			continue
		}
		st := row.state
		st.Stage = row.firstStage + (value - row.firstValue)
		return &st
	}
	return nil
}

// Catalog is the full static world description.
type Catalog struct {
	regions        map[int]*Region
	tabs           map[farming.Tab][]*Patch
	tables         map[string]*GrowthTable
	produce        map[string]farming.Produce
	autoweedSensor int
}

// Region returns the region with the given id, or nil.
func (c *Catalog) Region(id int) *Region { return c.regions[id] }

// Tabs returns patches grouped by tab. Callers must not mutate the map.
func (c *Catalog) Tabs() map[farming.Tab][]*Patch { return c.tabs }

// Table returns the named growth table, or nil.
func (c *Catalog) Table(name string) *GrowthTable { return c.tables[name] }

// AutoweedSensorID is the live-value id of the global autoweed flag.
func (c *Catalog) AutoweedSensorID() int { return c.autoweedSensor }

// Patches returns every patch in the catalog.
func (c *Catalog) Patches() []*Patch {
	var all []*Patch
	for _, r := range c.regions {
		all = append(all, r.Patches...)
	}
	return all
}

func (c *Catalog) validate() error {
	seen := map[string]string{}
	for _, r := range c.regions {
		for _, p := range r.Patches {
			if p.Table == nil {
				return fmt.Errorf("patch %s: missing growth table", p.Name)
			}
			if prev, ok := seen[p.ID()]; ok {
				return fmt.Errorf("patch %s: sensor %d already used by %s in region %d", p.Name, p.SensorID, prev, r.ID)
			}
			seen[p.ID()] = p.Name
		}
	}
	return nil
}

// Package farming holds the shared domain types for patch tracking:
// produce kinds, growth states, per-patch predictions and the per-tab
// summary states derived from them. Everything here is a plain value
// type; behavior lives in predict and tracker.
package farming

// Marker flags produce kinds with special aggregation semantics.
// Weeds and scarecrows occupy a patch without counting toward harvest
// readiness.
type Marker string

const (
	MarkerNone      Marker = ""
	MarkerWeeds     Marker = "weeds"
	MarkerScarecrow Marker = "scarecrow"
)

// Produce identifies what is growing in a patch. ItemID is negative for
// placeholder kinds that carry no real item; those are excluded from
// aggregation entirely.
type Produce struct {
	Name   string
	ItemID int
	Marker Marker
}

// Valid reports whether the produce maps to a real item. Invalid produce
// contributes nothing to tab aggregates.
func (p Produce) Valid() bool { return p.ItemID >= 0 }

// CropState describes the health of whatever occupies a patch.
type CropState string

const (
	CropGrowing     CropState = "growing"
	CropDiseased    CropState = "diseased"
	CropDead        CropState = "dead"
	CropHarvestable CropState = "harvestable"
	CropEmpty       CropState = "empty"
)

// PatchState is one decoded growth-table entry: what is growing, how far
// along it is, and how fast it advances. TickRate is in minutes; a tick
// rate of zero means no further timed growth.
type PatchState struct {
	Produce   Produce
	CropState CropState
	Stage     int
	Stages    int
	TickRate  int
}

// Prediction is the transient result of decoding a stored sample. It is
// recomputed on every query and never persisted. DoneEstimate is the
// epoch second at which the patch is expected to be fully grown.
type Prediction struct {
	Produce      Produce
	CropState    CropState
	DoneEstimate int64
	Stage        int
	Stages       int
}

// SummaryState is the aggregate readiness of all patches in a tab.
type SummaryState string

const (
	SummaryUnknown    SummaryState = "unknown"
	SummaryEmpty      SummaryState = "empty"
	SummaryInProgress SummaryState = "in_progress"
	SummaryCompleted  SummaryState = "completed"
)

// UnknownCompletionTime is the sentinel completion time reported when a
// tab has no usable data.
const UnknownCompletionTime int64 = -1

// Tab is a category of patches reported on together.
type Tab string

const (
	TabAllotment Tab = "allotment"
	TabFlower    Tab = "flower"
	TabHerb      Tab = "herb"
	TabTree      Tab = "tree"
	TabFruitTree Tab = "fruit_tree"
	TabHops      Tab = "hops"
	TabBush      Tab = "bush"
	TabSpecial   Tab = "special"
)

// Tabs lists every tab in stable display order.
func Tabs() []Tab {
	return []Tab{
		TabAllotment,
		TabFlower,
		TabHerb,
		TabTree,
		TabFruitTree,
		TabHops,
		TabBush,
		TabSpecial,
	}
}

// Autoweed is the global weed-clearing flag read from the live-value
// source and persisted as its stringified ordinal.
type Autoweed int

const (
	AutoweedUnknown Autoweed = iota
	AutoweedOff
	AutoweedOn
)

// Package predict turns a single stored sample into a growth prediction.
// All time quantities are integer epoch seconds and all tick math uses
// floor division; there is no floating point anywhere on this path.
package predict

import (
	"git.home.luguber.info/inful/croptrack/internal/catalog"
	"git.home.luguber.info/inful/croptrack/internal/farming"
	"git.home.luguber.info/inful/croptrack/internal/statestore"
)

// tickOffsetSeconds compensates for the sampling-to-tick alignment skew of
// the live-value source. The value is tied to its polling cadence and must
// not change without reverification.
const tickOffsetSeconds = 300

// Decode turns a stored sample into a prediction using the patch's growth
// table. It returns nil when the sample is absent or malformed, or when
// the raw value maps to no known growth state. When autoweed is on, weed
// growth collapses to a single static stage since it is cleared as fast as
// it appears.
func Decode(stored string, table *catalog.GrowthTable, autoweed bool, now int64) *farming.Prediction {
	value, sampledAt, ok := statestore.ParseSample(stored)
	if !ok || sampledAt <= 0 {
		return nil
	}

	state := table.StateFor(value)
	if state == nil {
		return nil
	}

	stage := state.Stage
	stages := state.Stages
	tickrate := int64(state.TickRate) * 60

	if autoweed && state.Produce.Marker == farming.MarkerWeeds {
		stage = 0
		stages = 1
		tickrate = 0
	}

	var doneEstimate int64
	if tickrate > 0 {
		tickNow := (now + tickOffsetSeconds) / tickrate
		tickThen := (sampledAt + tickOffsetSeconds) / tickrate
		delta := int(tickNow - tickThen)

		// The estimate projects from the stage observed at sample time,
		// before advancement.
		doneEstimate = (int64(stages-1-stage)+tickThen)*tickrate + tickOffsetSeconds

		stage += delta
		if stage >= stages {
			stage = stages - 1
		}
	}

	return &farming.Prediction{
		Produce:      state.Produce,
		CropState:    state.CropState,
		DoneEstimate: doneEstimate,
		Stage:        stage,
		Stages:       stages,
	}
}

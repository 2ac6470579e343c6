package domain

import "math"

// UploadPhase is a coarse upload stage. Exact byte progress of a multipart
// transfer is not reliably observable, so progress is reported per phase.
type UploadPhase string

const (
	PhasePreparing  UploadPhase = "preparing"
	PhaseSending    UploadPhase = "sending"
	PhaseFinalizing UploadPhase = "finalizing"
)

// phaseSpan is the percent range [lo, hi] covered by a phase.
var phaseSpan = map[UploadPhase][2]int{
	PhasePreparing:  {0, 30},
	PhaseSending:    {30, 90},
	PhaseFinalizing: {90, 100},
}

// UploadProgress exists only while an upload is in flight.
type UploadProgress struct {
	Percent int         `json:"percent"`
	Phase   UploadPhase `json:"phase"`
}

// ProgressAt maps a fraction of a phase onto the overall percent scale.
// fraction is clamped to [0, 1].
func ProgressAt(phase UploadPhase, fraction float64) UploadProgress {
	span, ok := phaseSpan[phase]
	if !ok {
		return UploadProgress{Phase: phase}
	}
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	pct := span[0] + int(math.Floor(fraction*float64(span[1]-span[0])))
	return UploadProgress{Percent: pct, Phase: phase}
}

// ProgressFunc receives progress updates. Implementations must not block.
type ProgressFunc func(UploadProgress)

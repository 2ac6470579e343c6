package domain

// Stage is a state of the authoring flow.
type Stage string

const (
	StageGallery Stage = "gallery"
	StageCamera  Stage = "camera"
	StageEditor  Stage = "editor"
	StageClosed  Stage = "closed"
)

// InitialStage is where every flow instance starts.
const InitialStage = StageCamera

// transitions lists the legal edges of the flow. Closed is reachable from
// every stage through closeFlow, which is handled separately.
var transitions = map[Stage][]Stage{
	StageGallery: {StageCamera, StageEditor},
	StageCamera:  {StageGallery, StageEditor},
	StageEditor:  {StageCamera, StageClosed},
}

// CanTransition reports whether the flow may move from one stage to another.
func CanTransition(from, to Stage) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsCapture reports whether s is one of the acquisition stages.
func (s Stage) IsCapture() bool {
	return s == StageGallery || s == StageCamera
}

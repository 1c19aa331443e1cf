package cart

import "time"

const (
	OpAddItem        = "add_item"
	OpRemoveItem     = "remove_item"
	OpUpdateQuantity = "update_quantity"
	OpClear          = "clear"

	PhaseLoad = "load"
	PhaseSave = "save"
)

// Recorder receives engine telemetry. pkg/metrics provides the prometheus one.
type Recorder interface {
	ObserveMutation(op string, changed bool)
	IncPersistFailure(phase string)
	ObservePersist(phase string, d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveMutation(string, bool)         {}
func (noopRecorder) IncPersistFailure(string)             {}
func (noopRecorder) ObservePersist(string, time.Duration) {}

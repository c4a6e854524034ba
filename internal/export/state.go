package export

// State is one phase of an export invocation. Each invocation moves
// strictly forward through the pipeline states and terminates in done,
// blocked or failed.
type State string

const (
	StateIdle                State = "idle"
	StateCheckingEntitlement State = "checking-entitlement"
	StateRasterizing         State = "rasterizing"
	StateAssembling          State = "assembling"
	StateCrediting           State = "crediting"
	StatePersisting          State = "persisting"
	StateDone                State = "done"
	// StateBlocked is the business-rule stop for exhausted entitlement.
	// Terminal but not an error.
	StateBlocked State = "blocked"
	StateFailed  State = "failed"
)

// Terminal reports whether the state ends the invocation.
func (s State) Terminal() bool {
	return s == StateDone || s == StateBlocked || s == StateFailed
}

func (s State) String() string {
	return string(s)
}

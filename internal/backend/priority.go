// ABOUTME: Worker priority hint derivation
// ABOUTME: Base minus offset, clamped into a configured valid range
package backend

// Default priority constants. Lower numeric value means higher priority;
// the bounds are configuration, not a platform contract, since valid ranges
// differ between schedulers.
const (
	DefaultPriorityBase   = 0x30
	DefaultPriorityOffset = 1
	DefaultPriorityMin    = 0x18
	DefaultPriorityMax    = 0x3F
)

// PriorityConfig controls the worker priority hint. The worker runs at the
// creator's priority minus Offset, so slightly above it, clamped into
// [Min, Max]. Zero values take the defaults above.
//
// Goroutines carry no OS-level priority, so the derived value is advisory:
// it is logged and handed to drivers that can apply it.
type PriorityConfig struct {
	Base   int
	Offset int
	Min    int
	Max    int
}

func (pc PriorityConfig) withDefaults() PriorityConfig {
	if pc.Base == 0 {
		pc.Base = DefaultPriorityBase
	}
	if pc.Offset == 0 {
		pc.Offset = DefaultPriorityOffset
	}
	if pc.Min == 0 {
		pc.Min = DefaultPriorityMin
	}
	if pc.Max == 0 {
		pc.Max = DefaultPriorityMax
	}
	return pc
}

// Derive computes the clamped worker priority.
func (pc PriorityConfig) Derive() int {
	p := pc.Base - pc.Offset
	if p < pc.Min {
		p = pc.Min
	}
	if p > pc.Max {
		p = pc.Max
	}
	return p
}

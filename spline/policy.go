package spline

// PolicyProvider tells a spline how edits interact with animation.
//
// AutoKeying: an edit at a time without keyframe silently creates one.
// FeatherLink: moving a control point moves its feather point as well.
// RippleEdit: a positional delta is applied at every keyframe of the shape.
//
// Implementations are consulted on every edit, so they may change their
// answers between calls.
type PolicyProvider interface {
	AutoKeying() bool
	FeatherLink() bool
	RippleEdit() bool
}

// EditPolicy is a PolicyProvider with fixed settings.
type EditPolicy struct {
	Autokey bool
	Link    bool
	Ripple  bool
}

// DefaultPolicy has auto-keying on, feather link and ripple edit off.
var DefaultPolicy = EditPolicy{Autokey: true}

func (p EditPolicy) AutoKeying() bool  { return p.Autokey }
func (p EditPolicy) FeatherLink() bool { return p.Link }
func (p EditPolicy) RippleEdit() bool  { return p.Ripple }

var _ PolicyProvider = EditPolicy{}

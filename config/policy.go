package config

import (
	"github.com/npillmayer/roto/spline"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
)

// Policy is an edit policy backed by a configuration. Values are read on
// every call, so changes to the configuration take effect immediately.
type Policy struct {
	conf schuko.Configuration
}

var _ spline.PolicyProvider = Policy{}

// NewPolicy creates an edit policy reading from conf.
func NewPolicy(conf schuko.Configuration) Policy {
	return Policy{conf: conf}
}

// AutoKeying is part of interface spline.PolicyProvider.
func (p Policy) AutoKeying() bool {
	return p.conf.GetBool(KeyAutoKeying)
}

// FeatherLink is part of interface spline.PolicyProvider.
func (p Policy) FeatherLink() bool {
	return p.conf.GetBool(KeyFeatherLink)
}

// RippleEdit is part of interface spline.PolicyProvider.
func (p Policy) RippleEdit() bool {
	return p.conf.GetBool(KeyRippleEdit)
}

// Snapshot freezes the current values into a spline.EditPolicy.
func (p Policy) Snapshot() spline.EditPolicy {
	return spline.EditPolicy{
		Autokey: p.AutoKeying(),
		Link:    p.FeatherLink(),
		Ripple:  p.RippleEdit(),
	}
}

// TraceKeys are the tracer keys of the roto packages.
var TraceKeys = []string{"roto", "roto.anim", "roto.bezier", "roto.fit", "roto.polygon", "graphics"}

// ApplyTracing sets the level of every tracer in TraceKeys from the
// configuration key TraceLevelKey(key), if set. It returns the levels
// applied.
func ApplyTracing(conf schuko.Configuration) map[string]tracing.TraceLevel {
	applied := make(map[string]tracing.TraceLevel)
	for _, key := range TraceKeys {
		ck := TraceLevelKey(key)
		if !conf.IsSet(ck) {
			continue
		}
		level := tracing.TraceLevelFromString(conf.GetString(ck))
		tracing.Select(key).SetTraceLevel(level)
		applied[key] = level
	}
	return applied
}

package anim

import (
	"sync"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// KeySet is a set of keyframe times without values. Shapes use it to
// remember the times at which the whole point list is keyed. The zero
// value is an empty set.
type KeySet struct {
	mx    sync.RWMutex
	times *treeset.Set // ordered by time, nil while empty
}

// NewKeySet creates a set holding times.
func NewKeySet(times ...float64) *KeySet {
	ks := &KeySet{}
	for _, t := range times {
		ks.Add(t)
	}
	return ks
}

// Add inserts t. It returns false if t was already present.
func (ks *KeySet) Add(t float64) bool {
	ks.mx.Lock()
	defer ks.mx.Unlock()
	if ks.times == nil {
		ks.times = treeset.NewWith(utils.Float64Comparator)
	}
	if ks.times.Contains(t) {
		return false
	}
	ks.times.Add(t)
	tracer().Debugf("keyframe set at %g", t)
	return true
}

// Remove deletes t. It returns false if t was not present.
func (ks *KeySet) Remove(t float64) bool {
	ks.mx.Lock()
	defer ks.mx.Unlock()
	if ks.times == nil || !ks.times.Contains(t) {
		return false
	}
	ks.times.Remove(t)
	return true
}

// Has is a predicate: is t a member of the set?
func (ks *KeySet) Has(t float64) bool {
	ks.mx.RLock()
	defer ks.mx.RUnlock()
	return ks.times != nil && ks.times.Contains(t)
}

// Len returns the number of keyframes.
func (ks *KeySet) Len() int {
	ks.mx.RLock()
	defer ks.mx.RUnlock()
	if ks.times == nil {
		return 0
	}
	return ks.times.Size()
}

// First returns the earliest keyframe time, if any.
func (ks *KeySet) First() (float64, bool) {
	ks.mx.RLock()
	defer ks.mx.RUnlock()
	if ks.times == nil {
		return 0, false
	}
	it := ks.times.Iterator()
	if !it.First() {
		return 0, false
	}
	return it.Value().(float64), true
}

// Times returns all keyframe times in ascending order.
func (ks *KeySet) Times() []float64 {
	ks.mx.RLock()
	defer ks.mx.RUnlock()
	return ks.values()
}

func (ks *KeySet) values() []float64 {
	if ks.times == nil {
		return nil
	}
	times := make([]float64, 0, ks.times.Size())
	for _, t := range ks.times.Values() {
		times = append(times, t.(float64))
	}
	return times
}

// Clear empties the set.
func (ks *KeySet) Clear() {
	ks.mx.Lock()
	defer ks.mx.Unlock()
	ks.times = nil
}

// Clone returns an independent copy.
func (ks *KeySet) Clone() *KeySet {
	ks.mx.RLock()
	times := ks.values()
	ks.mx.RUnlock()
	return NewKeySet(times...)
}

/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package probe

import "time"

// DeriveFunc computes the derived metrics for a record from its previous and
// current samples and the time elapsed between them. For a freshly inserted
// record it is called with prev == curr and zero elapsed, so rate and delta
// figures come out zero while instantaneous figures (e.g. memory percentages)
// are available from the first sample.
type DeriveFunc[S, D any] func(prev, curr S, elapsed time.Duration) D

// Record is the mutable per-identity state owned by a Registry: the current
// sample, the previous one (if any), the derived metrics and bookkeeping.
type Record[S, D any] struct {
	current     S
	previous    *S
	derived     D
	lastUpdated time.Time
	gone        bool
}

// Current returns the most recent sample.
func (r *Record[S, D]) Current() S { return r.current }

// Previous returns the sample before the current one, if any.
func (r *Record[S, D]) Previous() (S, bool) {
	if r.previous == nil {
		var zero S
		return zero, false
	}
	return *r.previous, true
}

// Derived returns the derived metrics computed at the last update.
func (r *Record[S, D]) Derived() D { return r.derived }

// LastUpdated returns when the current sample was committed.
func (r *Record[S, D]) LastUpdated() time.Time { return r.lastUpdated }

// Gone reports whether the identity was missing on the last reconciliation
// and is only retained on request.
func (r *Record[S, D]) Gone() bool { return r.gone }

// ReconcileOptions controls one Reconcile call.
type ReconcileOptions[K comparable] struct {
	// RetainRemoved keeps records of missing identities, flagged gone,
	// instead of deleting them.
	RetainRemoved bool

	// AdmitOnly restricts the call to inserting unseen identities. Existing
	// records keep their samples and derived metrics untouched and nothing
	// is removed. Used when a refresh arrives below the family's minimum
	// sampling interval.
	AdmitOnly bool

	// Scope, when non-nil, limits removal to the listed identities: records
	// outside the scope are not considered missing even if the readings
	// lack them. Used for selective refreshes of an identity subset.
	Scope []K
}

// ReconcileReport counts the effects of one Reconcile call.
type ReconcileReport struct {
	Inserted int
	Updated  int
	Removed  int
	Retained int
}

// Registry is an identity-keyed store for one entity kind. It reconciles new
// reading sets against previous state and recomputes derived metrics through
// its DeriveFunc. Registries are not self-locking; the owning facade
// serializes writers and guards readers.
type Registry[K comparable, S, D any] struct {
	records map[K]*Record[S, D]
	derive  DeriveFunc[S, D]
}

// NewRegistry creates an empty Registry for one entity kind.
func NewRegistry[K comparable, S, D any](derive DeriveFunc[S, D]) *Registry[K, S, D] {
	return &Registry[K, S, D]{
		records: make(map[K]*Record[S, D]),
		derive:  derive,
	}
}

// Reconcile diffs the reading set against the registry's state.
//
// New identities are inserted with no previous sample; their derived metrics
// are computed with zero elapsed time, which zeroes every rate-type figure.
// Persisting identities shift current to previous, commit the new
// sample and recompute derived metrics from the elapsed time since their
// last update. Identities absent from the readings are deleted, or flagged
// gone when opts.RetainRemoved is set; a later non-retaining call (or Purge)
// drops them.
//
// An identity reappearing after having been flagged gone is treated as brand
// new: its stale previous sample is discarded rather than diffed against,
// since reused identities would otherwise yield nonsensical deltas.
func (r *Registry[K, S, D]) Reconcile(readings map[K]S, now time.Time, opts ReconcileOptions[K]) ReconcileReport {
	var report ReconcileReport

	for id, sample := range readings {
		rec, exists := r.records[id]

		switch {
		case !exists || rec.gone:
			// First sighting, or identity reuse after disappearance. No
			// previous sample to diff against: deriving with zero elapsed
			// yields zero rates but live instantaneous figures.
			r.records[id] = &Record[S, D]{
				current:     sample,
				lastUpdated: now,
				derived:     r.derive(sample, sample, 0),
			}
			report.Inserted++

		case opts.AdmitOnly:
			// Too soon since the last accepted sample: keep the committed
			// state so repeated reads stay comparable.

		default:
			prev := rec.current
			elapsed := now.Sub(rec.lastUpdated)
			rec.previous = &prev
			rec.current = sample
			rec.derived = r.derive(prev, sample, elapsed)
			rec.lastUpdated = now
			report.Updated++
		}
	}

	if opts.AdmitOnly {
		return report
	}

	inScope := func(id K) bool { return true }
	if opts.Scope != nil {
		scoped := make(map[K]struct{}, len(opts.Scope))
		for _, id := range opts.Scope {
			scoped[id] = struct{}{}
		}
		inScope = func(id K) bool {
			_, ok := scoped[id]
			return ok
		}
	}

	for id, rec := range r.records {
		if _, seen := readings[id]; seen || !inScope(id) {
			continue
		}

		if opts.RetainRemoved {
			if !rec.gone {
				rec.gone = true
				report.Retained++
			}
			continue
		}

		delete(r.records, id)
		report.Removed++
	}

	return report
}

// Patch replaces the current sample of an existing, non-gone record without
// shifting it to previous or recomputing derived metrics. Used for
// field-level updates (e.g. CPU frequency) that must not disturb the
// counter baseline. Returns false when no live record exists.
func (r *Registry[K, S, D]) Patch(id K, fn func(curr S) S) bool {
	rec, ok := r.records[id]
	if !ok || rec.gone {
		return false
	}
	rec.current = fn(rec.current)
	return true
}

// Purge drops all records flagged gone and returns how many were removed.
func (r *Registry[K, S, D]) Purge() int {
	removed := 0
	for id, rec := range r.records {
		if rec.gone {
			delete(r.records, id)
			removed++
		}
	}
	return removed
}

// Get returns the record for the given identity.
func (r *Registry[K, S, D]) Get(id K) (*Record[S, D], bool) {
	rec, ok := r.records[id]
	return rec, ok
}

// Len returns the number of records, gone ones included.
func (r *Registry[K, S, D]) Len() int { return len(r.records) }

// Each calls fn for every record until fn returns false. Iteration order is
// unspecified.
func (r *Registry[K, S, D]) Each(fn func(id K, rec *Record[S, D]) bool) {
	for id, rec := range r.records {
		if !fn(id, rec) {
			return
		}
	}
}

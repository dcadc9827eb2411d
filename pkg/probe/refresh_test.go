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

import "testing"

func TestUpdateKindNeedsUpdate(t *testing.T) {
	tests := []struct {
		name     string
		kind     UpdateKind
		isSet    bool
		expected bool
	}{
		{name: "Never, unset", kind: UpdateNever, isSet: false, expected: false},
		{name: "Never, set", kind: UpdateNever, isSet: true, expected: false},
		{name: "Always, unset", kind: UpdateAlways, isSet: false, expected: true},
		{name: "Always, set", kind: UpdateAlways, isSet: true, expected: true},
		{name: "OnlyIfNotSet, unset", kind: UpdateOnlyIfNotSet, isSet: false, expected: true},
		{name: "OnlyIfNotSet, set", kind: UpdateOnlyIfNotSet, isSet: true, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.NeedsUpdate(tt.isSet); got != tt.expected {
				t.Errorf("NeedsUpdate(%v) = %v, want %v", tt.isSet, got, tt.expected)
			}
		})
	}
}

func TestRefreshKindPresets(t *testing.T) {
	allKinds := []EntityKind{KindCPU, KindMemory, KindProcesses, KindDisks, KindNetworks, KindSensors, KindUsers}

	nothing := Nothing()
	for _, kind := range allKinds {
		if nothing.Wants(kind) {
			t.Errorf("Nothing().Wants(%v) = true", kind)
		}
	}

	everything := Everything()
	for _, kind := range allKinds {
		if !everything.Wants(kind) {
			t.Errorf("Everything().Wants(%v) = false", kind)
		}
	}

	proc, ok := everything.Processes()
	if !ok {
		t.Fatal("Everything().Processes() not wanted")
	}
	if !proc.CPU() || !proc.Memory() || !proc.DiskIO() {
		t.Error("Everything() process counters not all wanted")
	}
	if proc.Exe() != UpdateAlways || proc.Environ() != UpdateAlways {
		t.Error("Everything() optional field policies not UpdateAlways")
	}
}

func TestRefreshKindComposition(t *testing.T) {
	kind := Nothing().
		WithCPU(CPUNothing().WithUsage()).
		WithDisks()

	if !kind.Wants(KindCPU) || !kind.Wants(KindDisks) {
		t.Error("composed kinds not wanted")
	}
	if kind.Wants(KindMemory) || kind.Wants(KindProcesses) {
		t.Error("uncomposed kinds wanted")
	}

	c, ok := kind.CPU()
	if !ok || !c.Usage() || c.Frequency() {
		t.Errorf("CPU sub-kind = usage:%v frequency:%v, want usage only", c.Usage(), c.Frequency())
	}

	// Value semantics: composing must not mutate the base.
	base := ProcessNothing()
	derived := base.WithExe(UpdateOnlyIfNotSet)
	if base.Exe() != UpdateNever {
		t.Error("WithExe mutated its receiver")
	}
	if derived.Exe() != UpdateOnlyIfNotSet {
		t.Error("WithExe did not apply to the copy")
	}
}

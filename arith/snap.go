// SPDX-License-Identifier: MIT

package arith

// SnapTolerance is the magnitude below which Snap64 treats a value as zero.
const SnapTolerance = 1e-12

// Snap64 is a float64 strategy whose zero test absorbs round-off residue:
// any |x| < SnapTolerance counts as zero and is therefore never stored.
//
// Use it when assembling systems where exact cancellation is expected but
// floating-point evaluation order leaves values like 1e-17 behind.
//
// Note: Snap64 still performs exact IEEE arithmetic; only IsZero differs
// from Float64, so sums that land inside the band are dropped by containers.
type Snap64 struct{ Float64 }

var _ Arithmetic[float64] = Snap64{}

// IsZero reports |x| < SnapTolerance.
func (Snap64) IsZero(x float64) bool {
	return x > -SnapTolerance && x < SnapTolerance
}

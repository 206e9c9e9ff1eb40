package domain

import (
	"fmt"
	"math"
)

// Mansion is the name of one lunar mansion.
type Mansion string

// MansionCount is the number of sectors in the 28-mansion scheme.
const MansionCount = 28

// SectorWidth is the arc covered by one mansion, in degrees.
const SectorWidth = 360.0 / MansionCount

// boundaryEpsilon nudges values sitting on a sector edge into the sector
// they enter.
const boundaryEpsilon = 1e-12

// Mansions lists the 28 mansions in sector order starting at 0°.
var Mansions = [MansionCount]Mansion{
	"角", "亢", "氐", "房", "心", "尾", "箕",
	"斗", "牛", "女", "虚", "危", "室", "壁",
	"奎", "婁", "胃", "昴", "畢", "觜", "参",
	"井", "鬼", "柳", "星", "張", "翼", "軫",
}

// Reduce27 folds MergedMansion into MergedInto.
const (
	MergedMansion Mansion = "牛"
	MergedInto    Mansion = "女"
)

// Index returns the sector index of m, or -1 if m is not a mansion name.
func (m Mansion) Index() int {
	for i, name := range Mansions {
		if name == m {
			return i
		}
	}
	return -1
}

// Valid reports whether m is one of the 28 mansion names.
func (m Mansion) Valid() bool {
	return m.Index() >= 0
}

func (m Mansion) String() string { return string(m) }

// ParseMansion validates a mansion name.
func ParseMansion(s string) (Mansion, error) {
	m := Mansion(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown mansion %q", ErrInvalidInput, s)
	}
	return m, nil
}

// NormalizeDegrees maps any angle onto [0, 360).
func NormalizeDegrees(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	if m >= 360 {
		m = 0
	}
	return m
}

// Classify28 returns the mansion whose sector contains the longitude.
func Classify28(longitudeDeg float64) Mansion {
	lon := NormalizeDegrees(longitudeDeg)
	idx := int(math.Floor((lon+boundaryEpsilon)/SectorWidth)) % MansionCount
	return Mansions[idx]
}

// Reduce27 maps a 28-scheme mansion onto the 27-scheme.
func Reduce27(m Mansion) Mansion {
	if m == MergedMansion {
		return MergedInto
	}
	return m
}

package gof

import (
	"fmt"
	"math"
)

// StatID identifies one entry of an EDFStatistics vector. The set is closed.
type StatID int

const (
	KSPlus StatID = iota
	KSMinus
	KS
	AndersonDarling
	CramerVonMises
	WatsonG
	WatsonU
	Mean
	Correlation

	// NumStatistics is the fixed length of an EDFStatistics vector.
	NumStatistics = int(Correlation) + 1
)

var statNames = [NumStatistics]string{
	KSPlus:          "ks_plus",
	KSMinus:         "ks_minus",
	KS:              "ks",
	AndersonDarling: "anderson_darling",
	CramerVonMises:  "cramer_von_mises",
	WatsonG:         "watson_g",
	WatsonU:         "watson_u2",
	Mean:            "mean",
	Correlation:     "correlation",
}

// DefaultTests are the statistics reported by a standard GOF run. Mean and
// Correlation are carried in the vector but not tested by default.
var DefaultTests = []StatID{KSPlus, KSMinus, KS, AndersonDarling, CramerVonMises, WatsonG, WatsonU}

func (id StatID) String() string {
	if id < 0 || int(id) >= NumStatistics {
		return fmt.Sprintf("StatID(%d)", int(id))
	}
	return statNames[id]
}

// ParseStatID resolves a statistic by its snake_case name.
func ParseStatID(name string) (StatID, bool) {
	for i, n := range statNames {
		if n == name {
			return StatID(i), true
		}
	}
	return 0, false
}

// EDFStatistics maps every StatID to its value for one sample. Entries that
// were not computed hold NaN.
type EDFStatistics [NumStatistics]float64

// NewEDFStatistics returns a vector with every entry unset.
func NewEDFStatistics() EDFStatistics {
	var s EDFStatistics
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// Get returns the value of id and whether it was computed.
func (s EDFStatistics) Get(id StatID) (float64, bool) {
	v := s[id]
	return v, !math.IsNaN(v)
}

// Defined reports whether id holds a computed value.
func (s EDFStatistics) Defined(id StatID) bool {
	return !math.IsNaN(s[id])
}

// Map returns the computed entries keyed by name.
func (s EDFStatistics) Map() map[string]float64 {
	out := make(map[string]float64, NumStatistics)
	for i, v := range s {
		if !math.IsNaN(v) {
			out[statNames[i]] = v
		}
	}
	return out
}

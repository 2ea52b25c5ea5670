package market

// ReferenceIndex enumerates supported floating benchmarks.
type ReferenceIndex string

const (
	ESTR      ReferenceIndex = "ESTR"
	EURIBOR3M ReferenceIndex = "EURIBOR3M"
	EURIBOR6M ReferenceIndex = "EURIBOR6M"
	TONAR     ReferenceIndex = "TONAR"
	TIBOR6M   ReferenceIndex = "TIBOR6M"
	SOFR      ReferenceIndex = "SOFR"
	SONIA     ReferenceIndex = "SONIA"
)

// IsOvernight reports whether the reference rate is an overnight index used in OIS discounting/projection.
func IsOvernight(r ReferenceIndex) bool {
	switch r {
	case ESTR, TONAR, SOFR, SONIA:
		return true
	default:
		return false
	}
}

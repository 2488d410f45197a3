package pact

import "fmt"

// SpecVersion identifies the Pact specification version a contract is
// written against. Higher versions are a strict superset of lower ones
// for the fields the mock server core cares about.
type SpecVersion int

const (
	SpecUnknown SpecVersion = iota
	SpecV1
	SpecV1_1
	SpecV2
	SpecV3
	SpecV4
)

func (v SpecVersion) String() string {
	switch v {
	case SpecV1:
		return "1.0.0"
	case SpecV1_1:
		return "1.1.0"
	case SpecV2:
		return "2.0.0"
	case SpecV3:
		return "3.0.0"
	case SpecV4:
		return "4.0"
	default:
		return "unknown"
	}
}

// ParseSpecVersion parses a "pactSpecification.version" string into a
// SpecVersion. Unrecognized or empty strings yield SpecUnknown, never an
// error: the caller decides whether that is fatal.
func ParseSpecVersion(s string) SpecVersion {
	switch s {
	case "1.0.0", "1", "1.0":
		return SpecV1
	case "1.1.0", "1.1":
		return SpecV1_1
	case "2.0.0", "2", "2.0":
		return SpecV2
	case "3.0.0", "3", "3.0":
		return SpecV3
	case "4.0", "4.0.0", "4":
		return SpecV4
	default:
		return SpecUnknown
	}
}

// Before reports whether v is strictly older than other.
func (v SpecVersion) Before(other SpecVersion) bool { return v < other }

// Max returns the newer of two spec versions, used when merging contract
// files written under different versions.
func Max(a, b SpecVersion) SpecVersion {
	if a > b {
		return a
	}
	return b
}

// MustParseSpecVersion is like ParseSpecVersion but panics on an unknown
// version string; used only at places where the caller has already
// validated the string is one of the supported markers.
func MustParseSpecVersion(s string) SpecVersion {
	v := ParseSpecVersion(s)
	if v == SpecUnknown {
		panic(fmt.Sprintf("pact: unknown spec version %q", s))
	}
	return v
}

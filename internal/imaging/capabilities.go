package imaging

import "fmt"

// Capabilities records which optional HEIC codecs the loader may use. It is
// computed once at startup and passed to NewLoader; it never changes after.
type Capabilities struct {
	// ModernHEIC enables native HEIC decoding in the primary strategy.
	ModernHEIC bool `json:"modern_heic"`
	// LegacyHEIC enables the legacy fallback. It is only consulted when
	// ModernHEIC is false.
	LegacyHEIC bool `json:"legacy_heic"`
}

// Compiled reports which codecs were built into this binary, regardless of
// configuration.
func Compiled() Capabilities {
	return Capabilities{
		ModernHEIC: modernHEICCompiled,
		LegacyHEIC: legacyHEICCompiled,
	}
}

// DetectCapabilities returns the codecs that are both compiled in and allowed.
func DetectCapabilities(allowModern, allowLegacy bool) Capabilities {
	c := Compiled()
	return Capabilities{
		ModernHEIC: c.ModernHEIC && allowModern,
		LegacyHEIC: c.LegacyHEIC && allowLegacy,
	}
}

func (c Capabilities) String() string {
	return fmt.Sprintf("modern_heic=%t legacy_heic=%t", c.ModernHEIC, c.LegacyHEIC)
}

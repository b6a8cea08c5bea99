package di

import "strings"

// InjectFlags controls how Injector.Get and Injector.Has search for a
// provider. Flags are a bitmask and combine with |.
type InjectFlags uint8

const (
	// Default searches for a provider starting at this injector and
	// continuing upwards towards the root.
	Default InjectFlags = 0

	// Self restricts the search to this injector only.
	Self InjectFlags = 1 << iota

	// SkipSelf does not check this injector; the search starts one level up.
	SkipSelf

	// Optional suppresses the not-found failure: a default value is
	// returned instead (nil unless overridden).
	Optional
)

// Has reports whether every flag in `flag` is set.
func (f InjectFlags) Has(flag InjectFlags) bool {
	return f&flag == flag
}

// String returns the | -joined names of the set flags.
func (f InjectFlags) String() string {
	if f == Default {
		return "Default"
	}

	var names []string
	if f.Has(Self) {
		names = append(names, "Self")
	}
	if f.Has(SkipSelf) {
		names = append(names, "SkipSelf")
	}
	if f.Has(Optional) {
		names = append(names, "Optional")
	}
	return strings.Join(names, "|")
}

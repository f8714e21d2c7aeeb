// Package language holds the static registry of practice languages: locale
// codes, display/native names, per-language greetings, and the fixed set of
// teaching profiles accepted by the talk endpoint.
package language

import (
	"sort"

	"golang.org/x/text/language"
)

// Descriptor describes one supported practice language.
type Descriptor struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
}

// DefaultCode is the fallback used when a caller asks for an unknown code.
const DefaultCode = "en"

var registry = map[string]Descriptor{
	"es": {Code: "es", Name: "Spanish", NativeName: "Español"},
	"fr": {Code: "fr", Name: "French", NativeName: "Français"},
	"de": {Code: "de", Name: "German", NativeName: "Deutsch"},
	"it": {Code: "it", Name: "Italian", NativeName: "Italiano"},
	"pt": {Code: "pt", Name: "Portuguese", NativeName: "Português"},
	"zh": {Code: "zh", Name: "Chinese", NativeName: "中文"},
	"ja": {Code: "ja", Name: "Japanese", NativeName: "日本語"},
	"ko": {Code: "ko", Name: "Korean", NativeName: "한국어"},
	"ru": {Code: "ru", Name: "Russian", NativeName: "Русский"},
	"ar": {Code: "ar", Name: "Arabic", NativeName: "العربية"},
	"hi": {Code: "hi", Name: "Hindi", NativeName: "हिन्दी"},
	"en": {Code: "en", Name: "English", NativeName: "English"},
}

var greetings = map[string]string{
	"es": "¡Hola! I'm your Voxly conversation partner. Let's practice Spanish together!",
	"fr": "Bonjour! I'm your Voxly conversation partner. Let's practice French together!",
	"de": "Guten Tag! I'm your Voxly conversation partner. Let's practice German together!",
	"it": "Ciao! I'm your Voxly conversation partner. Let's practice Italian together!",
	"pt": "Olá! I'm your Voxly conversation partner. Let's practice Portuguese together!",
	"zh": "Nǐ hǎo! I'm your Voxly conversation partner. Let's practice Chinese together!",
	"ja": "Konnichiwa! I'm your Voxly conversation partner. Let's practice Japanese together!",
	"ko": "Annyeonghaseyo! I'm your Voxly conversation partner. Let's practice Korean together!",
	"ru": "Privet! I'm your Voxly conversation partner. Let's practice Russian together!",
	"ar": "Marhaba! I'm your Voxly conversation partner. Let's practice Arabic together!",
	"hi": "Namaste! I'm your Voxly conversation partner. Let's practice Hindi together!",
	"en": "Hello! I'm your Voxly conversation partner. Let's practice English together!",
}

// teachable is the exact-match set of English language names the reply
// gateway has a teaching prompt profile for.
var teachable = map[string]bool{
	"Spanish": true,
	"French":  true,
	"German":  true,
	"Arabic":  true,
	"Chinese": true,
	"Urdu":    true,
}

// Lookup returns the descriptor for a locale code.
func Lookup(code string) (Descriptor, bool) {
	d, ok := registry[code]
	return d, ok
}

// Default returns the fallback descriptor.
func Default() Descriptor {
	return registry[DefaultCode]
}

// Greeting returns the canned agent greeting for a code, falling back to the
// default language's greeting for unknown codes.
func Greeting(code string) string {
	if g, ok := greetings[code]; ok {
		return g
	}
	return greetings[DefaultCode]
}

// IsTeachable reports whether the English language name has a teaching
// prompt profile. Matching is exact.
func IsTeachable(name string) bool {
	return teachable[name]
}

// All returns every registered descriptor ordered by code.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ValidCode reports whether code parses as a language tag and is registered.
func ValidCode(code string) bool {
	if _, err := language.Parse(code); err != nil {
		return false
	}
	_, ok := registry[code]
	return ok
}

package language

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		code     string
		wantOK   bool
		wantName string
	}{
		{"es", true, "Spanish"},
		{"zh", true, "Chinese"},
		{"en", true, "English"},
		{"xx", false, ""},
		{"", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			d, ok := Lookup(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
			}
			if ok && d.Name != tt.wantName {
				t.Errorf("Lookup(%q) name = %q, want %q", tt.code, d.Name, tt.wantName)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if d.Code != DefaultCode {
		t.Errorf("Default().Code = %q, want %q", d.Code, DefaultCode)
	}
	if d.Name != "English" {
		t.Errorf("Default().Name = %q, want English", d.Name)
	}
}

func TestGreeting(t *testing.T) {
	if g := Greeting("es"); !strings.HasPrefix(g, "¡Hola!") {
		t.Errorf("Spanish greeting = %q, want ¡Hola! prefix", g)
	}
	// Unknown codes fall back to the default greeting rather than failing.
	if g := Greeting("xx"); g != Greeting(DefaultCode) {
		t.Errorf("unknown code greeting = %q, want default", g)
	}
}

func TestIsTeachable(t *testing.T) {
	for _, name := range []string{"Spanish", "French", "German", "Arabic", "Chinese", "Urdu"} {
		if !IsTeachable(name) {
			t.Errorf("IsTeachable(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"Klingon", "spanish", "", "Italian"} {
		if IsTeachable(name) {
			t.Errorf("IsTeachable(%q) = true, want false", name)
		}
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 12 {
		t.Fatalf("expected 12 languages, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Code >= all[i].Code {
			t.Fatalf("All() not ordered by code: %q before %q", all[i-1].Code, all[i].Code)
		}
	}
	for _, d := range all {
		if d.NativeName == "" {
			t.Errorf("language %q missing native name", d.Code)
		}
	}
}

func TestValidCode(t *testing.T) {
	if !ValidCode("es") {
		t.Error("expected es to be valid")
	}
	if ValidCode("not a tag!") {
		t.Error("expected malformed tag to be invalid")
	}
	if ValidCode("sw") {
		t.Error("expected unregistered code to be invalid")
	}
}

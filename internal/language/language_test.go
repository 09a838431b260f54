package language

import "testing"

func TestGet(t *testing.T) {
	lang, ok := Get("fil")
	if !ok {
		t.Fatal("expected fil to be supported")
	}
	if lang.Name != "Filipino (Tagalog)" {
		t.Errorf("Name = %q, want %q", lang.Name, "Filipino (Tagalog)")
	}
	if _, ok := Get("de"); ok {
		t.Error("expected de to be unsupported")
	}
}

func TestDisplayName(t *testing.T) {
	lang, _ := Get("en")
	if got := lang.DisplayName("ko"); got != "영어" {
		t.Errorf("DisplayName(ko) = %q, want 영어", got)
	}
	// Unknown UI languages fall back to English.
	if got := lang.DisplayName("xx"); got != "English" {
		t.Errorf("DisplayName(xx) = %q, want English", got)
	}
}

func TestSupported_Sorted(t *testing.T) {
	langs := Supported()
	if len(langs) != len(Languages) {
		t.Fatalf("Supported() returned %d entries, want %d", len(langs), len(Languages))
	}
	for i := 1; i < len(langs); i++ {
		if langs[i-1].Name > langs[i].Name {
			t.Fatalf("Supported() not sorted: %q before %q", langs[i-1].Name, langs[i].Name)
		}
	}
}

package language

import (
	"reflect"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}
	if got := c.Default().Code; got != "en" {
		t.Errorf("Default().Code = %q, want en", got)
	}

	wantCodes := []string{"en", "id", "zh-CN", "zh-TW"}
	for i, lang := range c.Languages() {
		if lang.Code != wantCodes[i] {
			t.Errorf("Languages()[%d].Code = %q, want %q", i, lang.Code, wantCodes[i])
		}
	}
}

func TestNewCatalog(t *testing.T) {
	t.Run("canonicalizes codes", func(t *testing.T) {
		c, err := NewCatalog([]Language{{Code: "zh-cn", Name: "Chinese Simplified"}})
		if err != nil {
			t.Fatalf("NewCatalog() error = %v", err)
		}
		if got := c.Default().Code; got != "zh-CN" {
			t.Errorf("code = %q, want zh-CN", got)
		}
	})

	t.Run("native name defaults to display name", func(t *testing.T) {
		c, err := NewCatalog([]Language{{Code: "fr", Name: "French"}})
		if err != nil {
			t.Fatalf("NewCatalog() error = %v", err)
		}
		if got := c.Default().NativeName; got != "French" {
			t.Errorf("NativeName = %q, want French", got)
		}
	})

	tests := []struct {
		name      string
		languages []Language
	}{
		{name: "empty list"},
		{
			name:      "invalid code",
			languages: []Language{{Code: "not a code!", Name: "X"}},
		},
		{
			name:      "missing display name",
			languages: []Language{{Code: "en"}},
		},
		{
			name: "duplicate code",
			languages: []Language{
				{Code: "en", Name: "English"},
				{Code: "en", Name: "English Again"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCatalog(tt.languages); err == nil {
				t.Error("NewCatalog() error = nil, want non-nil")
			}
		})
	}
}

func TestFromSpec(t *testing.T) {
	t.Run("empty spec yields the default catalog", func(t *testing.T) {
		c, err := FromSpec("  ")
		if err != nil {
			t.Fatalf("FromSpec() error = %v", err)
		}
		if c.Len() != 4 {
			t.Errorf("Len() = %d, want 4", c.Len())
		}
	})

	t.Run("full spec", func(t *testing.T) {
		c, err := FromSpec("de:German:Deutsch; fr:French")
		if err != nil {
			t.Fatalf("FromSpec() error = %v", err)
		}
		want := []Language{
			{Code: "de", Name: "German", NativeName: "Deutsch"},
			{Code: "fr", Name: "French", NativeName: "French"},
		}
		if got := c.Languages(); !reflect.DeepEqual(got, want) {
			t.Errorf("Languages() = %v, want %v", got, want)
		}
	})

	t.Run("malformed entry", func(t *testing.T) {
		if _, err := FromSpec("justacode"); err == nil {
			t.Error("FromSpec() error = nil, want non-nil")
		}
	})
}

func TestLookups(t *testing.T) {
	c := DefaultCatalog()

	t.Run("ByCode", func(t *testing.T) {
		if lang, ok := c.ByCode("zh-TW"); !ok || lang.Name != "Chinese Traditional" {
			t.Errorf("ByCode(zh-TW) = %v, %v", lang, ok)
		}
		if _, ok := c.ByCode("fr"); ok {
			t.Error("ByCode(fr) found a language, want miss")
		}
	})

	t.Run("ByName is case and whitespace insensitive", func(t *testing.T) {
		tests := []struct {
			in   string
			code string
		}{
			{"English", "en"},
			{"ENGLISH", "en"},
			{"  Chinese simplified ", "zh-CN"},
			{"Bahasa Indonesia", "id"}, // native name alias
		}
		for _, tt := range tests {
			lang, ok := c.ByName(tt.in)
			if !ok || lang.Code != tt.code {
				t.Errorf("ByName(%q) = %v, %v, want code %q", tt.in, lang, ok, tt.code)
			}
		}
	})

	t.Run("MapNameToCode passes unknown names through", func(t *testing.T) {
		if got := c.MapNameToCode("ENGLISH"); got != "en" {
			t.Errorf("MapNameToCode(ENGLISH) = %q, want en", got)
		}
		if got := c.MapNameToCode("Chinese simplified"); got != "zh-CN" {
			t.Errorf("MapNameToCode(Chinese simplified) = %q, want zh-CN", got)
		}
		if got := c.MapNameToCode("Klingon"); got != "Klingon" {
			t.Errorf("MapNameToCode(Klingon) = %q, want pass-through", got)
		}
	})

	t.Run("DisplayName and FileNameForCode", func(t *testing.T) {
		if got := c.DisplayName("zh-CN"); got != "Chinese Simplified" {
			t.Errorf("DisplayName(zh-CN) = %q", got)
		}
		if got := c.DisplayName("xx"); got != "xx" {
			t.Errorf("DisplayName(xx) = %q, want pass-through", got)
		}
		if got := c.FileNameForCode("zh-CN"); got != "Chinese_Simplified" {
			t.Errorf("FileNameForCode(zh-CN) = %q", got)
		}
	})

	t.Run("IsValidCode", func(t *testing.T) {
		if !c.IsValidCode("id") {
			t.Error("IsValidCode(id) = false")
		}
		if c.IsValidCode("xx") {
			t.Error("IsValidCode(xx) = true")
		}
	})
}

func TestFileName(t *testing.T) {
	l := Language{Code: "zh-CN", Name: "Chinese Simplified"}
	if got := l.FileName(); got != "Chinese_Simplified" {
		t.Errorf("FileName() = %q, want Chinese_Simplified", got)
	}
}

// Package language defines the catalog of languages the editor can work
// with. The catalog maps between the three identifier forms that appear at
// different layers of the application:
//
//   - locale-style codes ("en", "zh-CN") used as keys in multi-language
//     translation maps and in export filenames
//   - display names ("English", "Chinese Simplified") used as CSV column
//     headers
//   - native names ("Bahasa Indonesia", "简体中文") shown in the UI and
//     accepted as column-header aliases
//
// The catalog is configuration, not a hard-coded constant: the default set
// has four entries, but any list of languages can be supplied at startup.
// The first entry is always the default/primary language.
package language

import (
	"fmt"
	"strings"

	xlang "golang.org/x/text/language"
)

// Language describes one supported language.
type Language struct {
	Code       string `json:"code"`       // locale-style identifier, e.g. "en", "zh-CN"
	Name       string `json:"name"`       // display name, e.g. "Chinese Simplified"
	NativeName string `json:"nativeName"` // name in the language itself
}

// FileName returns the display name in file-safe form: spaces replaced
// with underscores ("Chinese Simplified" -> "Chinese_Simplified").
func (l Language) FileName() string {
	return strings.ReplaceAll(l.Name, " ", "_")
}

// defaultLanguages is the built-in catalog used when no configuration
// overrides it. The first entry is the default language.
var defaultLanguages = []Language{
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "id", Name: "Indonesian", NativeName: "Bahasa Indonesia"},
	{Code: "zh-CN", Name: "Chinese Simplified", NativeName: "简体中文"},
	{Code: "zh-TW", Name: "Chinese Traditional", NativeName: "繁體中文"},
}

// Catalog is an ordered, immutable set of supported languages.
// Index 0 is the default language.
type Catalog struct {
	languages []Language
}

// NewCatalog builds a catalog from the given languages. Codes are
// canonicalized via BCP 47 parsing ("zh-cn" becomes "zh-CN") and must be
// unique; names must be non-empty.
func NewCatalog(languages []Language) (*Catalog, error) {
	if len(languages) == 0 {
		return nil, fmt.Errorf("language catalog must contain at least one language")
	}

	seen := make(map[string]bool, len(languages))
	canonical := make([]Language, 0, len(languages))

	for _, l := range languages {
		tag, err := xlang.Parse(l.Code)
		if err != nil {
			return nil, fmt.Errorf("invalid language code %q: %w", l.Code, err)
		}
		l.Code = tag.String()

		if l.Name == "" {
			return nil, fmt.Errorf("language %q has no display name", l.Code)
		}
		if l.NativeName == "" {
			l.NativeName = l.Name
		}
		if seen[l.Code] {
			return nil, fmt.Errorf("duplicate language code %q", l.Code)
		}
		seen[l.Code] = true

		canonical = append(canonical, l)
	}

	return &Catalog{languages: canonical}, nil
}

// DefaultCatalog returns the built-in four-language catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultLanguages)
	if err != nil {
		// The built-in list is validated by tests; failure here is a bug.
		panic(fmt.Sprintf("built-in language catalog invalid: %v", err))
	}
	return c
}

// FromSpec parses a catalog specification of the form
// "code:Name:NativeName;code:Name:NativeName". The native name may be
// omitted ("code:Name"). An empty spec yields the default catalog.
func FromSpec(spec string) (*Catalog, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return DefaultCatalog(), nil
	}

	var languages []Language
	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid language entry %q: want code:Name[:NativeName]", entry)
		}
		l := Language{
			Code: strings.TrimSpace(parts[0]),
			Name: strings.TrimSpace(parts[1]),
		}
		if len(parts) == 3 {
			l.NativeName = strings.TrimSpace(parts[2])
		}
		languages = append(languages, l)
	}

	return NewCatalog(languages)
}

// Languages returns a copy of the catalog entries in order.
func (c *Catalog) Languages() []Language {
	out := make([]Language, len(c.languages))
	copy(out, c.languages)
	return out
}

// Len returns the number of languages in the catalog.
func (c *Catalog) Len() int {
	return len(c.languages)
}

// Default returns the default language (the catalog's first entry).
func (c *Catalog) Default() Language {
	return c.languages[0]
}

// ByCode looks up a language by its exact code.
func (c *Catalog) ByCode(code string) (Language, bool) {
	for _, l := range c.languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// ByName looks up a language by display name or native name.
// Matching is case-insensitive and whitespace-tolerant.
func (c *Catalog) ByName(name string) (Language, bool) {
	name = strings.TrimSpace(name)
	for _, l := range c.languages {
		if strings.EqualFold(l.Name, name) || strings.EqualFold(l.NativeName, name) {
			return l, true
		}
	}
	return Language{}, false
}

// MapNameToCode translates a display name to its language code.
// Unknown names pass through unchanged so that CSV columns for languages
// outside the catalog keep a stable identifier.
func (c *Catalog) MapNameToCode(name string) string {
	if l, ok := c.ByName(name); ok {
		return l.Code
	}
	return name
}

// DisplayName returns the display name for a code, or the code itself when
// the catalog does not contain it.
func (c *Catalog) DisplayName(code string) string {
	if l, ok := c.ByCode(code); ok {
		return l.Name
	}
	return code
}

// FileNameForCode returns the file-safe display name for a code
// ("zh-CN" -> "Chinese_Simplified"). Unknown codes pass through unchanged.
func (c *Catalog) FileNameForCode(code string) string {
	if l, ok := c.ByCode(code); ok {
		return l.FileName()
	}
	return code
}

// IsValidCode reports whether the code belongs to the catalog.
func (c *Catalog) IsValidCode(code string) bool {
	_, ok := c.ByCode(code)
	return ok
}

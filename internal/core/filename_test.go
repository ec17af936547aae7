package core

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sagsagg/translation-tools/internal/language"
)

func testFilenameValidator(t *testing.T) *FilenameValidator {
	t.Helper()
	return NewFilenameValidator(language.DefaultCatalog())
}

func TestValidateFilename(t *testing.T) {
	v := testFilenameValidator(t)

	tests := []struct {
		name      string
		filename  string
		wantValid bool
		wantCode  string
		wantError string
	}{
		{
			name:      "english",
			filename:  "translations_English.json",
			wantValid: true,
			wantCode:  "en",
		},
		{
			name:      "underscored display name",
			filename:  "translations_Chinese_Simplified.json",
			wantValid: true,
			wantCode:  "zh-CN",
		},
		{
			name:      "uppercase extension",
			filename:  "translations_English.JSON",
			wantValid: true,
			wantCode:  "en",
		},
		{
			name:      "missing prefix",
			filename:  "my-app.json",
			wantValid: false,
			wantError: `Filename must start with "translations_"`,
		},
		{
			name:      "unknown language part",
			filename:  "translations_Klingon.json",
			wantValid: false,
			wantError: `Invalid language name "Klingon". Must be one of the supported language names.`,
		},
		{
			name:      "space instead of underscore",
			filename:  "translations_Chinese Simplified.json",
			wantValid: false,
			wantError: `Invalid language name "Chinese Simplified". Must be one of the supported language names.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.filename)
			if got.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if got.LanguageCode != tt.wantCode {
				t.Errorf("LanguageCode = %q, want %q", got.LanguageCode, tt.wantCode)
			}
			if tt.wantError != "" {
				if got.Error != tt.wantError {
					t.Errorf("Error = %q, want %q", got.Error, tt.wantError)
				}
				if len(got.ExpectedFilenames) == 0 {
					t.Error("rejection carries no expected filenames")
				}
			}
		})
	}
}

func TestValidateFilenameWithFallback(t *testing.T) {
	v := testFilenameValidator(t)

	t.Run("conforming name needs no fallback", func(t *testing.T) {
		got := v.ValidateWithFallback("translations_Indonesian.json", true)
		if !got.Valid || got.FallbackApplied {
			t.Errorf("result = %+v, want valid without fallback", got)
		}
		if got.LanguageCode != "id" {
			t.Errorf("LanguageCode = %q, want id", got.LanguageCode)
		}
	})

	t.Run("nonconforming name falls back to the default language", func(t *testing.T) {
		got := v.ValidateWithFallback("my-app.json", true)
		if !got.Valid {
			t.Fatalf("result = %+v, want valid via fallback", got)
		}
		if !got.FallbackApplied {
			t.Error("FallbackApplied = false, want true")
		}
		if got.LanguageCode != "en" {
			t.Errorf("LanguageCode = %q, want en", got.LanguageCode)
		}
		if !strings.Contains(got.WarningMessage, `"my-app.json"`) {
			t.Errorf("warning %q does not name the file", got.WarningMessage)
		}
		if !strings.Contains(got.WarningMessage, "processed as English") {
			t.Errorf("warning %q does not announce the fallback language", got.WarningMessage)
		}
		if !strings.Contains(got.WarningMessage, "translations_English.json") {
			t.Errorf("warning %q does not list expected names", got.WarningMessage)
		}
	})

	t.Run("fallback disabled keeps the strict rejection", func(t *testing.T) {
		got := v.ValidateWithFallback("my-app.json", false)
		if got.Valid {
			t.Errorf("result = %+v, want invalid", got)
		}
	})
}

func TestExpectedFilenames(t *testing.T) {
	v := testFilenameValidator(t)

	want := []string{
		"translations_English.json",
		"translations_Indonesian.json",
		"translations_Chinese_Simplified.json",
		"translations_Chinese_Traditional.json",
	}
	if got := v.ExpectedFilenames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ExpectedFilenames() = %v, want %v", got, want)
	}
}

func TestValidateBatch(t *testing.T) {
	v := testFilenameValidator(t)

	batch := v.ValidateBatch([]string{
		"translations_English.json",
		"translations_Indonesian.json",
		"translations_English.json",
		"data.csv",
		"translations_Klingon.json",
	})

	wantValid := []string{"translations_English.json", "translations_Indonesian.json"}
	if !reflect.DeepEqual(batch.Valid, wantValid) {
		t.Errorf("Valid = %v, want %v", batch.Valid, wantValid)
	}
	if !reflect.DeepEqual(batch.DuplicateLanguages, []string{"en"}) {
		t.Errorf("DuplicateLanguages = %v, want [en]", batch.DuplicateLanguages)
	}
	if len(batch.Invalid) != 3 {
		t.Fatalf("len(Invalid) = %d, want 3", len(batch.Invalid))
	}

	errorsByFile := make(map[string]string)
	for _, inv := range batch.Invalid {
		errorsByFile[inv.Filename] = inv.Error
	}
	if got := errorsByFile["data.csv"]; got != "Only JSON files are allowed for multiple upload" {
		t.Errorf("csv error = %q", got)
	}
	if got := errorsByFile["translations_English.json"]; got != "Duplicate language: English. Only one file per language is allowed." {
		t.Errorf("duplicate error = %q", got)
	}
}

func TestSplitUploadSet(t *testing.T) {
	tests := []struct {
		name       string
		filenames  []string
		wantCSV    int
		wantJSON   int
		wantErrors []string
	}{
		{
			name:      "json only",
			filenames: []string{"translations_English.json", "translations_Indonesian.json"},
			wantJSON:  2,
		},
		{
			name:      "single csv",
			filenames: []string{"data.csv"},
			wantCSV:   1,
		},
		{
			name:       "multiple csv",
			filenames:  []string{"a.csv", "b.csv"},
			wantCSV:    2,
			wantErrors: []string{"Only one CSV file is allowed per upload"},
		},
		{
			name:      "mixed csv and json",
			filenames: []string{"data.csv", "translations_English.json"},
			wantCSV:   1,
			wantJSON:  1,
			wantErrors: []string{
				"Cannot upload CSV and JSON files together. Please upload them separately.",
			},
		},
		{
			name:       "unsupported type",
			filenames:  []string{"readme.txt"},
			wantErrors: []string{"Unsupported file type: readme.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := SplitUploadSet(tt.filenames)
			if len(set.CSVFiles) != tt.wantCSV {
				t.Errorf("len(CSVFiles) = %d, want %d", len(set.CSVFiles), tt.wantCSV)
			}
			if len(set.JSONFiles) != tt.wantJSON {
				t.Errorf("len(JSONFiles) = %d, want %d", len(set.JSONFiles), tt.wantJSON)
			}
			if !reflect.DeepEqual(set.Errors, tt.wantErrors) {
				t.Errorf("Errors = %v, want %v", set.Errors, tt.wantErrors)
			}
		})
	}
}

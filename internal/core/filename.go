package core

// filename.go enforces the upload filename convention.
//
// JSON uploads are expected to be named translations_{Language_Name}.json,
// where the language part is the catalog display name with spaces replaced
// by underscores (translations_English.json, translations_Chinese_Simplified.json).
// Strict validation rejects anything else; the fallback variant accepts a
// nonconforming name as the default language and attaches a warning, which
// keeps single-file uploads forgiving while batches stay strict.

import (
	"fmt"
	"strings"

	"github.com/sagsagg/translation-tools/internal/language"
)

const filenamePrefix = "translations_"

// FilenameValidation is the outcome of checking one filename.
type FilenameValidation struct {
	Valid             bool               `json:"isValid"`
	LanguageCode      string             `json:"languageCode,omitempty"`
	Language          *language.Language `json:"language,omitempty"`
	Error             string             `json:"error,omitempty"`
	ExpectedFilenames []string           `json:"expectedFilenames,omitempty"`
	FallbackApplied   bool               `json:"fallbackApplied,omitempty"`
	WarningMessage    string             `json:"warningMessage,omitempty"`
}

// InvalidFile pairs a rejected filename with the reason.
type InvalidFile struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BatchValidation is the outcome of checking a set of JSON filenames
// together.
type BatchValidation struct {
	Valid              []string      `json:"valid"`
	Invalid            []InvalidFile `json:"invalid"`
	DuplicateLanguages []string      `json:"duplicateLanguages"`
}

// UploadSet partitions a mixed upload by file format.
type UploadSet struct {
	CSVFiles  []string `json:"csvFiles"`
	JSONFiles []string `json:"jsonFiles"`
	Errors    []string `json:"errors"`
}

// FilenameValidator checks upload filenames against a language catalog.
type FilenameValidator struct {
	catalog *language.Catalog
}

// NewFilenameValidator returns a validator bound to the given catalog.
func NewFilenameValidator(catalog *language.Catalog) *FilenameValidator {
	return &FilenameValidator{catalog: catalog}
}

// Validate applies the strict naming convention. On success the result
// carries the resolved language; on failure it carries the reason and the
// full list of acceptable filenames.
func (v *FilenameValidator) Validate(filename string) FilenameValidation {
	name := trimJSONExt(filename)

	if !strings.HasPrefix(name, filenamePrefix) {
		return FilenameValidation{
			Error:             `Filename must start with "translations_"`,
			ExpectedFilenames: v.ExpectedFilenames(),
		}
	}

	languagePart := strings.TrimPrefix(name, filenamePrefix)

	for _, lang := range v.catalog.Languages() {
		if lang.FileName() == languagePart {
			matched := lang
			return FilenameValidation{
				Valid:        true,
				LanguageCode: matched.Code,
				Language:     &matched,
			}
		}
	}

	return FilenameValidation{
		Error:             fmt.Sprintf("Invalid language name %q. Must be one of the supported language names.", languagePart),
		ExpectedFilenames: v.ExpectedFilenames(),
	}
}

// ValidateWithFallback tries the strict convention first; when that fails
// and fallback is allowed, the file is accepted as the catalog's default
// language with a warning pointing at the expected names.
func (v *FilenameValidator) ValidateWithFallback(filename string, allowFallback bool) FilenameValidation {
	strict := v.Validate(filename)
	if strict.Valid || !allowFallback {
		return strict
	}

	fallback := v.catalog.Default()
	warning := fmt.Sprintf(
		"Filename %q doesn't follow the expected naming convention. File processed as %s translations. For better organization, use: %s",
		filename, fallback.Name, strings.Join(v.ExpectedFilenames(), ", "),
	)

	return FilenameValidation{
		Valid:           true,
		LanguageCode:    fallback.Code,
		Language:        &fallback,
		FallbackApplied: true,
		WarningMessage:  warning,
	}
}

// ExpectedFilenames lists the conforming filename for every catalog
// language, in catalog order.
func (v *FilenameValidator) ExpectedFilenames() []string {
	languages := v.catalog.Languages()
	names := make([]string, 0, len(languages))
	for _, lang := range languages {
		names = append(names, filenamePrefix+lang.FileName()+".json")
	}
	return names
}

// ValidateBatch checks a set of filenames for a multi-file JSON upload:
// every file must be JSON, pass the strict convention, and carry a
// language no earlier file in the set already claimed.
func (v *FilenameValidator) ValidateBatch(filenames []string) BatchValidation {
	batch := BatchValidation{}
	seen := make(map[string]bool)

	for _, filename := range filenames {
		if !isJSONFile(filename) {
			batch.Invalid = append(batch.Invalid, InvalidFile{
				Filename: filename,
				Error:    "Only JSON files are allowed for multiple upload",
			})
			continue
		}

		validation := v.Validate(filename)
		if !validation.Valid {
			batch.Invalid = append(batch.Invalid, InvalidFile{
				Filename: filename,
				Error:    validation.Error,
			})
			continue
		}

		if seen[validation.LanguageCode] {
			batch.DuplicateLanguages = append(batch.DuplicateLanguages, validation.LanguageCode)
			batch.Invalid = append(batch.Invalid, InvalidFile{
				Filename: filename,
				Error:    fmt.Sprintf("Duplicate language: %s. Only one file per language is allowed.", validation.Language.Name),
			})
			continue
		}

		seen[validation.LanguageCode] = true
		batch.Valid = append(batch.Valid, filename)
	}

	return batch
}

// SplitUploadSet partitions filenames into CSV and JSON groups and flags
// the combinations an upload cannot contain: unknown extensions, more than
// one CSV file, or CSV mixed with JSON.
func SplitUploadSet(filenames []string) UploadSet {
	set := UploadSet{}

	for _, filename := range filenames {
		switch {
		case isCSVFile(filename):
			set.CSVFiles = append(set.CSVFiles, filename)
		case isJSONFile(filename):
			set.JSONFiles = append(set.JSONFiles, filename)
		default:
			set.Errors = append(set.Errors, fmt.Sprintf("Unsupported file type: %s", filename))
		}
	}

	if len(set.CSVFiles) > 1 {
		set.Errors = append(set.Errors, "Only one CSV file is allowed per upload")
	}
	if len(set.CSVFiles) > 0 && len(set.JSONFiles) > 0 {
		set.Errors = append(set.Errors, "Cannot upload CSV and JSON files together. Please upload them separately.")
	}

	return set
}

func isJSONFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

func isCSVFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}

func trimJSONExt(filename string) string {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".json") {
		return filename[:len(filename)-len(".json")]
	}
	return filename
}

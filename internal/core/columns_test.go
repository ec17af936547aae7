package core

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/sagsagg/translation-tools/internal/language"
)

func mustLang(t *testing.T, code string) language.Language {
	t.Helper()
	lang, ok := language.DefaultCatalog().ByCode(code)
	if !ok {
		t.Fatalf("code %q not in default catalog", code)
	}
	return lang
}

func twoColumnTable() *Table {
	return &Table{
		Headers: []string{"Key", "English"},
		Rows: []Row{
			{"Key": "app.title", "English": "My App"},
			{"Key": "app.save", "English": "Save"},
		},
	}
}

func TestAddLanguageColumn(t *testing.T) {
	table := twoColumnTable()
	id := mustLang(t, "id")

	got := AddLanguageColumn(table, id, TranslationMap{"app.title": "Aplikasi"})

	wantHeaders := []string{"Key", "English", "Indonesian"}
	if !reflect.DeepEqual(got.Headers, wantHeaders) {
		t.Errorf("Headers = %v, want %v", got.Headers, wantHeaders)
	}
	if got.Rows[0]["Indonesian"] != "Aplikasi" {
		t.Errorf("seeded cell = %q, want %q", got.Rows[0]["Indonesian"], "Aplikasi")
	}
	if got.Rows[1]["Indonesian"] != "" {
		t.Errorf("unseeded cell = %q, want empty string", got.Rows[1]["Indonesian"])
	}

	// Input untouched.
	if len(table.Headers) != 2 {
		t.Error("AddLanguageColumn mutated its input")
	}
	if err := ValidateTableShape(got); err != nil {
		t.Errorf("ValidateTableShape() = %v, want nil", err)
	}
}

func TestAddLanguageColumnIdempotent(t *testing.T) {
	table := twoColumnTable()
	id := mustLang(t, "id")

	once := AddLanguageColumn(table, id, nil)
	twice := AddLanguageColumn(once, id, nil)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("adding twice differs from adding once:\n%v\n%v", once, twice)
	}
}

func TestAddLanguageColumnEmptyTable(t *testing.T) {
	table := &Table{Headers: []string{"Key", "English"}}
	got := AddLanguageColumn(table, mustLang(t, "id"), nil)
	if !got.HasHeader("Indonesian") {
		t.Error("zero-row table did not gain the header")
	}
}

func TestRemoveLanguageColumn(t *testing.T) {
	table := &Table{
		Headers: []string{"Key", "English", "Indonesian"},
		Rows: []Row{
			{"Key": "app.title", "English": "My App", "Indonesian": "Aplikasi"},
		},
	}

	got := RemoveLanguageColumn(table, "Indonesian")

	if got.HasHeader("Indonesian") {
		t.Error("removed column still present in headers")
	}
	if _, ok := got.Rows[0]["Indonesian"]; ok {
		t.Error("removed column still present in rows")
	}
	if len(table.Headers) != 3 {
		t.Error("RemoveLanguageColumn mutated its input")
	}
	if err := ValidateTableShape(got); err != nil {
		t.Errorf("ValidateTableShape() = %v, want nil", err)
	}
}

func TestRemoveLanguageColumnNoOps(t *testing.T) {
	table := twoColumnTable()

	t.Run("key column is protected", func(t *testing.T) {
		got := RemoveLanguageColumn(table, "Key")
		if !reflect.DeepEqual(got, table) {
			t.Error("removing the key column changed the table")
		}
	})

	t.Run("absent column", func(t *testing.T) {
		got := RemoveLanguageColumn(table, "French")
		if !reflect.DeepEqual(got, table) {
			t.Error("removing an absent column changed the table")
		}
	})

	t.Run("nil table", func(t *testing.T) {
		if got := RemoveLanguageColumn(nil, "English"); got != nil {
			t.Errorf("RemoveLanguageColumn(nil) = %v, want nil", got)
		}
	})
}

func TestTableShapeSurvivesOperationSequence(t *testing.T) {
	table := twoColumnTable()

	table = AddLanguageColumn(table, mustLang(t, "id"), TranslationMap{"app.title": "Aplikasi"})
	table = AddLanguageColumn(table, mustLang(t, "zh-CN"), nil)

	table, result := EditInTable(table, EditRequest{
		OriginalKey: "app.save",
		NewKey:      "app.store",
		NewValue:    "Store",
		Language:    "English",
	})
	if !result.Success {
		t.Fatalf("edit failed: %s", result.Error)
	}

	table, del := DeleteFromTable(table, DeleteRequest{Key: "app.title"})
	if !del.Success {
		t.Fatalf("delete failed: %s", del.Error)
	}

	table = RemoveLanguageColumn(table, "Chinese Simplified")

	if err := ValidateTableShape(table); err != nil {
		t.Errorf("shape invariant broken after operation sequence: %v", err)
	}
	wantHeaders := []string{"Key", "English", "Indonesian"}
	if !reflect.DeepEqual(table.Headers, wantHeaders) {
		t.Errorf("Headers = %v, want %v", table.Headers, wantHeaders)
	}
	if len(table.Rows) != 1 || table.Rows[0].Key() != "app.store" {
		t.Errorf("rows = %v", table.Rows)
	}
}

func TestTableShapeSurvivesRandomOperationSequence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	table := twoColumnTable()
	langs := []language.Language{mustLang(t, "id"), mustLang(t, "zh-CN"), mustLang(t, "zh-TW")}
	columns := []string{"English", "Indonesian", "Chinese Simplified", "Chinese Traditional"}
	keys := []string{"app.title", "app.save", "nav.home", "nav.back"}

	for i := 0; i < 250; i++ {
		switch rng.Intn(5) {
		case 0:
			table = AddLanguageColumn(table, langs[rng.Intn(len(langs))], nil)
		case 1:
			table = RemoveLanguageColumn(table, columns[rng.Intn(len(columns))])
		case 2:
			// Failed edits (missing key) must leave the shape intact too.
			key := keys[rng.Intn(len(keys))]
			table, _ = EditInTable(table, EditRequest{OriginalKey: key, NewKey: key, NewValue: "edited"})
		case 3:
			table, _ = DeleteFromTable(table, DeleteRequest{Key: keys[rng.Intn(len(keys))]})
		default:
			table = MergeTables(table, twoColumnTable())
		}

		if err := ValidateTableShape(table); err != nil {
			t.Fatalf("step %d: shape invariant broken: %v", i, err)
		}
	}
}

func TestValidateTableShape(t *testing.T) {
	tests := []struct {
		name    string
		table   *Table
		wantErr bool
	}{
		{
			name:  "nil table",
			table: nil,
		},
		{
			name:  "valid",
			table: twoColumnTable(),
		},
		{
			name: "duplicate header",
			table: &Table{
				Headers: []string{"Key", "English", "English"},
			},
			wantErr: true,
		},
		{
			name: "row missing a header",
			table: &Table{
				Headers: []string{"Key", "English"},
				Rows:    []Row{{"Key": "a"}},
			},
			wantErr: true,
		},
		{
			name: "row with stray cell",
			table: &Table{
				Headers: []string{"Key", "English"},
				Rows:    []Row{{"Key": "a", "English": "b", "French": "c"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableShape(tt.table)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTableShape() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

package inventory

import (
	"testing"

	"github.com/01moynul/inventario-golang/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name  string
		value string
		mode  CaseMode
		trim  bool
		want  string
	}{
		{"empty", "", CaseUpper, true, ""},
		{"unchanged keeps spaces", "  Fam-1 ", CaseUnchanged, false, "  Fam-1 "},
		{"trim only", "  Fam-1 ", CaseUnchanged, true, "Fam-1"},
		{"upper", " fam-1", CaseUpper, true, "FAM-1"},
		{"lower without trim", " FAM-1", CaseLower, false, " fam-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.value, tt.mode, tt.trim))
		})
	}
}

func TestParseCaseMode(t *testing.T) {
	for in, want := range map[string]CaseMode{
		"":           CaseUnchanged,
		"upper":      CaseUpper,
		"Mayúsculas": CaseUpper,
		"LOWER":      CaseLower,
		"Minúsculas": CaseLower,
		"Sin cambio": CaseUnchanged,
	} {
		got, ok := ParseCaseMode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseCaseMode("title")
	assert.False(t, ok)
}

func TestHasDuplicate_CaseAndWhitespace(t *testing.T) {
	records := []models.Record{
		{ID: "I-0001", Description: "Shampoo 500ml", Location: "Almacén A"},
		{ID: "I-0002", Description: "Jabón", Location: "Almacén A"},
		{ID: "I-0003", Description: "  SHAMPOO 500ML ", Location: "almacén a"},
	}

	assert.True(t, HasDuplicate(records))
	assert.False(t, HasDuplicate(records[:2]))
}

func TestHasDuplicate_OrderIndependent(t *testing.T) {
	a := models.Record{ID: "I-0001", Description: "Tornillo", Location: "Estante 3"}
	b := models.Record{ID: "I-0002", Description: "Tuerca", Location: "Estante 3"}
	c := models.Record{ID: "I-0003", Description: "tornillo ", Location: " ESTANTE 3"}

	perms := [][]models.Record{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}
	for _, p := range perms {
		assert.True(t, HasDuplicate(p))
	}
	assert.False(t, HasDuplicate([]models.Record{b, a}))
	assert.False(t, HasDuplicate([]models.Record{a, b}))
}

func TestHasDuplicate_SameDescriptionDifferentLocation(t *testing.T) {
	records := []models.Record{
		{ID: "I-0001", Description: "Tornillo", Location: "Estante 1"},
		{ID: "I-0002", Description: "Tornillo", Location: "Estante 2"},
	}

	assert.False(t, HasDuplicate(records))
}

func TestHasDuplicate_CustomFields(t *testing.T) {
	records := []models.Record{
		{ID: "I-0001", Unit: "pz"},
		{ID: "I-0002", Unit: "PZ"},
	}
	byUnit := func(r models.Record) string { return r.Unit }

	assert.True(t, HasDuplicate(records, byUnit))
}

func TestFindDuplicates(t *testing.T) {
	records := []models.Record{
		{ID: "I-0001", Description: "A", Location: "X"},
		{ID: "I-0002", Description: "B", Location: "X"},
		{ID: "I-0003", Description: "a", Location: "x"},
		{ID: "I-0004", Description: "B ", Location: "x"},
		{ID: "I-0005", Description: "C", Location: "X"},
	}

	assert.Equal(t, [][]string{{"I-0001", "I-0003"}, {"I-0002", "I-0004"}}, FindDuplicates(records))
	assert.Empty(t, FindDuplicates(records[:2]))
}

func TestHasDuplicate_ControlCharactersDoNotMergeFields(t *testing.T) {
	records := []models.Record{
		{ID: "I-0001", Description: "a\x1fb", Location: ""},
		{ID: "I-0002", Description: "a", Location: "b\x1f"},
		{ID: "I-0003", Description: "a\x1f", Location: "b"},
	}

	assert.False(t, HasDuplicate(records))
	assert.Empty(t, FindDuplicates(records))
}

package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata(t *testing.T) {
	meta := ExtractMetadata("Emisión 02/26 Del 26 de enero 2026 al 22 de febrero 2026")
	require.NotNil(t, meta)
	assert.Equal(t, ValidityMetadata{
		IssuanceCode: "02/26",
		IssuanceDate: "26-ENE-2026",
		ValidFrom:    "26-ENE-2026",
		ValidTo:      "22-FEB-2026",
	}, *meta)
}

func TestExtractMetadata_LastMatchWins(t *testing.T) {
	text := "Emisión 01/26 Del 1 de enero 2026 al 25 de enero 2026\n" +
		"1 MEX 0600 LAX 1030 1 260126 220226\n" +
		"EMISION 02/26 DEL 26 DE ENERO 2026 AL 22 DE FEBRERO 2026\n"

	meta := ExtractMetadata(text)
	require.NotNil(t, meta)
	assert.Equal(t, "02/26", meta.IssuanceCode)
	assert.Equal(t, "26-ENE-2026", meta.ValidFrom)
	assert.Equal(t, "22-FEB-2026", meta.ValidTo)
}

func TestExtractMetadata_Variants(t *testing.T) {
	tests := []struct {
		name string
		text string
		from string
		to   string
	}{
		{"single digit day padded", "Emision 09/26 Del 1 de septiembre 2026 al 3 de octubre 2026", "01-SEP-2026", "03-OCT-2026"},
		{"setiembre", "Emisión 09/26 Del 7 de setiembre 2026 al 30 de noviembre 2026", "07-SEP-2026", "30-NOV-2026"},
		{"year end", "Emisión 12/26 Del 15 de diciembre 2026 al 10 de enero 2027", "15-DIC-2026", "10-ENE-2027"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := ExtractMetadata(tt.text)
			require.NotNil(t, meta)
			assert.Equal(t, tt.from, meta.ValidFrom)
			assert.Equal(t, tt.from, meta.IssuanceDate)
			assert.Equal(t, tt.to, meta.ValidTo)
		})
	}
}

func TestExtractMetadata_Absent(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no footer", "1 MEX 0600 LAX 1030 1 260126 220226"},
		{"unknown month", "Emisión 02/26 Del 26 de janvier 2026 al 22 de febrero 2026"},
		{"day out of range", "Emisión 02/26 Del 32 de enero 2026 al 22 de febrero 2026"},
		{"bad issuance month", "Emisión 13/26 Del 26 de enero 2026 al 22 de febrero 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ExtractMetadata(tt.text))
		})
	}
}

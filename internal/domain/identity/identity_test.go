package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/remisiones-api/internal/domain/identity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Detect clasifica el número digitado por longitud: 8 dígitos es DNI, 11 es
// RUC, todo lo demás es ambiguo y conserva el tipo actual. El override manual
// del selector siempre gana. Se invoca en cada pulsación, así que además de
// correcta tiene que ser idempotente.
// ──────────────────────────────────────────────────────────────────────────────

func TestDetect_PorLongitud(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		current identity.Kind
		want    identity.Kind
	}{
		{"ocho dígitos es DNI", "12345678", "", identity.KindDNI},
		{"once dígitos es RUC", "12345678901", "", identity.KindRUC},
		{"ocho dígitos con separadores sigue siendo DNI", "12-345.678", "", identity.KindDNI},
		{"longitud intermedia conserva el tipo actual", "123456789", identity.KindDNI, identity.KindDNI},
		{"longitud intermedia sin tipo previo queda sin tipo", "123456789", "", identity.Kind("")},
		{"quince caracteres alfanuméricos no se adivinan", "ABC123456789012", identity.KindCE, identity.KindCE},
		{"vacío conserva el tipo actual", "", identity.KindRUC, identity.KindRUC},
		{"cambiar de 8 a 11 dígitos reclasifica a RUC", "12345678901", identity.KindDNI, identity.KindRUC},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := identity.Detect(tc.raw, tc.current, false)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetect_OverrideManualGana(t *testing.T) {
	// El usuario eligió explícitamente "carné de extranjería" para un número de
	// 8 dígitos: la autodetección no debe pelear con esa decisión, sin importar
	// cuántas veces se re-invoque ni cómo cambie el número.
	for _, raw := range []string{"12345678", "12345678901", "X", ""} {
		got := identity.Detect(raw, identity.KindCE, true)
		assert.Equal(t, identity.KindCE, got, "con override activo el tipo nunca cambia (raw=%q)", raw)
	}
}

func TestDetect_Idempotente(t *testing.T) {
	first := identity.Detect("12345678", "", false)
	second := identity.Detect("12345678", first, false)
	assert.Equal(t, first, second)
}

func TestDocumentValidate_TablaDeLongitudes(t *testing.T) {
	cases := []struct {
		name   string
		doc    identity.Document
		wantOK bool
	}{
		{"DNI de 8 válido", identity.Document{Kind: identity.KindDNI, Number: "12345678"}, true},
		{"DNI de 7 inválido", identity.Document{Kind: identity.KindDNI, Number: "1234567"}, false},
		{"RUC de 11 válido", identity.Document{Kind: identity.KindRUC, Number: "20123456789"}, true},
		{"RUC de 8 inválido", identity.Document{Kind: identity.KindRUC, Number: "12345678"}, false},
		{"CE de 12 válido", identity.Document{Kind: identity.KindCE, Number: "CE1234567890"}, true},
		{"pasaporte de 15 válido", identity.Document{Kind: identity.KindPasaporte, Number: "ABC123456789012"}, true},
		{"pasaporte de 16 inválido", identity.Document{Kind: identity.KindPasaporte, Number: "ABC1234567890123"}, false},
		{"CE de 11 inválido", identity.Document{Kind: identity.KindCE, Number: "CE123456789"}, false},
		{"sin tipo es inválido", identity.Document{Number: "12345678"}, false},
		{"tipo desconocido es inválido", identity.Document{Kind: "Z", Number: "12345678"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.doc.Validate()
			if tc.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err, "una longitud fuera de tabla es error de validación, nunca panic")
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "12345678", identity.Canonical(" 12-345.678 ", identity.KindDNI))
	assert.Equal(t, "20123456789", identity.Canonical("20 123 456 789", identity.KindRUC))
	assert.Equal(t, "AB-123", identity.Canonical("  ab-123 ", identity.KindPasaporte),
		"los documentos no numéricos se recortan y llevan a mayúsculas, sin quitar separadores")
}

func TestKind_Resolvable(t *testing.T) {
	assert.True(t, identity.KindDNI.Resolvable())
	assert.True(t, identity.KindRUC.Resolvable())
	assert.False(t, identity.KindCE.Resolvable())
	assert.False(t, identity.KindPasaporte.Resolvable())
	assert.False(t, identity.KindRefugio.Resolvable())
}

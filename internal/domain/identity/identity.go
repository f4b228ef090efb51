// Package identity modela el tipo y número de documento de identidad de una parte
// (remitente, destinatario, conductor, transportista) según el catálogo 06 de SUNAT.
// Solo clasificación y validación puras; las consultas a RENIEC/SUNAT viven en infraestructura.
package identity

import (
	"fmt"
	"strings"
)

// Kind es el tipo de documento de identidad (códigos del catálogo 06 de SUNAT).
type Kind string

const (
	KindDNI       Kind = "1" // DNI — persona natural, 8 dígitos
	KindCE        Kind = "4" // Carné de extranjería
	KindRUC       Kind = "6" // RUC — persona jurídica o natural con negocio, 11 dígitos
	KindPasaporte Kind = "7" // Pasaporte
	KindCedulaDip Kind = "A" // Cédula diplomática de identidad
	KindRefugio   Kind = "9" // Carné de solicitante de refugio
)

// descripciones legibles por tipo (para mensajes y respuestas).
var descriptions = map[Kind]string{
	KindDNI:       "DNI",
	KindCE:        "Carné de extranjería",
	KindRUC:       "RUC",
	KindPasaporte: "Pasaporte",
	KindCedulaDip: "Cédula diplomática",
	KindRefugio:   "Carné de refugio",
}

// Description devuelve el nombre legible del tipo de documento.
func (k Kind) Description() string {
	if d, ok := descriptions[k]; ok {
		return d
	}
	return string(k)
}

// Known indica si el tipo pertenece al catálogo soportado.
func (k Kind) Known() bool {
	_, ok := descriptions[k]
	return ok
}

// Resolvable indica si el tipo se puede consultar contra un padrón externo:
// DNI contra RENIEC y RUC contra el padrón de SUNAT. El resto de tipos
// (documentos extranjeros) siempre se completan manualmente.
func (k Kind) Resolvable() bool {
	return k == KindDNI || k == KindRUC
}

// LengthRange devuelve la longitud mínima y máxima admitida para el número
// según el tipo. DNI y RUC tienen longitud exacta; los documentos extranjeros
// aceptan entre 12 y 15 caracteres y no se distinguen entre sí por longitud.
func (k Kind) LengthRange() (min, max int) {
	switch k {
	case KindDNI:
		return 8, 8
	case KindRUC:
		return 11, 11
	default:
		return 12, 15
	}
}

// Document es el documento de identidad de una parte: tipo + número.
// Es la clave natural de deduplicación dentro de un padrón de sesión.
type Document struct {
	Kind   Kind   `json:"kind"`
	Number string `json:"number"`
}

// Key devuelve la clave canónica "tipo:número" para deduplicar.
func (d Document) Key() string {
	return string(d.Kind) + ":" + d.Number
}

// IsZero indica si el documento está vacío (sin tipo ni número).
func (d Document) IsZero() bool {
	return d.Kind == "" && d.Number == ""
}

// Validate comprueba que la longitud del número corresponde al tipo.
// Una longitud fuera de rango es un error de validación, nunca un panic.
func (d Document) Validate() error {
	if d.Kind == "" {
		return fmt.Errorf("tipo de documento no especificado")
	}
	if !d.Kind.Known() {
		return fmt.Errorf("tipo de documento desconocido: %q", d.Kind)
	}
	min, max := d.Kind.LengthRange()
	n := len(d.Number)
	if n < min || n > max {
		if min == max {
			return fmt.Errorf("%s debe tener %d caracteres, tiene %d", d.Kind.Description(), min, n)
		}
		return fmt.Errorf("%s debe tener entre %d y %d caracteres, tiene %d", d.Kind.Description(), min, max, n)
	}
	return nil
}

// Detect infiere el tipo de documento a partir del número digitado.
//
// Si el usuario eligió el tipo explícitamente en el selector (manualOverride),
// la elección se respeta sin importar la cantidad de dígitos: un CE de 8
// dígitos no debe "pelear" con la autodetección en cada pulsación.
//
// Sin override: se ignoran los caracteres no numéricos y se clasifica por
// longitud — 8 dígitos es DNI, 11 es RUC. Cualquier otra longitud es ambigua
// (varios tipos extranjeros comparten el rango 12–15) y se conserva el tipo
// actual sin adivinar.
//
// Pura e idempotente: segura de invocar en cada pulsación de tecla.
func Detect(raw string, current Kind, manualOverride bool) Kind {
	if manualOverride {
		return current
	}
	switch len(digitsOnly(raw)) {
	case 8:
		return KindDNI
	case 11:
		return KindRUC
	default:
		return current
	}
}

// Canonical normaliza el número digitado a su forma canónica según el tipo:
// para DNI y RUC solo dígitos (se toleran espacios y guiones al digitar);
// para el resto, el texto recortado en mayúsculas tal cual lo exige el documento.
func Canonical(raw string, k Kind) string {
	if k == KindDNI || k == KindRUC {
		return digitsOnly(raw)
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

// digitsOnly elimina todo carácter que no sea dígito decimal ASCII.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

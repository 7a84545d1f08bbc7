// Package search implementa la búsqueda por subcadena sin distinguir mayúsculas,
// usada por las vistas de operaciones e inventario.
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Matcher compara una consulta contra varios campos de texto.
// El valor cero coincide con todo.
type Matcher struct {
	folded string
}

// NewMatcher prepara la consulta q (se recortan espacios y se pliega a minúsculas Unicode).
func NewMatcher(q string) Matcher {
	return Matcher{folded: Fold(strings.TrimSpace(q))}
}

// Empty indica si la consulta está vacía.
func (m Matcher) Empty() bool { return m.folded == "" }

// Match es verdadero si algún campo contiene la consulta.
func (m Matcher) Match(fields ...string) bool {
	if m.folded == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), m.folded) {
			return true
		}
	}
	return false
}

// Fold aplica case folding Unicode (ß, Σ, etc. se comparan correctamente).
func Fold(s string) string {
	// cases.Caser no es seguro para uso concurrente: uno por llamada.
	return cases.Fold().String(s)
}

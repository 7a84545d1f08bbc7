package excel

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/almacen-api/internal/domain/oplog"
	"github.com/jhoicas/almacen-api/internal/domain/search"
)

// aliases nombres de encabezado aceptados por columna, además de la clave.
var aliases = map[oplog.Field][]string{
	oplog.FieldSubmittedAt:   {"submitted at", "提交时间", "fecha de registro", "registrado el"},
	oplog.FieldItemID:        {"item id", "id", "编号", "código", "codigo"},
	oplog.FieldItemName:      {"item name", "name", "名称", "nombre", "artículo", "articulo"},
	oplog.FieldOperationKind: {"operation kind", "kind", "type", "操作类型", "tipo", "operación", "operacion"},
	oplog.FieldOrganization:  {"organisation", "所属组织", "organización", "organizacion"},
	oplog.FieldQuantity:      {"qty", "数量", "cantidad"},
	oplog.FieldEffectiveTime: {"effective time", "操作时间", "入库日期", "fecha", "date"},
	oplog.FieldOperator:      {"操作人", "operador", "responsable"},
	oplog.FieldSubmitter:     {"提交人", "registrador"},
}

// requiredColumns sin estas columnas la hoja no se puede importar.
var requiredColumns = []oplog.Field{oplog.FieldItemID, oplog.FieldOperationKind, oplog.FieldQuantity}

// annotation texto entre paréntesis (ASCII o de ancho completo), p. ej. "入库日期(YYYY-MM-DD)".
var annotation = regexp.MustCompile(`\([^)]*\)|（[^）]*）`)

func normalizeHeader(h string) string {
	h = annotation.ReplaceAllString(h, "")
	h = strings.NewReplacer("_", " ", "-", " ").Replace(h)
	return search.Fold(strings.Join(strings.Fields(h), " "))
}

// score qué tan bien el encabezado h (normalizado) nombra la columna: 3 exacto, 2 contiene
// un nombre, 0 nada. Los nombres ASCII cortos ("id") solo cuentan si coinciden exactos.
func score(h string, field oplog.Field) int {
	if h == "" {
		return 0
	}
	best := 0
	names := append([]string{string(field)}, aliases[field]...)
	for _, n := range names {
		n = normalizeHeader(n)
		switch {
		case h == n || strings.ReplaceAll(h, " ", "") == strings.ReplaceAll(n, " ", ""):
			return 3
		case strings.Contains(h, n) && (utf8.RuneCountInString(n) >= 3 || !isASCII(n)):
			best = 2
		}
	}
	return best
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// matchColumns asigna a cada columna conocida el índice de encabezado que mejor la nombra.
// Primero se asignan las coincidencias exactas; un encabezado sirve a una sola columna.
func matchColumns(header []string) map[oplog.Field]int {
	type candidate struct {
		score int
		field int
		col   int
	}
	fields := oplog.Fields()
	var cands []candidate
	for c, raw := range header {
		h := normalizeHeader(raw)
		for fi, f := range fields {
			if s := score(h, f); s > 0 {
				cands = append(cands, candidate{score: s, field: fi, col: c})
			}
		}
	}
	slices.SortFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.col, b.col); c != 0 {
			return c
		}
		return cmp.Compare(a.field, b.field)
	})

	out := make(map[oplog.Field]int, len(fields))
	usedCol := make(map[int]bool, len(header))
	for _, c := range cands {
		f := fields[c.field]
		if _, done := out[f]; done || usedCol[c.col] {
			continue
		}
		out[f] = c.col
		usedCol[c.col] = true
	}
	return out
}

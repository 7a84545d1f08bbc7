// Package oplog mantiene el historial ordenado de operaciones de inventario.
// Es de solo anexado: ningún registro se modifica ni se elimina.
package oplog

import (
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/search"
	"github.com/jhoicas/almacen-api/pkg/validator"
)

func init() {
	validator.RegisterValidation("effective_time", func(v string) bool {
		_, err := time.Parse(entity.EffectiveTimeLayout, v)
		return err == nil
	})
	validator.RegisterValidation("operation_kind", func(v string) bool {
		return entity.OperationKind(v).Valid()
	})
}

// Predicate filtro sobre registros del log.
type Predicate func(entity.Operation) bool

// Log secuencia de operaciones, la más antigua primero.
type Log struct {
	ops   []entity.Operation
	now   func() time.Time
	newID func() string
}

// Option configura un Log.
type Option func(*Log)

// WithClock fija el reloj usado para SubmittedAt.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithIDGenerator fija el generador de IDs de operación.
func WithIDGenerator(newID func() string) Option {
	return func(l *Log) { l.newID = newID }
}

// New construye un log vacío.
func New(opts ...Option) *Log {
	l := &Log{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Validate normaliza y valida in sin anexarlo. Devuelve *domain.ValidationError con el primer campo inválido.
func (l *Log) Validate(in entity.Operation) (entity.Operation, error) {
	op := normalize(in)
	if errs := validator.ValidateStruct(op); len(errs) > 0 {
		return entity.Operation{}, domain.NewValidationError(errs[0].Field, reason(errs[0].Tag))
	}
	return op, nil
}

// Append valida in, asigna ID y SubmittedAt y lo agrega al final.
// Si la validación falla no se guarda nada. No toca la proyección de inventario.
func (l *Log) Append(in entity.Operation) (entity.Operation, error) {
	op, err := l.Validate(in)
	if err != nil {
		return entity.Operation{}, err
	}
	op.ID = l.newID()
	op.SubmittedAt = l.now()
	l.ops = append(l.ops, op)
	return op, nil
}

// All devuelve una copia de la secuencia completa en orden de anexado.
func (l *Log) All() []entity.Operation {
	out := make([]entity.Operation, len(l.ops))
	copy(out, l.ops)
	return out
}

// Len cantidad de registros.
func (l *Log) Len() int { return len(l.ops) }

// Query devuelve una secuencia perezosa de los registros que cumplen pred (nil = todos).
// La secuencia se puede recorrer varias veces; cubre los registros existentes al llamar Query.
func (l *Log) Query(pred Predicate) iter.Seq[entity.Operation] {
	ops := l.ops
	return func(yield func(entity.Operation) bool) {
		for _, op := range ops {
			if pred != nil && !pred(op) {
				continue
			}
			if !yield(op) {
				return
			}
		}
	}
}

// MatchText predicado de búsqueda sin distinguir mayúsculas sobre todos los campos de texto.
func MatchText(q string) Predicate {
	m := search.NewMatcher(q)
	if m.Empty() {
		return nil
	}
	return func(op entity.Operation) bool {
		return m.Match(
			op.ItemID, op.ItemName, op.Organization, string(op.Kind),
			strconv.Itoa(op.Quantity), op.EffectiveTime, op.Operator, op.Submitter,
			op.SubmittedAt.Format("2006-01-02 15:04:05"),
		)
	}
}

// Clone copia independiente (mismo reloj y generador de IDs).
func (l *Log) Clone() *Log {
	return &Log{ops: l.All(), now: l.now, newID: l.newID}
}

// Restore reemplaza el contenido con registros ya persistidos, sin revalidar ni reasignar tiempos.
// Solo se usa al cargar desde almacenamiento.
func (l *Log) Restore(ops []entity.Operation) {
	l.ops = make([]entity.Operation, len(ops))
	copy(l.ops, ops)
}

func normalize(in entity.Operation) entity.Operation {
	op := in
	op.ItemID = strings.TrimSpace(op.ItemID)
	op.ItemName = strings.TrimSpace(op.ItemName)
	op.Organization = strings.TrimSpace(op.Organization)
	op.Kind = entity.OperationKind(strings.TrimSpace(string(op.Kind)))
	op.EffectiveTime = strings.TrimSpace(op.EffectiveTime)
	op.Operator = strings.TrimSpace(op.Operator)
	op.Submitter = strings.TrimSpace(op.Submitter)
	return op
}

func reason(tag string) string {
	switch tag {
	case "required":
		return "es obligatorio"
	case "gt":
		return "debe ser mayor que 0"
	case "effective_time":
		return "formato esperado YYYY-MM-DD HH:MM"
	case "operation_kind":
		return "tipo de operación desconocido"
	default:
		return "valor inválido"
	}
}

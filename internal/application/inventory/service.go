package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/oplog"
	"github.com/jhoicas/almacen-api/internal/domain/projection"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// MigrationActor operador y registrador de las entradas sintetizadas al migrar
// un inventario que no tenía log.
const MigrationActor = "migración"

// Service coordina el log de operaciones, la proyección de inventario y su persistencia.
// El núcleo (oplog, projection) no tiene bloqueos: el Service serializa todas las llamadas.
type Service struct {
	mu       sync.Mutex
	log      *oplog.Log
	proj     *projection.Projection
	settings entity.Settings

	opsRepo      repository.OperationLogRepository
	invRepo      repository.InventoryRepository
	settingsRepo repository.SettingsRepository
	metrics      Metrics
	logger       *logger.Logger

	logOpts  []oplog.Option
	defaults entity.Settings
	now      func() time.Time
}

// Option configura el Service.
type Option func(*Service)

// WithLogOptions opciones para el log en memoria (reloj, IDs).
func WithLogOptions(opts ...oplog.Option) Option {
	return func(s *Service) { s.logOpts = append(s.logOpts, opts...) }
}

// WithDefaultSettings listas usadas cuando no hay configuración guardada.
func WithDefaultSettings(def entity.Settings) Option {
	return func(s *Service) { s.defaults = def }
}

// WithClock reloj para horas efectivas sintetizadas.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService construye el servicio. Llamar Load antes de usarlo.
func NewService(
	opsRepo repository.OperationLogRepository,
	invRepo repository.InventoryRepository,
	settingsRepo repository.SettingsRepository,
	metrics Metrics,
	log *logger.Logger,
	opts ...Option,
) *Service {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		opsRepo:      opsRepo,
		invRepo:      invRepo,
		settingsRepo: settingsRepo,
		metrics:      metrics,
		logger:       log.Named("inventory"),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = oplog.New(s.logOpts...)
	s.proj = projection.New()
	return s
}

// Load lee el log, la proyección y la configuración.
// Si la proyección falta, está corrupta o no coincide con el log, se reconstruye y se guarda.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ops, err := s.opsRepo.LoadOperations(ctx)
	if err != nil {
		return fmt.Errorf("cargar log de operaciones: %w", err)
	}
	l := oplog.New(s.logOpts...)
	l.Restore(ops)

	records, err := s.invRepo.LoadInventory(ctx)
	unavailable := errors.Is(err, repository.ErrProjectionUnavailable)
	if err != nil && !unavailable {
		return fmt.Errorf("cargar inventario: %w", err)
	}
	stored := projection.New()
	stored.Restore(records)

	p, dirtyLog, dirtyProj := s.reconcile(l, stored, unavailable)
	if dirtyLog {
		if err := s.opsRepo.SaveOperations(ctx, l.All()); err != nil {
			return fmt.Errorf("guardar log migrado: %w", err)
		}
	}
	if dirtyProj {
		if err := s.invRepo.SaveInventory(ctx, p.All()); err != nil {
			return fmt.Errorf("guardar inventario reconstruido: %w", err)
		}
	}

	settings, err := s.settingsRepo.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	if settings == nil {
		settings = &s.defaults
	}

	s.log, s.proj, s.settings = l, p, cloneSettings(*settings)
	s.metrics.InventorySize(p.Len())
	s.logger.Info().
		Int("operations", l.Len()).
		Int("items", p.Len()).
		Msg("inventario cargado")
	return nil
}

// reconcile decide la proyección a usar al cargar. Devuelve qué documentos hay que reescribir.
func (s *Service) reconcile(l *oplog.Log, stored *projection.Projection, unavailable bool) (*projection.Projection, bool, bool) {
	// Inventario heredado sin log: se sintetiza una entrada por artículo para que
	// la proyección vuelva a ser derivable del log.
	if l.Len() == 0 && stored.Len() > 0 {
		for _, rec := range sortedRecords(stored) {
			if _, err := l.Append(s.seedOperation(rec)); err != nil {
				s.logger.Warn().Err(err).Str("item_id", rec.ItemID).Msg("artículo heredado omitido")
			}
		}
		rebuilt, _ := s.rebuildKeepingNotes(l, stored)
		s.logger.Warn().Int("items", rebuilt.Len()).Msg("inventario sin log: entradas sintetizadas")
		return rebuilt, true, true
	}

	rebuilt, _ := s.rebuildKeepingNotes(l, stored)
	if unavailable {
		s.logger.Warn().Msg("proyección no disponible: reconstruida desde el log")
		return rebuilt, false, true
	}
	if !sameStock(stored, rebuilt) {
		s.logger.Warn().
			Int("stored_items", stored.Len()).
			Int("rebuilt_items", rebuilt.Len()).
			Msg("proyección guardada no coincide con el log: reconstruida")
		return rebuilt, false, true
	}
	return stored, false, false
}

func (s *Service) seedOperation(rec entity.InventoryRecord) entity.Operation {
	when := rec.LastOperationTime
	if when == "" {
		when = s.now().Format(entity.EffectiveTimeLayout)
	}
	name := rec.ItemName
	if name == "" {
		name = rec.ItemID
	}
	return entity.Operation{
		ItemID:        rec.ItemID,
		ItemName:      name,
		Organization:  rec.Organization,
		Kind:          entity.KindStockIn,
		Quantity:      rec.Quantity,
		EffectiveTime: when,
		Operator:      MigrationActor,
		Submitter:     MigrationActor,
	}
}

// rebuildKeepingNotes reconstruye desde el log conservando las notas de los artículos que siguen con stock.
func (s *Service) rebuildKeepingNotes(l *oplog.Log, previous *projection.Projection) (*projection.Projection, projection.RebuildReport) {
	p := projection.New()
	report := p.Rebuild(l.All())
	for _, sk := range report.Skipped {
		s.logger.Warn().
			Int("position", sk.Position).
			Str("operation_id", sk.Operation.ID).
			Str("item_id", sk.Operation.ItemID).
			Str("reason", sk.Reason).
			Msg("operación histórica omitida")
	}
	for _, rec := range previous.All() {
		if rec.Note != "" && p.Has(rec.ItemID) {
			_ = p.SetNote(rec.ItemID, rec.Note)
		}
	}
	s.metrics.RebuildCompleted(report.Applied, len(report.Skipped))
	return p, report
}

// Record valida, anexa y aplica una operación, y persiste ambos documentos.
// Una operación que la proyección rechazaría no se anexa. Si la persistencia falla
// el estado en memoria no cambia.
func (s *Service) Record(ctx context.Context, in dto.RecordOperationRequest, submitter string) (*dto.RecordOperationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := s.fromRequest(in, submitter)
	nextLog, nextProj := s.log.Clone(), s.proj.Clone()

	op, err := s.appendChecked(nextLog, nextProj, candidate)
	if err != nil {
		s.metrics.OperationRejected(ErrorCode(err))
		s.logger.Debug().Err(err).Str("item_id", candidate.ItemID).Str("kind", string(candidate.Kind)).Msg("operación rechazada")
		return nil, err
	}
	if err := s.persist(ctx, nextLog, nextProj); err != nil {
		return nil, err
	}
	s.log, s.proj = nextLog, nextProj

	s.metrics.OperationRecorded(op.Kind)
	s.metrics.InventorySize(s.proj.Len())
	s.logger.Info().
		Str("operation_id", op.ID).
		Str("item_id", op.ItemID).
		Str("kind", string(op.Kind)).
		Int("quantity", op.Quantity).
		Str("operator", op.Operator).
		Str("submitter", op.Submitter).
		Msg("operación registrada")

	resp := &dto.RecordOperationResponse{Operation: toOperationResponse(op)}
	if rec, err := s.proj.Get(op.ItemID); err == nil {
		item := toInventoryResponse(rec)
		resp.Item = &item
	}
	return resp, nil
}

// appendChecked valida y verifica contra la proyección antes de anexar, y luego aplica.
func (s *Service) appendChecked(l *oplog.Log, p *projection.Projection, in entity.Operation) (entity.Operation, error) {
	op, err := l.Validate(in)
	if err != nil {
		return entity.Operation{}, err
	}
	if err := p.Check(op); err != nil {
		return entity.Operation{}, err
	}
	op, err = l.Append(op)
	if err != nil {
		return entity.Operation{}, err
	}
	if err := p.ApplyIncremental(op); err != nil {
		// Check ya aceptó la operación sobre este mismo estado.
		return entity.Operation{}, fmt.Errorf("aplicar %s: %w", op.ID, err)
	}
	return op, nil
}

// fromRequest arma la operación a partir del body.
func (s *Service) fromRequest(in dto.RecordOperationRequest, submitter string) entity.Operation {
	op := entity.Operation{
		ItemID:        strings.TrimSpace(in.ItemID),
		ItemName:      in.ItemName,
		Organization:  in.Organization,
		Kind:          entity.OperationKind(strings.TrimSpace(in.Kind)),
		Quantity:      in.Quantity,
		EffectiveTime: in.EffectiveTime,
		Operator:      in.Operator,
		Submitter:     submitter,
	}
	return fillFromStock(op, s.proj)
}

// fillFromStock completa nombre y organización omitidos con los del artículo en stock.
// No aplica a StockIn: una entrada siempre trae sus propios datos.
func fillFromStock(op entity.Operation, p *projection.Projection) entity.Operation {
	if op.Kind == entity.KindStockIn {
		return op
	}
	rec, err := p.Get(op.ItemID)
	if err != nil {
		return op
	}
	if strings.TrimSpace(op.ItemName) == "" {
		op.ItemName = rec.ItemName
	}
	if strings.TrimSpace(op.Organization) == "" {
		op.Organization = rec.Organization
	}
	return op
}

// persist guarda primero el log y luego la proyección. Ambos adaptadores escriben de forma atómica.
// Si la proyección falla y el log se puede reescribir, se restaura el log anterior y se devuelve
// el error. En un log de solo inserción la operación ya es durable: se acepta el estado nuevo y
// la proyección se vuelve a escribir en el siguiente guardado (Load reconcilia de todos modos).
func (s *Service) persist(ctx context.Context, l *oplog.Log, p *projection.Projection) error {
	if err := s.opsRepo.SaveOperations(ctx, l.All()); err != nil {
		s.logger.Error().Err(err).Msg("guardar log de operaciones")
		return fmt.Errorf("guardar log de operaciones: %w", err)
	}
	if err := s.invRepo.SaveInventory(ctx, p.All()); err != nil {
		if appendOnly(s.opsRepo) {
			s.logger.Warn().Err(err).Msg("guardar inventario: el log ya es durable, se reconciliará")
			return nil
		}
		s.logger.Error().Err(err).Msg("guardar inventario")
		if rerr := s.opsRepo.SaveOperations(ctx, s.log.All()); rerr != nil {
			s.logger.Error().Err(rerr).Msg("restaurar log anterior")
		}
		return fmt.Errorf("guardar inventario: %w", err)
	}
	return nil
}

func appendOnly(r repository.OperationLogRepository) bool {
	ao, ok := r.(repository.AppendOnlyLog)
	return ok && ao.AppendOnly()
}

// Rebuild reconstruye la proyección reproduciendo el log completo y la guarda.
// Las notas de los artículos que siguen con stock se conservan.
func (s *Service) Rebuild(ctx context.Context) (*dto.RebuildResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, report := s.rebuildKeepingNotes(s.log, s.proj)
	if err := s.invRepo.SaveInventory(ctx, p.All()); err != nil {
		return nil, fmt.Errorf("guardar inventario: %w", err)
	}
	s.proj = p

	s.metrics.InventorySize(p.Len())
	s.logger.Info().
		Int("applied", report.Applied).
		Int("skipped", len(report.Skipped)).
		Int("items", p.Len()).
		Msg("proyección reconstruida")

	resp := &dto.RebuildResponse{Applied: report.Applied, Items: p.Len(), Skipped: make([]dto.RebuildSkipped, 0, len(report.Skipped))}
	for _, sk := range report.Skipped {
		resp.Skipped = append(resp.Skipped, dto.RebuildSkipped{
			Position:    sk.Position,
			OperationID: sk.Operation.ID,
			ItemID:      sk.Operation.ItemID,
			Kind:        string(sk.Operation.Kind),
			Reason:      sk.Reason,
		})
	}
	return resp, nil
}

func sameStock(a, b *projection.Projection) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, ra := range a.All() {
		rb, err := b.Get(ra.ItemID)
		if err != nil {
			return false
		}
		// La nota no es derivable del log.
		ra.Note, rb.Note = "", ""
		if ra != rb {
			return false
		}
	}
	return true
}

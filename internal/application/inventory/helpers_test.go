package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/oplog"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacenamiento en memoria con fallos inyectables
// ──────────────────────────────────────────────────────────────────────────────

var errDisk = errors.New("disco lleno")

type memStore struct {
	mu          sync.Mutex
	ops         []entity.Operation
	items       []entity.InventoryRecord
	settings    *entity.Settings
	unavailable bool

	failOps      bool
	failInv      bool
	opsSaves     int
	invSaves     int
	settingsSave int
}

func (m *memStore) LoadOperations(context.Context) ([]entity.Operation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.ops), nil
}

func (m *memStore) SaveOperations(_ context.Context, ops []entity.Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOps {
		return errDisk
	}
	m.opsSaves++
	m.ops = slices.Clone(ops)
	return nil
}

func (m *memStore) LoadInventory(context.Context) ([]entity.InventoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return nil, fmt.Errorf("inventory.json: %w", repository.ErrProjectionUnavailable)
	}
	return slices.Clone(m.items), nil
}

func (m *memStore) SaveInventory(_ context.Context, records []entity.InventoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInv {
		return errDisk
	}
	m.invSaves++
	m.unavailable = false
	m.items = slices.Clone(records)
	return nil
}

func (m *memStore) LoadSettings(context.Context) (*entity.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

func (m *memStore) SaveSettings(_ context.Context, s entity.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settingsSave++
	m.settings = &s
	return nil
}

func (m *memStore) item(id string) (entity.InventoryRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.ItemID == id {
			return r, true
		}
	}
	return entity.InventoryRecord{}, false
}

// insertOnlyLog log que solo inserta las operaciones con id nuevo, como PostgreSQL.
type insertOnlyLog struct {
	store *memStore
}

func (l insertOnlyLog) AppendOnly() bool { return true }

func (l insertOnlyLog) LoadOperations(ctx context.Context) ([]entity.Operation, error) {
	return l.store.LoadOperations(ctx)
}

func (l insertOnlyLog) SaveOperations(_ context.Context, ops []entity.Operation) error {
	m := l.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOps {
		return errDisk
	}
	m.opsSaves++
	for _, op := range ops {
		if !slices.ContainsFunc(m.ops, func(o entity.Operation) bool { return o.ID == op.ID }) {
			m.ops = append(m.ops, op)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas de prueba
// ──────────────────────────────────────────────────────────────────────────────

type countingMetrics struct {
	recorded map[entity.OperationKind]int
	rejected map[string]int
	rebuilds int
	size     int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{recorded: map[entity.OperationKind]int{}, rejected: map[string]int{}}
}

func (c *countingMetrics) OperationRecorded(k entity.OperationKind) { c.recorded[k]++ }
func (c *countingMetrics) OperationRejected(code string)            { c.rejected[code]++ }
func (c *countingMetrics) RebuildCompleted(int, int)                { c.rebuilds++ }
func (c *countingMetrics) InventorySize(n int)                      { c.size = n }

// ──────────────────────────────────────────────────────────────────────────────
// Construcción del servicio
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T, store *memStore, metrics inventory.Metrics) *inventory.Service {
	t.Helper()
	return newServiceWith(t, store, store, metrics, nil)
}

// newServiceWith permite otro repositorio de log y un logger propio.
func newServiceWith(t *testing.T, ops repository.OperationLogRepository, store *memStore, metrics inventory.Metrics, log *logger.Logger) *inventory.Service {
	t.Helper()
	seq := 0
	svc := inventory.NewService(ops, store, store, metrics, log,
		inventory.WithLogOptions(
			oplog.WithClock(func() time.Time { return fixedNow }),
			oplog.WithIDGenerator(func() string {
				seq++
				return fmt.Sprintf("op-%03d", seq)
			}),
		),
		inventory.WithClock(func() time.Time { return fixedNow }),
		inventory.WithDefaultSettings(entity.Settings{
			Organizations: []string{"Taller"},
			Operators:     []string{"ana"},
		}),
	)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func storedOp(id, itemID string, kind entity.OperationKind, qty int) entity.Operation {
	return entity.Operation{
		ID:            id,
		SubmittedAt:   fixedNow,
		ItemID:        itemID,
		ItemName:      "Artículo " + itemID,
		Organization:  "Taller",
		Kind:          kind,
		Quantity:      qty,
		EffectiveTime: "2024-03-01 09:00",
		Operator:      "ana",
		Submitter:     "luis",
	}
}

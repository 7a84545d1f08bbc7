// Package jsonstore persiste el log, la proyección y la configuración en archivos JSON
// dentro de un directorio de datos. Cada escritura va a un archivo temporal en el mismo
// directorio y se renombra sobre el destino, así un fallo nunca deja un archivo a medias.
package jsonstore

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// SchemaVersion versión actual de los documentos.
const SchemaVersion = 2

// Nombres de archivo dentro del directorio de datos.
const (
	OperationsFile = "operations.json"
	InventoryFile  = "inventory.json"
	SettingsFile   = "settings.json"
	// LegacyFile inventario de la herramienta de escritorio anterior (arreglo con claves en chino).
	LegacyFile = "warehouse_data.json"
)

type operationsDoc struct {
	SchemaVersion int                `json:"schema_version"`
	Operations    []entity.Operation `json:"operations"`
}

type inventoryDoc struct {
	SchemaVersion int                               `json:"schema_version"`
	Items         map[string]entity.InventoryRecord `json:"items"`
}

type settingsDoc struct {
	SchemaVersion int      `json:"schema_version"`
	Organizations []string `json:"organizations"`
	Operators     []string `json:"operators"`
}

// Store implementa los tres repositorios sobre archivos.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *logger.Logger
}

var (
	_ repository.OperationLogRepository = (*Store)(nil)
	_ repository.InventoryRepository    = (*Store)(nil)
	_ repository.SettingsRepository     = (*Store)(nil)
)

// New crea el directorio si no existe.
func New(dir string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonstore: crear %s: %w", dir, err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{dir: dir, logger: log.Named("jsonstore")}, nil
}

// Dir directorio de datos.
func (s *Store) Dir() string { return s.dir }

// ── Log de operaciones ────────────────────────────────────────────────────────

// LoadOperations lee el log. Un archivo inexistente es un log vacío; uno ilegible es un error.
func (s *Store) LoadOperations(_ context.Context) ([]entity.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read(OperationsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ops, migrated, err := decodeOperations(data)
	if err != nil {
		return nil, fmt.Errorf("jsonstore: %s: %w", OperationsFile, err)
	}
	if migrated {
		s.logger.Warn().Int("operations", len(ops)).Msg("log en formato anterior migrado")
	}
	return ops, nil
}

// SaveOperations reescribe el log completo.
func (s *Store) SaveOperations(_ context.Context, ops []entity.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ops == nil {
		ops = []entity.Operation{}
	}
	return s.write(OperationsFile, operationsDoc{SchemaVersion: SchemaVersion, Operations: ops})
}

// ── Inventario ────────────────────────────────────────────────────────────────

// LoadInventory lee la proyección. Si no existe se intenta el archivo heredado; si ninguno
// existe o no se puede decodificar devuelve repository.ErrProjectionUnavailable.
func (s *Store) LoadInventory(_ context.Context) ([]entity.InventoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := InventoryFile
	data, err := s.read(name)
	if errors.Is(err, fs.ErrNotExist) {
		name = LegacyFile
		data, err = s.read(name)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("jsonstore: %s: %w", InventoryFile, repository.ErrProjectionUnavailable)
	}
	if err != nil {
		return nil, err
	}
	records, migrated, err := decodeInventory(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", name).Msg("inventario ilegible")
		return nil, fmt.Errorf("jsonstore: %s: %v: %w", name, err, repository.ErrProjectionUnavailable)
	}
	if migrated {
		s.logger.Warn().Str("file", name).Int("items", len(records)).Msg("inventario en formato anterior migrado")
	}
	return records, nil
}

// SaveInventory reemplaza la proyección.
func (s *Store) SaveInventory(_ context.Context, records []entity.InventoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make(map[string]entity.InventoryRecord, len(records))
	for _, r := range records {
		items[r.ItemID] = r
	}
	return s.write(InventoryFile, inventoryDoc{SchemaVersion: SchemaVersion, Items: items})
}

// ── Configuración ─────────────────────────────────────────────────────────────

// LoadSettings devuelve (nil, nil) si no hay configuración guardada.
func (s *Store) LoadSettings(_ context.Context) (*entity.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read(SettingsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc settingsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("jsonstore: %s: %w", SettingsFile, err)
	}
	return &entity.Settings{Organizations: doc.Organizations, Operators: doc.Operators}, nil
}

// SaveSettings reemplaza la configuración.
func (s *Store) SaveSettings(_ context.Context, in entity.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(SettingsFile, settingsDoc{
		SchemaVersion: SchemaVersion,
		Organizations: nonNil(in.Organizations),
		Operators:     nonNil(in.Operators),
	})
}

// ── E/S ───────────────────────────────────────────────────────────────────────

func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("jsonstore: leer %s: %w", name, err)
	}
	return data, err
}

// write codifica v y lo escribe de forma atómica: temporal + fsync + rename.
func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: codificar %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonstore: crear temporal para %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// Si el rename ya ocurrió el temporal no existe y Remove falla en silencio.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonstore: escribir %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonstore: sincronizar %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonstore: cerrar %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("jsonstore: reemplazar %s: %w", name, err)
	}
	return nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// sortedRecords registros del mapa ordenados por ID, para una carga determinista.
func sortedRecords(items map[string]entity.InventoryRecord) []entity.InventoryRecord {
	out := make([]entity.InventoryRecord, 0, len(items))
	for id, r := range items {
		if r.ItemID == "" {
			r.ItemID = id
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b entity.InventoryRecord) int { return cmp.Compare(a.ItemID, b.ItemID) })
	return out
}

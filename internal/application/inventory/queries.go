package inventory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/oplog"
	"github.com/jhoicas/almacen-api/internal/domain/projection"
)

// maxSuggestedID límite del generador de IDs de dos dígitos.
const maxSuggestedID = 99

// GetItem devuelve el stock actual de un artículo.
func (s *Service) GetItem(itemID string) (*dto.InventoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.proj.Get(strings.TrimSpace(itemID))
	if err != nil {
		return nil, err
	}
	out := toInventoryResponse(rec)
	return &out, nil
}

// ListInventory filtra por q y ordena por sort (por defecto itemId).
func (s *Service) ListInventory(q dto.ListQuery) (*dto.InventoryListResponse, error) {
	field := projection.FieldItemID
	if strings.TrimSpace(q.Sort) != "" {
		f, err := projection.ParseField(q.Sort)
		if err != nil {
			return nil, err
		}
		field = f
	}

	s.mu.Lock()
	records := s.proj.All()
	s.mu.Unlock()

	records = projection.Filter(records, q.Q)
	projection.Sort(records, field, q.Desc)

	out := &dto.InventoryListResponse{Total: len(records), Items: make([]dto.InventoryResponse, 0, len(records))}
	for _, rec := range records {
		out.Items = append(out.Items, toInventoryResponse(rec))
	}
	return out, nil
}

// ListOperations filtra el log por q. Sin sort devuelve el orden de anexado.
func (s *Service) ListOperations(q dto.ListQuery) (*dto.OperationListResponse, error) {
	var field oplog.Field
	if strings.TrimSpace(q.Sort) != "" {
		f, err := oplog.ParseField(q.Sort)
		if err != nil {
			return nil, err
		}
		field = f
	}

	match := oplog.MatchText(q.Q)
	s.mu.Lock()
	var ops []entity.Operation
	if field != "" {
		for _, op := range s.log.SortedBy(field, q.Desc) {
			if match == nil || match(op) {
				ops = append(ops, op)
			}
		}
	} else {
		ops = slices.Collect(s.log.Query(match))
		if q.Desc {
			slices.Reverse(ops)
		}
	}
	s.mu.Unlock()

	out := &dto.OperationListResponse{Operations: make([]dto.OperationResponse, 0, len(ops))}
	for _, op := range ops {
		out.Operations = append(out.Operations, toOperationResponse(op))
	}
	out.Total = len(out.Operations)
	return out, nil
}

// NextItemID primer ID libre de dos dígitos ("01".."99") entre los artículos con stock.
func (s *Service) NextItemID() (*dto.NextItemIDResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for n := 1; n <= maxSuggestedID; n++ {
		id := fmt.Sprintf("%02d", n)
		if !s.proj.Has(id) {
			return &dto.NextItemIDResponse{ItemID: id}, nil
		}
	}
	return nil, fmt.Errorf("no quedan IDs de dos dígitos libres: %w", domain.ErrConflict)
}

// SetNote cambia la nota de un artículo con stock y guarda la proyección.
func (s *Service) SetNote(ctx context.Context, itemID, note string) (*dto.InventoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.proj.Clone()
	id := strings.TrimSpace(itemID)
	if err := next.SetNote(id, strings.TrimSpace(note)); err != nil {
		return nil, err
	}
	if err := s.invRepo.SaveInventory(ctx, next.All()); err != nil {
		return nil, fmt.Errorf("guardar inventario: %w", err)
	}
	s.proj = next

	rec, _ := s.proj.Get(id)
	out := toInventoryResponse(rec)
	return &out, nil
}

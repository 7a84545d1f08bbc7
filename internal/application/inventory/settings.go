package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/validator"
)

// Settings listas de autocompletado actuales.
func (s *Service) Settings() dto.SettingsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toSettingsResponse(s.settings)
}

// UpdateSettings reemplaza las listas. Los valores se recortan y se eliminan duplicados;
// un valor vacío rechaza toda la actualización.
func (s *Service) UpdateSettings(ctx context.Context, in dto.UpdateSettingsRequest) (dto.SettingsResponse, error) {
	next := entity.Settings{
		Organizations: uniqueTrimmed(in.Organizations),
		Operators:     uniqueTrimmed(in.Operators),
	}
	if errs := validator.ValidateStruct(next); len(errs) > 0 {
		return dto.SettingsResponse{}, domain.NewValidationError(errs[0].Field, "contiene un valor vacío")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.settingsRepo.SaveSettings(ctx, next); err != nil {
		return dto.SettingsResponse{}, fmt.Errorf("guardar configuración: %w", err)
	}
	s.settings = next
	s.logger.Info().
		Int("organizations", len(next.Organizations)).
		Int("operators", len(next.Operators)).
		Msg("configuración actualizada")
	return toSettingsResponse(next), nil
}

// uniqueTrimmed descarta repetidos conservando el orden.
func uniqueTrimmed(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

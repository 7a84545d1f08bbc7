// Package badges genera los carteles de nombre plegables (un nombre por hoja A4).
package badges

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// MaxNames límite de nombres por documento.
const MaxNames = 500

// Generator puerto de salida: renderiza los carteles y devuelve el PDF.
type Generator interface {
	GenerateBadges(ctx context.Context, names []string) ([]byte, error)
}

// UseCase limpia la lista de nombres y delega el render.
type UseCase struct {
	generator Generator
	logger    *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(generator Generator, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{generator: generator, logger: log.Named("badges")}
}

// Generate devuelve el PDF con un cartel por nombre no vacío, en el orden recibido.
func (uc *UseCase) Generate(ctx context.Context, names []string) ([]byte, error) {
	clean := Clean(names)
	if len(clean) == 0 {
		return nil, domain.NewValidationError("names", "debe incluir al menos un nombre")
	}
	if len(clean) > MaxNames {
		return nil, domain.NewValidationError("names", fmt.Sprintf("máximo %d nombres por documento", MaxNames))
	}
	pdf, err := uc.generator.GenerateBadges(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("generar carteles: %w", err)
	}
	uc.logger.Info().Int("names", len(clean)).Int("bytes", len(pdf)).Msg("carteles generados")
	return pdf, nil
}

// Clean recorta los nombres y descarta líneas vacías.
func Clean(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ParseList separa un texto en nombres: uno por línea o separados por espacios.
func ParseList(text string) []string {
	if strings.Contains(text, "\n") {
		return Clean(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
	}
	return Clean(strings.Fields(text))
}

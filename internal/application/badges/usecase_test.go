package badges_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/badges"
	"github.com/jhoicas/almacen-api/internal/domain"
)

type fakeGenerator struct {
	names []string
	err   error
}

func (f *fakeGenerator) GenerateBadges(_ context.Context, names []string) ([]byte, error) {
	f.names = names
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3"), nil
}

func TestGenerate_LimpiaNombres(t *testing.T) {
	gen := &fakeGenerator{}
	uc := badges.NewUseCase(gen, nil)

	pdf, err := uc.Generate(context.Background(), []string{"  Ana ", "", "李明", "\t"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "李明"}, gen.names)
	assert.Equal(t, "%PDF-1.3", string(pdf))
}

func TestGenerate_SinNombres(t *testing.T) {
	uc := badges.NewUseCase(&fakeGenerator{}, nil)
	_, err := uc.Generate(context.Background(), []string{" "})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "names", domain.FieldOf(err))
}

func TestGenerate_ErrorDelGenerador(t *testing.T) {
	boom := errors.New("fuente inválida")
	uc := badges.NewUseCase(&fakeGenerator{err: boom}, nil)
	_, err := uc.Generate(context.Background(), []string{"Ana"})
	assert.ErrorIs(t, err, boom)
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"Ana María", "Luis"}, badges.ParseList("Ana María\r\n\nLuis\n"))
	assert.Equal(t, []string{"Ana", "Luis"}, badges.ParseList(" Ana  Luis "))
}

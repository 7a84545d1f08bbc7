// badges genera el PDF de carteles de nombre plegables, una hoja por nombre.
//
// Uso: go run ./cmd/badges [nombres.txt] [-o salida.pdf]
// Sin archivo lee los nombres de la entrada estándar: uno por línea, o separados por espacios en una sola línea.
// Por defecto escribe OUTPUT_DIR/carteles.pdf.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jhoicas/almacen-api/internal/application/badges"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	out := flag.String("o", filepath.Join(cfg.Storage.OutputDir, "carteles.pdf"), "archivo PDF de salida")
	flag.Parse()

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	var src io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal().Err(err).Msg("abrir lista de nombres")
		}
		defer f.Close()
		src = f
	}
	text, err := io.ReadAll(src)
	if err != nil {
		log.Fatal().Err(err).Msg("leer nombres")
	}

	gen, err := infrapdf.NewMarotoPDFGenerator(cfg.PDF.FontPath)
	if err != nil {
		log.Fatal().Err(err).Msg("generador PDF")
	}
	pdf, err := badges.NewUseCase(gen, log).Generate(context.Background(), badges.ParseList(string(text)))
	if err != nil {
		log.Fatal().Err(err).Msg("generar carteles")
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatal().Err(err).Msg("crear directorio de salida")
	}
	if err := os.WriteFile(*out, pdf, 0o644); err != nil {
		log.Fatal().Err(err).Msg("escribir PDF")
	}
	fmt.Println(*out)
}

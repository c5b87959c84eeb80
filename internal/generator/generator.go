// Package generator runs one conversion end to end: read the workbook,
// build the catalog and receipt datasets, serialize them and write the
// output files. A run either writes everything or nothing.
package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nconklindev/barcoder/internal/config"
	"github.com/nconklindev/barcoder/internal/converter"
	"github.com/nconklindev/barcoder/internal/export"
	"github.com/nconklindev/barcoder/internal/storage"
	"github.com/nconklindev/barcoder/internal/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Request struct {
	File    string
	Barcode string
}

type Generator struct {
	cfg *config.Config
	log zerolog.Logger
	now func() time.Time
}

func New(cfg *config.Config, log zerolog.Logger) *Generator {
	return &Generator{cfg: cfg, log: log, now: time.Now}
}

// Run performs a single conversion. Progress values between 0 and 1 are
// sent on progress without blocking; progress may be nil.
func (g *Generator) Run(ctx context.Context, req Request, progress chan<- float64) (*types.ConversionResult, error) {
	runID := uuid.New().String()
	log := g.log.With().Str("run_id", runID).Str("file", req.File).Logger()

	report := func(p float64) {
		if progress != nil {
			select {
			case progress <- p:
			default:
			}
		}
	}

	result, err := g.run(ctx, req, log, report)
	if err != nil {
		log.Error().Err(err).Msg("generation failed")
		return nil, err
	}
	result.RunID = runID

	log.Info().
		Int("rows_read", result.RowsRead).
		Int("rows_processed", result.RowsProcessed).
		Str("first_barcode", result.FirstBarcode).
		Str("last_barcode", result.LastBarcode).
		Strs("outputs", result.OutputFiles).
		Msg("generation complete")
	return result, nil
}

func (g *Generator) run(ctx context.Context, req Request, log zerolog.Logger, report func(float64)) (*types.ConversionResult, error) {
	if strings.TrimSpace(req.File) == "" {
		return nil, converter.ErrMissingFile
	}
	start, err := converter.ValidateBarcode(req.Barcode)
	if err != nil {
		return nil, err
	}

	format, err := export.ParseFormat(g.cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	exporter, err := export.NewExporter(format, g.cfg.Output.Encoding)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("barcode", start).Str("exporter", exporter.Name()).Msg("reading workbook")
	data, err := converter.ReadFile(req.File)
	if err != nil {
		return nil, err
	}
	report(0.2)

	rows, err := converter.ParseRows(data, req.File, converter.ReadOptions{HeaderRows: g.cfg.Input.HeaderRows})
	if err != nil {
		return nil, err
	}
	report(0.4)

	res, err := converter.Transform(rows, start, converter.Options{
		CoerceNumbers: g.cfg.Transform.CoerceNumbers,
		StrictColumns: g.cfg.Transform.StrictColumns,
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Int("rows", len(rows)).Int("products", len(res.Catalog)).Msg("rows transformed")
	report(0.6)

	artifacts, err := exporter.Export(res)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if g.cfg.Output.Zip {
		archive, err := export.Bundle(artifacts, g.cfg.Output.ArchivePrefix, g.now())
		if err != nil {
			return nil, err
		}
		artifacts = []export.Artifact{archive}
	}
	report(0.8)

	store, err := storage.NewLocal(g.cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	paths, err := store.PutAll(ctx, artifacts)
	if err != nil {
		return nil, err
	}
	report(1)

	result := &types.ConversionResult{
		InputFile:     filepath.Clean(req.File),
		OutputFiles:   paths,
		RowsRead:      len(rows),
		RowsProcessed: len(res.Catalog),
	}
	if n := len(res.Catalog); n > 0 {
		result.FirstBarcode = res.Catalog[0].Barcode
		result.LastBarcode = res.Catalog[n-1].Barcode
	}
	return result, nil
}

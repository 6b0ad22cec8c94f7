package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"slideforge/database"
	"slideforge/export"

	"github.com/google/uuid"
)

// ErrExportNotAllowed is returned when the active plan lacks an export
// format. Like a missing document, it surfaces before rendering starts.
var ErrExportNotAllowed = errors.New("export not allowed for current plan")

// ExportManager defines the export orchestration interface.
type ExportManager interface {
	ExportDocument(ctx context.Context, documentID string, formatName string) (*export.ExportResult, error)
	ExportDocumentToFile(ctx context.Context, documentID string, formatName string, outputDir string) (string, error)
	ExportAllFormats(ctx context.Context, documentID string, outputDir string) ([]string, error)
}

// ExportFacadeService wires the document store, the entitlement gate and
// the export engine together. Lookup and entitlement failures surface
// before any rendering work happens; once rendering starts the pipeline
// runs to completion without external interaction.
type ExportFacadeService struct {
	store        *database.DocumentStore
	entitlements *EntitlementStore
	exporter     *export.Exporter
	plan         string
	logger       func(string)
}

// NewExportFacadeService creates a new export facade.
func NewExportFacadeService(store *database.DocumentStore, entitlements *EntitlementStore, plan string, logger func(string)) *ExportFacadeService {
	if logger == nil {
		logger = func(string) {}
	}
	return &ExportFacadeService{
		store:        store,
		entitlements: entitlements,
		exporter:     export.NewExporter(),
		plan:         plan,
		logger:       logger,
	}
}

// ExportDocument runs one export: lookup, entitlement gate, then exactly
// one renderer. Each request gets a correlation id for the log.
func (s *ExportFacadeService) ExportDocument(ctx context.Context, documentID string, formatName string) (*export.ExportResult, error) {
	requestID := uuid.NewString()

	// The paginated PDF rendering sits beside the closed snapshot/markup/
	// package set; everything else goes through the exporter's dispatch.
	if formatName == "pdf" {
		return s.exportPDF(ctx, requestID, documentID)
	}

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return nil, WrapError("Export", "dispatch", err)
	}

	if allowed, reason := s.entitlements.CheckPermission(s.plan, format); !allowed {
		s.logger(fmt.Sprintf("[export %s] denied: %s", requestID, reason))
		return nil, WrapError("Export", "entitlement", fmt.Errorf("%w: %s", ErrExportNotAllowed, reason))
	}

	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, WrapError("Export", "lookup", err)
	}

	result, err := s.exporter.Export(doc, format)
	if err != nil {
		s.logger(fmt.Sprintf("[export %s] %s export of %s failed: %v", requestID, format, documentID, err))
		return nil, err
	}

	s.logger(fmt.Sprintf("[export %s] %s -> %s (%d bytes)", requestID, documentID, result.Filename, len(result.Data)))
	return result, nil
}

func (s *ExportFacadeService) exportPDF(ctx context.Context, requestID, documentID string) (*export.ExportResult, error) {
	if allowed, reason := s.entitlements.CheckPermission(s.plan, "pdf"); !allowed {
		s.logger(fmt.Sprintf("[export %s] denied: %s", requestID, reason))
		return nil, WrapError("Export", "entitlement", fmt.Errorf("%w: %s", ErrExportNotAllowed, reason))
	}
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, WrapError("Export", "lookup", err)
	}
	result, err := s.exporter.ExportPDF(doc)
	if err != nil {
		s.logger(fmt.Sprintf("[export %s] pdf export of %s failed: %v", requestID, documentID, err))
		return nil, err
	}
	s.logger(fmt.Sprintf("[export %s] %s -> %s (%d bytes)", requestID, documentID, result.Filename, len(result.Data)))
	return result, nil
}

// ExportDocumentToFile exports and writes the result under outputDir,
// returning the written path.
func (s *ExportFacadeService) ExportDocumentToFile(ctx context.Context, documentID string, formatName string, outputDir string) (string, error) {
	result, err := s.ExportDocument(ctx, documentID, formatName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", WrapError("Export", "write", fmt.Errorf("failed to create export directory: %w", err))
	}
	path := filepath.Join(outputDir, result.Filename)
	if err := os.WriteFile(path, result.Data, 0644); err != nil {
		return "", WrapError("Export", "write", fmt.Errorf("failed to write export file: %w", err))
	}
	return path, nil
}

// ExportAllFormats exports the document in every format of the closed set.
func (s *ExportFacadeService) ExportAllFormats(ctx context.Context, documentID string, outputDir string) ([]string, error) {
	formats := []export.Format{export.FormatSnapshot, export.FormatMarkup, export.FormatPackage}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path, err := s.ExportDocumentToFile(ctx, documentID, string(format), outputDir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

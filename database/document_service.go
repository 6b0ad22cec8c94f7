package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"slideforge/dbpool"
	"slideforge/export"
)

// ErrDocumentNotFound is returned when a lookup id has no stored document.
var ErrDocumentNotFound = errors.New("document not found")

// Limits caps document size at the collaborator boundary so export latency
// stays a function of slide/block count. Zero means unlimited.
type Limits struct {
	MaxSlides         int
	MaxBlocksPerSlide int
}

// DocumentStore loads fully populated document models from SQL storage.
// The export engine never touches storage mid-render; the store hands it a
// complete in-memory document and steps away.
type DocumentStore struct {
	db     *sql.DB
	limits Limits
}

// Open connects to the document database and ensures the schema exists.
func Open(manager *dbpool.DBManager, opts dbpool.OpenOptions, limits Limits) (*DocumentStore, error) {
	db, err := manager.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open document database: %w", err)
	}
	s := &DocumentStore{db: db, limits: limits}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewDocumentStore wraps an existing connection (used by tests).
func NewDocumentStore(db *sql.DB, limits Limits) (*DocumentStore, error) {
	s := &DocumentStore{db: db, limits: limits}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}

func (s *DocumentStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			theme TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS slides (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			ord INTEGER NOT NULL,
			layout TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slide_id INTEGER NOT NULL REFERENCES slides(id) ON DELETE CASCADE,
			block_type TEXT NOT NULL,
			ord INTEGER NOT NULL,
			content TEXT NOT NULL DEFAULT '{}',
			style TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_slides_document ON slides(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_slide ON blocks(slide_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate document schema: %w", err)
		}
	}
	return nil
}

// GetDocument assembles the full document model for one id, or reports
// ErrDocumentNotFound. Boundary limits are enforced here, before any
// renderer runs.
func (s *DocumentStore) GetDocument(ctx context.Context, id string) (*export.Document, error) {
	doc := &export.Document{}
	var themeJSON sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT title, description, theme FROM documents WHERE id = ?`, id,
	).Scan(&doc.Title, &doc.Description, &themeJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	if themeJSON.Valid && themeJSON.String != "" {
		var theme export.Theme
		if err := json.Unmarshal([]byte(themeJSON.String), &theme); err == nil {
			doc.Theme = &theme
		}
	}

	slideIDs, err := s.loadSlides(ctx, id, doc)
	if err != nil {
		return nil, err
	}
	if s.limits.MaxSlides > 0 && len(doc.Slides) > s.limits.MaxSlides {
		return nil, fmt.Errorf("document %s exceeds slide limit (%d > %d)", id, len(doc.Slides), s.limits.MaxSlides)
	}

	for i, slideID := range slideIDs {
		blocks, err := s.loadBlocks(ctx, slideID)
		if err != nil {
			return nil, err
		}
		if s.limits.MaxBlocksPerSlide > 0 && len(blocks) > s.limits.MaxBlocksPerSlide {
			return nil, fmt.Errorf("document %s exceeds block limit on slide %d (%d > %d)",
				id, doc.Slides[i].Order, len(blocks), s.limits.MaxBlocksPerSlide)
		}
		doc.Slides[i].Blocks = blocks
	}
	return doc, nil
}

func (s *DocumentStore) loadSlides(ctx context.Context, documentID string, doc *export.Document) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ord, layout FROM slides WHERE document_id = ? ORDER BY id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load slides for %s: %w", documentID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var slideID int64
		var slide export.Slide
		if err := rows.Scan(&slideID, &slide.Order, &slide.Layout); err != nil {
			return nil, fmt.Errorf("failed to scan slide: %w", err)
		}
		ids = append(ids, slideID)
		doc.Slides = append(doc.Slides, slide)
	}
	return ids, rows.Err()
}

func (s *DocumentStore) loadBlocks(ctx context.Context, slideID int64) ([]export.Block, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT block_type, ord, content, style FROM blocks WHERE slide_id = ? ORDER BY id`, slideID)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocks: %w", err)
	}
	defer rows.Close()

	var blocks []export.Block
	for rows.Next() {
		var block export.Block
		var blockType, content string
		var style sql.NullString
		if err := rows.Scan(&blockType, &block.Order, &content, &style); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		block.Type = export.BlockType(blockType)
		// Malformed content degrades to an empty payload; a single bad
		// block never fails an otherwise valid document.
		if err := json.Unmarshal([]byte(content), &block.Content); err != nil {
			block.Content = nil
		}
		if style.Valid && style.String != "" {
			var bs export.BlockStyle
			if err := json.Unmarshal([]byte(style.String), &bs); err == nil {
				block.Style = &bs
			}
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

// SaveDocument stores a full document model under the given id, replacing
// any previous version. Used by seeding tooling and tests.
func (s *DocumentStore) SaveDocument(ctx context.Context, id string, doc *export.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE slide_id IN (SELECT id FROM slides WHERE document_id = ?)`, id); err != nil {
		return fmt.Errorf("failed to clear blocks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM slides WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear slides: %w", err)
	}

	var themeJSON interface{}
	if doc.Theme != nil {
		raw, err := json.Marshal(doc.Theme)
		if err != nil {
			return fmt.Errorf("failed to marshal theme: %w", err)
		}
		themeJSON = string(raw)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, title, description, theme) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, description = excluded.description, theme = excluded.theme`,
		id, doc.Title, doc.Description, themeJSON); err != nil {
		return fmt.Errorf("failed to save document row: %w", err)
	}

	for _, slide := range doc.Slides {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO slides (document_id, ord, layout) VALUES (?, ?, ?)`,
			id, slide.Order, slide.Layout)
		if err != nil {
			return fmt.Errorf("failed to save slide: %w", err)
		}
		slideID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to resolve slide id: %w", err)
		}
		for _, block := range slide.Blocks {
			content, err := json.Marshal(block.Content)
			if err != nil {
				return fmt.Errorf("failed to marshal block content: %w", err)
			}
			var styleJSON interface{}
			if block.Style != nil {
				raw, err := json.Marshal(block.Style)
				if err != nil {
					return fmt.Errorf("failed to marshal block style: %w", err)
				}
				styleJSON = string(raw)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO blocks (slide_id, block_type, ord, content, style) VALUES (?, ?, ?, ?, ?)`,
				slideID, string(block.Type), block.Order, string(content), styleJSON); err != nil {
				return fmt.Errorf("failed to save block: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}

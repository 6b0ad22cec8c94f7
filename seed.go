package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"slideforge/database"
	"slideforge/export"
)

// seedDocument loads a JSON document model from disk into the store. The
// file uses the same shape as the structured snapshot, minus exportedAt.
func seedDocument(ctx context.Context, store *database.DocumentStore, id string, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var doc export.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := store.SaveDocument(ctx, id, &doc); err != nil {
		return fmt.Errorf("failed to seed document %s: %w", id, err)
	}
	return nil
}

// Package importer loads new subjects into the catalog from CSV files.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"partnerscout/internal/scout"
)

const insertBatchSize = 50

// Store is the slice of the subject store the importer needs.
type Store interface {
	Insert(ctx context.Context, sub scout.Subject) error
	IsUniqueViolation(err error) bool
}

// Result counts per-row outcomes of one import run.
type Result struct {
	Inserted   int
	Duplicates int
	Errors     int
	Skipped    int
}

// Importer parses CSV rows into Pending subjects.
type Importer struct {
	store  Store
	logger *zap.Logger
}

// New builds an Importer.
func New(store Store, logger *zap.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// Run reads header-addressed CSV from r and inserts the rows. The name and
// website columns are required; category, description, tags, use_cases, and
// features are optional. Rows missing a required value are skipped, and
// duplicate websites are counted rather than treated as failures.
func (i *Importer) Run(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for idx, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	if _, ok := cols["name"]; !ok {
		return Result{}, fmt.Errorf("csv is missing required column %q", "name")
	}
	if _, ok := cols["website"]; !ok {
		return Result{}, fmt.Errorf("csv is missing required column %q", "website")
	}

	var res Result
	var batch []scout.Subject
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors++
			i.logger.Warn("malformed csv row", zap.Error(err))
			continue
		}

		sub, ok := i.rowToSubject(cols, record)
		if !ok {
			res.Skipped++
			continue
		}
		batch = append(batch, sub)

		if len(batch) >= insertBatchSize {
			i.insertBatch(ctx, batch, &res)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		i.insertBatch(ctx, batch, &res)
	}

	i.logger.Info("csv import complete",
		zap.Int("inserted", res.Inserted),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("errors", res.Errors),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

func (i *Importer) rowToSubject(cols map[string]int, record []string) (scout.Subject, bool) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := field("name")
	website := field("website")
	if name == "" || website == "" {
		return scout.Subject{}, false
	}

	sub := scout.Subject{
		ID:       uuid.NewString(),
		Name:     name,
		Website:  scout.EnsureScheme(website),
		Status:   scout.StatusPending,
		Outreach: scout.OutreachNeedsContact,
		Notes:    "Imported from CSV",
	}
	if desc := field("description"); desc != "" {
		sub.Notes = desc
	}

	sub.Facts.Tags = splitList(field("tags"))
	if category := field("category"); category != "" {
		sub.Facts.Tags = appendUnique(sub.Facts.Tags, category)
	}
	sub.Facts.UseCases = splitList(field("use_cases"))
	sub.Facts.Features = splitList(field("features"))
	return sub, true
}

func (i *Importer) insertBatch(ctx context.Context, batch []scout.Subject, res *Result) {
	for _, sub := range batch {
		err := i.store.Insert(ctx, sub)
		switch {
		case err == nil:
			res.Inserted++
		case i.store.IsUniqueViolation(err):
			res.Duplicates++
			i.logger.Debug("duplicate subject skipped",
				zap.String("name", sub.Name),
				zap.String("website", sub.Website),
			)
		default:
			res.Errors++
			i.logger.Warn("insert failed",
				zap.String("name", sub.Name),
				zap.Error(err),
			)
		}
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '|'
	})
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = appendUnique(out, p)
		}
	}
	return out
}

func appendUnique(items []string, item string) []string {
	for _, existing := range items {
		if strings.EqualFold(existing, item) {
			return items
		}
	}
	return append(items, item)
}

package pgvector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	pgvec "github.com/pgvector/pgvector-go"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

// CollegeStore searches college.college_vector_db, a single denormalized
// table keyed by major_seq with a free-form jsonb metadata column. Metadata
// filters translate to jsonb containment, so any filter key works without a
// schema change.
type CollegeStore struct {
	db *sql.DB
}

func NewCollegeStore(db *sql.DB) *CollegeStore {
	return &CollegeStore{db: db}
}

const collegeSelect = `
SELECT
	major_seq,
	major,
	salary,
	employment,
	job,
	qualifications,
	universities,
	metadata,
	(embedding <-> $1::vector) AS distance
FROM college.college_vector_db`

// contentFallbackKeys are assembled into chunk content when the stored
// metadata carries no page_content of its own.
var contentFallbackKeys = []string{"summary", "interest", "property", "job", "qualifications"}

func (s *CollegeStore) Search(ctx context.Context, queryVector []float32, k int, filter domain.FilterSpec, excludeDocIDs []string) ([]domain.Chunk, error) {
	args := []any{pgvec.NewVector(queryVector)}
	var where []string

	if len(filter) > 0 {
		filterJSON, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("marshal metadata filter: %w", err)
		}
		args = append(args, string(filterJSON))
		where = append(where, fmt.Sprintf("metadata @> $%d::jsonb", len(args)))
	}
	if len(excludeDocIDs) > 0 {
		placeholders := make([]string, 0, len(excludeDocIDs))
		for _, id := range excludeDocIDs {
			args = append(args, id)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		where = append(where, "major_seq NOT IN ("+strings.Join(placeholders, ",")+")")
	}

	query := collegeSelect
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	args = append(args, k)
	query += fmt.Sprintf("\nORDER BY distance\nLIMIT $%d", len(args))

	return s.query(ctx, query, args)
}

func (s *CollegeStore) SearchWithScore(ctx context.Context, queryVector []float32, k int) ([]domain.Chunk, error) {
	query := collegeSelect + "\nORDER BY distance\nLIMIT $2"
	return s.query(ctx, query, []any{pgvec.NewVector(queryVector), k})
}

func (s *CollegeStore) query(ctx context.Context, query string, args []any) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("college vector search: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var (
			majorSeq, major              string
			salary, employment, job      sql.NullString
			qualifications, universities sql.NullString
			metaRaw                      []byte
			distance                     float64
		)
		if err := rows.Scan(&majorSeq, &major, &salary, &employment, &job, &qualifications, &universities, &metaRaw, &distance); err != nil {
			return nil, fmt.Errorf("scan college row: %w", err)
		}

		metadata := map[string]string{
			"major_seq": majorSeq,
			"major":     major,
		}
		putNullable(metadata, "salary", salary)
		putNullable(metadata, "employment", employment)
		putNullable(metadata, "job", job)
		putNullable(metadata, "qualifications", qualifications)
		putNullable(metadata, "universities", universities)

		if len(metaRaw) > 0 {
			var extra map[string]any
			if err := json.Unmarshal(metaRaw, &extra); err == nil {
				for key, value := range extra {
					if str, ok := value.(string); ok && str != "" {
						metadata[key] = str
					}
				}
			}
		}

		content := metadata["page_content"]
		if content == "" {
			content = composeContent(metadata)
		}
		delete(metadata, "page_content")

		chunks = append(chunks, domain.Chunk{
			DocID:    majorSeq,
			Content:  content,
			Metadata: metadata,
			Distance: distance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate college rows: %w", err)
	}
	return chunks, nil
}

func putNullable(metadata map[string]string, key string, value sql.NullString) {
	if value.Valid && value.String != "" {
		metadata[key] = value.String
	}
}

func composeContent(metadata map[string]string) string {
	parts := make([]string, 0, len(contentFallbackKeys))
	for _, key := range contentFallbackKeys {
		if value := metadata[key]; value != "" {
			parts = append(parts, key+": "+value)
		}
	}
	return strings.Join(parts, " | ")
}

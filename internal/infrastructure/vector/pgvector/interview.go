package pgvector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	pgvec "github.com/pgvector/pgvector-go"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

// InterviewStore searches the interview corpus: chunk vectors in
// interview.vector joined to their structured metadata in interview.meta_df.
// Supported filter keys are occupation and question_intent; anything else in
// the spec is ignored rather than rejected.
type InterviewStore struct {
	db *sql.DB
}

func NewInterviewStore(db *sql.DB) *InterviewStore {
	return &InterviewStore{db: db}
}

const interviewSelect = `
SELECT
	m.doc_id,
	m.occupation,
	m.experience,
	m.question_intent,
	m.question_text,
	m.answer_text,
	(v.embedding <-> $1::vector) AS distance
FROM interview.vector v
INNER JOIN interview.meta_df m ON v.doc_id = m.doc_id`

func (s *InterviewStore) Search(ctx context.Context, queryVector []float32, k int, filter domain.FilterSpec, excludeDocIDs []string) ([]domain.Chunk, error) {
	args := []any{pgvec.NewVector(queryVector)}
	var where []string

	// Fixed predicate order keeps the generated SQL stable.
	if v, ok := filter[domain.FilterOccupation]; ok {
		args = append(args, v)
		where = append(where, fmt.Sprintf("m.occupation = $%d", len(args)))
	}
	if v, ok := filter[domain.FilterQuestionIntent]; ok {
		args = append(args, v)
		where = append(where, fmt.Sprintf("m.question_intent = $%d", len(args)))
	}
	if len(excludeDocIDs) > 0 {
		placeholders := make([]string, 0, len(excludeDocIDs))
		for _, id := range excludeDocIDs {
			args = append(args, id)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		where = append(where, "m.doc_id NOT IN ("+strings.Join(placeholders, ",")+")")
	}

	query := interviewSelect
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	args = append(args, k)
	query += fmt.Sprintf("\nORDER BY distance\nLIMIT $%d", len(args))

	return s.query(ctx, query, args)
}

func (s *InterviewStore) SearchWithScore(ctx context.Context, queryVector []float32, k int) ([]domain.Chunk, error) {
	query := interviewSelect + "\nORDER BY distance\nLIMIT $2"
	return s.query(ctx, query, []any{pgvec.NewVector(queryVector), k})
}

func (s *InterviewStore) query(ctx context.Context, query string, args []any) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("interview vector search: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var (
			docID                    string
			occupation, experience   sql.NullString
			questionIntent           sql.NullString
			questionText, answerText sql.NullString
			distance                 float64
		)
		if err := rows.Scan(&docID, &occupation, &experience, &questionIntent, &questionText, &answerText, &distance); err != nil {
			return nil, fmt.Errorf("scan interview row: %w", err)
		}

		metadata := make(map[string]string, 3)
		if occupation.Valid {
			metadata[domain.FilterOccupation] = occupation.String
		}
		if questionIntent.Valid {
			metadata[domain.FilterQuestionIntent] = questionIntent.String
		}
		if experience.Valid {
			metadata["experience"] = experience.String
		}

		chunks = append(chunks, domain.Chunk{
			DocID:    docID,
			Content:  fmt.Sprintf("[질문] %s\n\n[답변] %s", questionText.String, answerText.String),
			Metadata: metadata,
			Distance: distance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interview rows: %w", err)
	}
	return chunks, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/videotube/videotube-api/internal/db"
	"github.com/videotube/videotube-api/internal/db/models"
)

// EdgeRepository stores relationship edges (likes, dislikes, subscriptions).
type EdgeRepository interface {
	// Upsert inserts the edge unless it already exists. It returns the stored
	// edge and whether this call created it.
	Upsert(ctx context.Context, key models.EdgeKey) (*models.Edge, bool, error)

	// Delete removes the edge and reports whether it existed.
	Delete(ctx context.Context, key models.EdgeKey) (bool, error)

	// List returns every edge with the predicate pointing at target, oldest first.
	List(ctx context.Context, predicate models.Predicate, target models.Target) ([]*models.Edge, error)

	// Count returns the number of edges with the predicate pointing at target.
	Count(ctx context.Context, predicate models.Predicate, target models.Target) (int, error)

	// Exists reports whether the edge is stored.
	Exists(ctx context.Context, key models.EdgeKey) (bool, error)

	// CountBatch counts edges per target id. Ids with no edges are present with 0.
	CountBatch(ctx context.Context, predicate models.Predicate, kind models.TargetKind, ids []uuid.UUID) (map[uuid.UUID]int, error)

	// SubjectHasBatch reports, per target id, whether subject holds the edge.
	SubjectHasBatch(ctx context.Context, subjectID uuid.UUID, predicate models.Predicate, kind models.TargetKind, ids []uuid.UUID) (map[uuid.UUID]bool, error)

	// CountBySubject counts the edges a subject holds with the predicate and kind.
	CountBySubject(ctx context.Context, subjectID uuid.UUID, predicate models.Predicate, kind models.TargetKind) (int, error)

	// DeleteBySubject removes every edge a subject holds with the predicate and kind.
	DeleteBySubject(ctx context.Context, subjectID uuid.UUID, predicate models.Predicate, kind models.TargetKind) (int64, error)

	// DeleteByTargets removes every edge pointing at the given targets.
	DeleteByTargets(ctx context.Context, kind models.TargetKind, ids []uuid.UUID) (int64, error)

	// TargetExists reports whether the entity an edge would point at exists.
	TargetExists(ctx context.Context, target models.Target) (bool, error)
}

type edgeRepository struct {
	pool *pgxpool.Pool
}

// NewEdgeRepository creates a new EdgeRepository.
func NewEdgeRepository(pool *pgxpool.Pool) EdgeRepository {
	return &edgeRepository{pool: pool}
}

const edgeColumns = `id, subject_id, predicate, target_kind, target_id, created_at`

func (r *edgeRepository) Upsert(ctx context.Context, key models.EdgeKey) (*models.Edge, bool, error) {
	conn := db.Conn(ctx, r.pool)
	edge := models.NewEdge(key)

	query := `
		INSERT INTO edges (` + edgeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT edges_subject_predicate_target_key DO NOTHING
		RETURNING ` + edgeColumns

	created, err := scanEdge(conn.QueryRow(ctx, query,
		edge.ID,
		edge.SubjectID,
		edge.Predicate,
		edge.TargetKind,
		edge.TargetID,
		edge.CreatedAt,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, db.WrapError(err, "upsert edge")
	}

	// The edge already existed; a concurrent toggle may have inserted it.
	existing, err := scanEdge(conn.QueryRow(ctx, `
		SELECT `+edgeColumns+`
		FROM edges
		WHERE subject_id = $1 AND predicate = $2 AND target_kind = $3 AND target_id = $4
	`, key.SubjectID, key.Predicate, key.Target.Kind, key.Target.ID))
	if err != nil {
		return nil, false, db.WrapError(err, "get existing edge")
	}
	return existing, false, nil
}

func (r *edgeRepository) Delete(ctx context.Context, key models.EdgeKey) (bool, error) {
	query := `
		DELETE FROM edges
		WHERE subject_id = $1 AND predicate = $2 AND target_kind = $3 AND target_id = $4
	`

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query, key.SubjectID, key.Predicate, key.Target.Kind, key.Target.ID)
	if err != nil {
		return false, db.WrapError(err, "delete edge")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *edgeRepository) List(ctx context.Context, predicate models.Predicate, target models.Target) ([]*models.Edge, error) {
	query := `
		SELECT ` + edgeColumns + `
		FROM edges
		WHERE predicate = $1 AND target_kind = $2 AND target_id = $3
		ORDER BY created_at, id
	`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, predicate, target.Kind, target.ID)
	if err != nil {
		return nil, db.WrapError(err, "list edges")
	}
	defer rows.Close()

	var edges []*models.Edge
	for rows.Next() {
		edge, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}

	return edges, nil
}

func (r *edgeRepository) Count(ctx context.Context, predicate models.Predicate, target models.Target) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM edges
		WHERE predicate = $1 AND target_kind = $2 AND target_id = $3
	`

	var count int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, predicate, target.Kind, target.ID).Scan(&count); err != nil {
		return 0, db.WrapError(err, "count edges")
	}
	return count, nil
}

func (r *edgeRepository) Exists(ctx context.Context, key models.EdgeKey) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM edges
			WHERE subject_id = $1 AND predicate = $2 AND target_kind = $3 AND target_id = $4
		)
	`

	var exists bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx, query, key.SubjectID, key.Predicate, key.Target.Kind, key.Target.ID).Scan(&exists)
	if err != nil {
		return false, db.WrapError(err, "check edge exists")
	}
	return exists, nil
}

func (r *edgeRepository) CountBatch(ctx context.Context, predicate models.Predicate, kind models.TargetKind, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		counts[id] = 0
	}
	if len(ids) == 0 {
		return counts, nil
	}

	query := `
		SELECT target_id, COUNT(*)
		FROM edges
		WHERE predicate = $1 AND target_kind = $2 AND target_id = ANY($3::uuid[])
		GROUP BY target_id
	`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, predicate, kind, uuidStrings(ids))
	if err != nil {
		return nil, db.WrapError(err, "count edges batch")
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan edge count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edge counts: %w", err)
	}

	return counts, nil
}

func (r *edgeRepository) SubjectHasBatch(ctx context.Context, subjectID uuid.UUID, predicate models.Predicate, kind models.TargetKind, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	has := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		has[id] = false
	}
	if len(ids) == 0 || subjectID == uuid.Nil {
		return has, nil
	}

	query := `
		SELECT target_id
		FROM edges
		WHERE subject_id = $1 AND predicate = $2 AND target_kind = $3 AND target_id = ANY($4::uuid[])
	`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, subjectID, predicate, kind, uuidStrings(ids))
	if err != nil {
		return nil, db.WrapError(err, "subject has edges batch")
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan edge target: %w", err)
		}
		has[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edge targets: %w", err)
	}

	return has, nil
}

func (r *edgeRepository) CountBySubject(ctx context.Context, subjectID uuid.UUID, predicate models.Predicate, kind models.TargetKind) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM edges
		WHERE subject_id = $1 AND predicate = $2 AND target_kind = $3
	`

	var count int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, subjectID, predicate, kind).Scan(&count); err != nil {
		return 0, db.WrapError(err, "count edges by subject")
	}
	return count, nil
}

func (r *edgeRepository) DeleteBySubject(ctx context.Context, subjectID uuid.UUID, predicate models.Predicate, kind models.TargetKind) (int64, error) {
	query := `DELETE FROM edges WHERE subject_id = $1 AND predicate = $2 AND target_kind = $3`

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query, subjectID, predicate, kind)
	if err != nil {
		return 0, db.WrapError(err, "delete edges by subject")
	}
	return tag.RowsAffected(), nil
}

func (r *edgeRepository) DeleteByTargets(ctx context.Context, kind models.TargetKind, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `DELETE FROM edges WHERE target_kind = $1 AND target_id = ANY($2::uuid[])`

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query, kind, uuidStrings(ids))
	if err != nil {
		return 0, db.WrapError(err, "delete edges by targets")
	}
	return tag.RowsAffected(), nil
}

func (r *edgeRepository) TargetExists(ctx context.Context, target models.Target) (bool, error) {
	var table string
	switch target.Kind {
	case models.TargetVideo:
		table = "videos"
	case models.TargetComment:
		table = "comments"
	case models.TargetTweet:
		table = "tweets"
	case models.TargetChannel:
		table = "users"
	default:
		return false, fmt.Errorf("unknown target kind %q", target.Kind)
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE id = $1)`
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, target.ID).Scan(&exists); err != nil {
		return false, db.WrapError(err, "check target exists")
	}
	return exists, nil
}

func scanEdge(row pgx.Row) (*models.Edge, error) {
	edge := &models.Edge{}
	err := row.Scan(
		&edge.ID,
		&edge.SubjectID,
		&edge.Predicate,
		&edge.TargetKind,
		&edge.TargetID,
		&edge.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return edge, nil
}

// uuidStrings converts ids for use with ANY($n::uuid[]).
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

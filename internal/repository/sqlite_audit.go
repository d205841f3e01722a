package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/domain"
)

// SQLiteAuditRepo implements AuditRepo using a SQLite database.
type SQLiteAuditRepo struct {
	db db.DBTX
}

// NewSQLiteAuditRepo creates a new SQLiteAuditRepo.
func NewSQLiteAuditRepo(conn db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: conn}
}

func (r *SQLiteAuditRepo) Record(ctx context.Context, rec *domain.AuditRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = nowUTC()
	}
	meta, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return fmt.Errorf("encoding audit metadata: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, entity_type, entity_id, action, organization_id, actor_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.EntityType, rec.EntityID, rec.Action, rec.OrganizationID, rec.ActorID, meta,
		rec.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}
	return nil
}

func (r *SQLiteAuditRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity_type, entity_id, action, organization_id, actor_id, metadata, created_at
		FROM audit_log WHERE entity_type = ? AND entity_id = ? ORDER BY created_at, rowid`,
		entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("listing audit records: %w", err)
	}
	defer rows.Close()

	var out []*domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var meta, createdAt string
		if err := rows.Scan(&rec.ID, &rec.EntityType, &rec.EntityID, &rec.Action,
			&rec.OrganizationID, &rec.ActorID, &meta, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit record: %w", err)
		}
		if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("decoding audit metadata: %w", err)
		}
		if rec.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit records: %w", err)
	}
	return out, nil
}

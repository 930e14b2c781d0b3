package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/model"
)

// InstanceRepo reads and writes the pms_instances table, which maps a
// CRM location id to the upstream PMS credentials and the hashed agent
// key callers must present.
type InstanceRepo struct {
	db *sql.DB
}

// NewInstanceRepo returns an InstanceRepo bound to the given database.
func NewInstanceRepo(db *sql.DB) *InstanceRepo { return &InstanceRepo{db: db} }

// GetByLocationID loads one instance row. Returns ErrInstanceNotFound
// when the location is not provisioned.
func (r *InstanceRepo) GetByLocationID(ctx context.Context, locationID string) (*model.Instance, error) {
	const q = `SELECT location_id, client_id, client_password, agent_id, agent_password,
	                  property_id, use_training, agent_key_hash, created_at
	           FROM pms_instances WHERE location_id = ?`
	var inst model.Instance
	err := r.db.QueryRowContext(ctx, q, locationID).Scan(
		&inst.LocationID,
		&inst.ClientID,
		&inst.ClientPassword,
		&inst.AgentID,
		&inst.AgentPassword,
		&inst.PropertyID,
		&inst.UseTraining,
		&inst.AgentKeyHash,
		&inst.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInstanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// Upsert inserts or replaces the configuration for a location. Used by
// the admin provisioning endpoint.
func (r *InstanceRepo) Upsert(ctx context.Context, inst *model.Instance) error {
	const q = `INSERT INTO pms_instances
	             (location_id, client_id, client_password, agent_id, agent_password,
	              property_id, use_training, agent_key_hash)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             client_id = VALUES(client_id),
	             client_password = VALUES(client_password),
	             agent_id = VALUES(agent_id),
	             agent_password = VALUES(agent_password),
	             property_id = VALUES(property_id),
	             use_training = VALUES(use_training),
	             agent_key_hash = VALUES(agent_key_hash)`
	_, err := r.db.ExecContext(ctx, q,
		inst.LocationID,
		inst.ClientID,
		inst.ClientPassword,
		inst.AgentID,
		inst.AgentPassword,
		inst.PropertyID,
		inst.UseTraining,
		inst.AgentKeyHash,
	)
	return err
}

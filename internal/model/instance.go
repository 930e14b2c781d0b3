package model

import "time"

// Instance holds the resolved per-location configuration for one CRM
// sub-account: the upstream PMS credentials plus the hashed agent key
// callers must present. Rows live in the pms_instances table and are
// read-only for the request that resolved them.
//
// Fields:
//  LocationID     – CRM location identifier, primary lookup key.
//  ClientID       – upstream client id.
//  ClientPassword – upstream client password (stored encrypted at rest
//                   by the provisioning tooling; opaque here).
//  AgentID        – upstream agent id.
//  AgentPassword  – upstream agent password.
//  PropertyID     – upstream property id; 0 means "resolve from the
//                   properties endpoint on first use".
//  UseTraining    – route calls at the upstream training database.
//  AgentKeyHash   – bcrypt hash of the agent API key for this location.
//  CreatedAt      – row creation timestamp.
type Instance struct {
	LocationID     string
	ClientID       int
	ClientPassword string
	AgentID        int
	AgentPassword  string
	PropertyID     int
	UseTraining    bool
	AgentKeyHash   string
	CreatedAt      time.Time
}

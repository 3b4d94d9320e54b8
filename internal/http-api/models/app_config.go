package models

import "time"

// AppConfig is a single named configuration value held in the config
// collection. The admin passkey lives here instead of process memory so
// it survives restarts and updates take effect across instances.
type AppConfig struct {
	Key       string    `bson:"_id" json:"key"`
	Value     string    `bson:"value" json:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

const ConfigKeyAdminPasskey = "admin_passkey"

package core

import (
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Config openrate config
type Config struct {
	DB      db.Config `json:"db"`
	Ledger  Ledger    `json:"ledger"`
	Server  Server    `json:"server"`
	Auditor Auditor   `json:"auditor"`
	Cache   Cache     `json:"cache"`
	Client  Client    `json:"client"`
	Admins  []string  `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

const (
	// LedgerDriverDB sql ledger store
	LedgerDriverDB = "db"
	// LedgerDriverMemory in memory ledger store
	LedgerDriverMemory = "memory"
)

// Ledger ledger storage config
type Ledger struct {
	Driver string `json:"driver"`
	// StateFile memory driver snapshot file, empty keeps state in memory only
	StateFile string `json:"state_file"`
}

// Server api server config
type Server struct {
	Port int `json:"port"`
}

// Auditor vault auditor config
type Auditor struct {
	Interval time.Duration `json:"interval"`
	// Capacity markets audited in parallel
	Capacity int64 `json:"capacity"`
}

// Cache market cache config
type Cache struct {
	Size int           `json:"size"`
	TTL  time.Duration `json:"ttl"`
}

// Client api client config
type Client struct {
	Endpoint string `json:"endpoint"`
}

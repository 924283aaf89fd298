package config

import (
	"openrate/core"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := &core.Config{Server: core.Server{Port: 9000}}
	defaults(cfg)

	assert.Equal(t, core.LedgerDriverDB, cfg.Ledger.Driver)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Auditor.Interval)
	assert.EqualValues(t, 4, cfg.Auditor.Capacity)
	assert.Equal(t, "http://localhost:7778", cfg.Client.Endpoint)
}

func TestIsAdmin(t *testing.T) {
	cfg := &core.Config{Admins: []string{"a"}}
	assert.True(t, cfg.IsAdmin("a"))
	assert.False(t, cfg.IsAdmin("b"))
}

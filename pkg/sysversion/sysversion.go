package sysversion

import (
	"context"

	"github.com/fox-one/pkg/property"
)

const (
	SysVersionKey = "sysversion"

	// Current schema version written by migrate
	Current int64 = 1
)

func ReadSysVersion(ctx context.Context, property property.Store) (int64, error) {
	v, err := property.Get(ctx, SysVersionKey)
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

// SaveSysVersion record the schema version after a migration
func SaveSysVersion(ctx context.Context, property property.Store, version int64) error {
	return property.Save(ctx, SysVersionKey, version)
}

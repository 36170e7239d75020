// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package database

import (
	"fmt"
	"time"
)

// PoolConfig is shared by the gorm connection and the pgx pool behind the locker and the broker.
type PoolConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	DBName   string `mapstructure:"name"`

	MaxOpenConns    int32         `mapstructure:"max_open_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Port:            "5432",
		MaxOpenConns:    25,
		ConnMaxLifetime: 4 * time.Hour,
		ConnMaxIdleTime: 15 * time.Minute,
		// one connection is pinned per held comment lock and one per broker subscription
		MinConns: 5,
	}
}

func (cfg PoolConfig) Validate() error {
	if cfg.Host == "" {
		return fmt.Errorf("database host is not configured")
	}
	if cfg.MaxOpenConns <= 0 {
		return fmt.Errorf("database max_open_conns must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MinConns < 0 || cfg.MinConns > cfg.MaxOpenConns {
		return fmt.Errorf("database min_conns must be between 0 and %d, got %d", cfg.MaxOpenConns, cfg.MinConns)
	}
	return nil
}

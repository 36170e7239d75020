// Copyright (C) 2023 Tim Bastin, l3montree GmbH
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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package repositories

import (
	"context"
	"errors"

	"github.com/l3montree-dev/policyguard/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRepository[ID comparable, T utils.Tabler] struct {
	db *gorm.DB
}

func newGormRepository[ID comparable, T utils.Tabler](db *gorm.DB) *GormRepository[ID, T] {
	return &GormRepository[ID, T]{
		db: db,
	}
}

func (g *GormRepository[ID, T]) GetDB(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return g.db.WithContext(ctx)
}

func (g *GormRepository[ID, T]) Save(ctx context.Context, tx *gorm.DB, t *T) error {
	return g.GetDB(ctx, tx).Save(t).Error
}

func (g *GormRepository[ID, T]) Create(ctx context.Context, tx *gorm.DB, t *T) error {
	return g.GetDB(ctx, tx).Create(t).Error
}

func (g *GormRepository[ID, T]) Upsert(ctx context.Context, tx *gorm.DB, t []T, conflictingColumns []clause.Column, updateOnly []string) error {
	if len(t) == 0 {
		return nil
	}
	onConflict := clause.OnConflict{Columns: conflictingColumns}
	if len(updateOnly) > 0 {
		onConflict.DoUpdates = clause.AssignmentColumns(updateOnly)
	} else {
		onConflict.UpdateAll = true
	}
	return g.GetDB(ctx, tx).Clauses(onConflict).Create(&t).Error
}

func (g *GormRepository[ID, T]) SaveBatch(ctx context.Context, tx *gorm.DB, ts []T) error {
	if len(ts) == 0 {
		return nil
	}

	err := g.GetDB(ctx, tx).Save(ts).Error
	if err != nil && err.Error() == "extended protocol limited to 65535 parameters" {
		// split the batch in half and try again
		half := len(ts) / 2
		if err := g.SaveBatch(ctx, tx, ts[:half]); err != nil {
			return err
		}
		return g.SaveBatch(ctx, tx, ts[half:])
	}
	return err
}

func (g *GormRepository[ID, T]) Transaction(ctx context.Context, f func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(f)
}

// Read returns nil if no row matches.
func (g *GormRepository[ID, T]) Read(ctx context.Context, id ID) (*T, error) {
	return first[T](g.db.WithContext(ctx).Where("id = ?", id))
}

func (g *GormRepository[ID, T]) Delete(ctx context.Context, tx *gorm.DB, id ID) error {
	var t T
	return g.GetDB(ctx, tx).Delete(&t, "id = ?", id).Error
}

// first executes the query and maps gorm.ErrRecordNotFound to a nil result.
func first[T any](query *gorm.DB) (*T, error) {
	var t T
	err := query.First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

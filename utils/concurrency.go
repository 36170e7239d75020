// Copyright (C) 2024 Tim Bastin, l3montree GmbH
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

package utils

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

type errGroup[T any] struct {
	group   *errgroup.Group
	mutex   sync.Mutex
	results []T
}

// ErrGroup runs at most limit functions in parallel and collects their results.
func ErrGroup[T any](limit int) *errGroup[T] {
	group := &errgroup.Group{}
	group.SetLimit(limit)
	return &errGroup[T]{
		group:   group,
		results: make([]T, 0),
	}
}

func (g *errGroup[T]) Go(fn func() (T, error)) {
	g.group.Go(func() error {
		res, err := fn()
		if err != nil {
			return err
		}
		g.mutex.Lock()
		defer g.mutex.Unlock()
		g.results = append(g.results, res)
		return nil
	})
}

// WaitAndCollect blocks until every function returned. The order of the results is not stable.
func (g *errGroup[T]) WaitAndCollect() ([]T, error) {
	err := g.group.Wait()
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.results, err
}

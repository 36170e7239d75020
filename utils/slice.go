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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package utils

import (
	"cmp"
	"slices"
)

func Filter[T any](s []T, f func(T) bool) []T {
	r := make([]T, 0, len(s))
	for _, v := range s {
		if f(v) {
			r = append(r, v)
		}
	}
	return r
}

func Map[T, U any](s []T, f func(T) U) []U {
	r := make([]U, len(s))
	for i, v := range s {
		r[i] = f(v)
	}
	return r
}

func Flat[T any](s [][]T) []T {
	res := make([]T, 0)
	for _, subslice := range s {
		res = append(res, subslice...)
	}
	return res
}

func Any[T any](s []T, f func(T) bool) bool {
	for _, v := range s {
		if f(v) {
			return true
		}
	}
	return false
}

func All[T any](s []T, f func(T) bool) bool {
	for _, v := range s {
		if !f(v) {
			return false
		}
	}
	return true
}

func UniqBy[T any, K comparable](s []T, f func(T) K) []T {
	seen := make(map[K]bool)
	res := make([]T, 0)
	for _, v := range s {
		if _, ok := seen[f(v)]; !ok {
			seen[f(v)] = true
			res = append(res, v)
		}
	}
	return res
}

// Uniq keeps the first occurrence of every element and preserves order.
func Uniq[T comparable](s []T) []T {
	return UniqBy(s, func(t T) T { return t })
}

// Difference returns all elements of a which are not in b.
func Difference[T comparable](a, b []T) []T {
	return Filter(a, func(t T) bool {
		return !slices.Contains(b, t)
	})
}

func Intersect[T comparable](a, b []T) []T {
	return Filter(a, func(t T) bool {
		return slices.Contains(b, t)
	})
}

// SortedUniq returns a sorted copy of s without duplicates.
func SortedUniq[T cmp.Ordered](s []T) []T {
	res := slices.Clone(s)
	slices.Sort(res)
	return slices.Compact(res)
}

// ConvertStrings converts between string based types, like []string to []dtos.ScanType.
func ConvertStrings[U ~string, T ~string](s []T) []U {
	return Map(s, func(t T) U {
		return U(t)
	})
}

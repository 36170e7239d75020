package utils

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 5, OrDefault(nil, 5))
	assert.Equal(t, 3, OrDefault(Ptr(3), 5))
}

func TestErrGroup(t *testing.T) {
	t.Run("should collect all results", func(t *testing.T) {
		group := ErrGroup[int](2)
		for i := range 5 {
			group.Go(func() (int, error) {
				return i, nil
			})
		}
		results, err := group.WaitAndCollect()
		assert.Nil(t, err)
		sort.Ints(results)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, results)
	})

	t.Run("should return the first error", func(t *testing.T) {
		group := ErrGroup[int](2)
		group.Go(func() (int, error) {
			return 0, errors.New("boom")
		})
		group.Go(func() (int, error) {
			return 1, nil
		})
		_, err := group.WaitAndCollect()
		assert.EqualError(t, err, "boom")
	})
}

package pagination_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arikaim/controllers/pkg/pagination"
)

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5, 6, 7}

	t.Run("first page", func(t *testing.T) {
		t.Parallel()

		page := pagination.Paginate(items, 1, 3)
		assert.Equal(t, []int{1, 2, 3}, page.Items)
		assert.Equal(t, pagination.Paginator{
			CurrentPage: 1,
			LastPage:    3,
			PerPage:     3,
			Total:       7,
		}, page.Paginator)
	})

	t.Run("short last page", func(t *testing.T) {
		t.Parallel()

		page := pagination.Paginate(items, 3, 3)
		assert.Equal(t, []int{7}, page.Items)
		assert.Equal(t, 3, page.Paginator.CurrentPage)
	})

	t.Run("page past the end clamps to last", func(t *testing.T) {
		t.Parallel()

		page := pagination.Paginate(items, 99, 3)
		assert.Equal(t, []int{7}, page.Items)
		assert.Equal(t, 3, page.Paginator.CurrentPage)
	})

	t.Run("page below one clamps to first", func(t *testing.T) {
		t.Parallel()

		page := pagination.Paginate(items, 0, 3)
		assert.Equal(t, []int{1, 2, 3}, page.Items)
		assert.Equal(t, 1, page.Paginator.CurrentPage)
	})

	t.Run("non-positive per page uses default", func(t *testing.T) {
		t.Parallel()

		page := pagination.Paginate(items, 1, 0)
		assert.Equal(t, items, page.Items)
		assert.Equal(t, pagination.DefaultPerPage, page.Paginator.PerPage)
		assert.Equal(t, 1, page.Paginator.LastPage)
	})

	t.Run("empty set still reports one page", func(t *testing.T) {
		t.Parallel()

		page := pagination.Paginate([]string(nil), 1, 10)
		assert.Empty(t, page.Items)
		assert.Equal(t, 1, page.Paginator.CurrentPage)
		assert.Equal(t, 1, page.Paginator.LastPage)
		assert.Equal(t, 0, page.Paginator.Total)

		// Items marshals as an empty array, not null.
		data, err := json.Marshal(page)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"items":[]`)
	})
}

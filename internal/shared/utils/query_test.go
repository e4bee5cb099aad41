package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	w := NewWhereBuilder()
	assert.Equal(t, "", w.SQL())

	w.Add("status = $%d", "PENDING")
	w.AddRaw("deleted_at IS NULL")
	w.Add("created_at BETWEEN $%d AND $%d", "a", "b")

	assert.Equal(t, " WHERE status = $1 AND deleted_at IS NULL AND created_at BETWEEN $2 AND $3", w.SQL())
	assert.Equal(t, []interface{}{"PENDING", "a", "b"}, w.Args())
	assert.Equal(t, 4, w.Next())
}

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{Page: 0, Limit: 1000}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)

	p = Pagination{Page: 3, Limit: 10}.Normalize()
	assert.Equal(t, 20, p.Offset())
}

package models_test

import (
	"testing"

	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		want     int
	}{
		{name: "Exact fit", total: 20, pageSize: 10, want: 2},
		{name: "Partial last page", total: 21, pageSize: 10, want: 3},
		{name: "Empty", total: 0, pageSize: 10, want: 0},
		{name: "Zero page size", total: 5, pageSize: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := models.NewPage([]int{}, tt.total, 1, tt.pageSize)
			assert.Equal(t, tt.want, page.TotalPages)
			assert.Equal(t, tt.total, page.Total)
		})
	}
}

package packaging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"poslink/internal/domain/models"
)

func ids(items []models.InvoiceItem) []string {
	res := make([]string, 0, len(items))
	for _, it := range items {
		res = append(res, it.ItemID)
	}
	return res
}

func TestVisibleItems(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.InvoiceItem
		expected []string
	}{
		{
			name:     "empty transaction",
			items:    nil,
			expected: []string{},
		},
		{
			// Удаление упаковки не скрывает упакованный товар
			name: "deleted packaging keeps product visible",
			items: []models.InvoiceItem{
				{ItemID: "A", PackagingItemID: "BOX", LineItemSequence: 1, HasPackaging: true},
				{ItemID: "BOX", LineItemSequence: 2, IsDeleted: true},
			},
			expected: []string{"A"},
		},
		{
			name: "deleted product hides its packaging",
			items: []models.InvoiceItem{
				{ItemID: "A", PackagingItemID: "BOX", LineItemSequence: 1, IsDeleted: true, HasPackaging: true},
				{ItemID: "BOX", LineItemSequence: 2},
			},
			expected: []string{},
		},
		{
			name: "only nearest preceding parent counts",
			items: []models.InvoiceItem{
				{ItemID: "A", PackagingItemID: "BOX", LineItemSequence: 1, IsDeleted: true},
				{ItemID: "BOX", LineItemSequence: 2},
				{ItemID: "A", PackagingItemID: "BOX", LineItemSequence: 3},
				{ItemID: "BOX", LineItemSequence: 4},
			},
			expected: []string{"A", "BOX"},
		},
		{
			name: "parent entered after the line is ignored",
			items: []models.InvoiceItem{
				{ItemID: "BOX", LineItemSequence: 1},
				{ItemID: "A", PackagingItemID: "BOX", LineItemSequence: 2, IsDeleted: true},
			},
			expected: []string{"BOX"},
		},
		{
			name: "lines without packaging",
			items: []models.InvoiceItem{
				{ItemID: "X", LineItemSequence: 1},
				{ItemID: "Y", LineItemSequence: 2, IsDeleted: true},
				{ItemID: "Z", LineItemSequence: 3},
			},
			expected: []string{"X", "Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible, err := VisibleItems(tt.items)
			require.NoError(t, err)
			require.Equal(t, tt.expected, ids(visible))
		})
	}
}

func TestVisibleItems_OrderIndependent(t *testing.T) {
	items := []models.InvoiceItem{
		{ItemID: "A", PackagingItemID: "BOX", LineItemSequence: 1, IsDeleted: true},
		{ItemID: "BOX", LineItemSequence: 2},
		{ItemID: "C", PackagingItemID: "BAG", LineItemSequence: 3},
		{ItemID: "BAG", LineItemSequence: 4},
		{ItemID: "D", LineItemSequence: 5},
	}
	reversed := make([]models.InvoiceItem, len(items))
	for i := range items {
		reversed[len(items)-1-i] = items[i]
	}

	a, err := VisibleItems(items)
	require.NoError(t, err)
	b, err := VisibleItems(reversed)
	require.NoError(t, err)

	require.Equal(t, a, b)
	require.Equal(t, []string{"C", "BAG", "D"}, ids(a))
}

func TestVisibleItems_AmbiguousParent(t *testing.T) {
	items := []models.InvoiceItem{
		{ItemID: "A", PackagingItemID: "BOX", LineItemSequence: 1},
		{ItemID: "B", PackagingItemID: "BOX", LineItemSequence: 1, IsDeleted: true},
		{ItemID: "BOX", LineItemSequence: 2},
	}

	_, err := VisibleItems(items)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAmbiguousParent))
}

func TestOrphanedSequences(t *testing.T) {
	items := []models.InvoiceItem{
		{ItemID: "A", PackagingItemID: "BOX", LineItemSequence: 1, IsDeleted: true},
		{ItemID: "BOX", LineItemSequence: 2},
		{ItemID: "BOX", LineItemSequence: 7},
	}

	orphaned, err := OrphanedSequences(items)
	require.NoError(t, err)
	require.Equal(t, map[int]struct{}{2: {}, 7: {}}, orphaned)
}

func TestHasPackagingItems(t *testing.T) {
	require.False(t, HasPackagingItems(nil))
	require.False(t, HasPackagingItems([]models.InvoiceItem{
		{ItemID: "A", HasPackaging: true, IsDeleted: true},
		{ItemID: "B"},
	}))
	require.True(t, HasPackagingItems([]models.InvoiceItem{
		{ItemID: "A", HasPackaging: true},
	}))
}

func TestPackagingItemIDs(t *testing.T) {
	items := []models.InvoiceItem{
		{ItemID: "A", PackagingItemID: "BOX"},
		{ItemID: "B", PackagingItemID: "BOX"},
		{ItemID: "C", PackagingItemID: "  "},
		{ItemID: "D", PackagingItemID: "BAG", IsDeleted: true},
		{ItemID: "E"},
	}

	require.Equal(t, map[string]struct{}{"BOX": {}, "BAG": {}}, PackagingItemIDs(items))
}

func TestTotalVisibleQuantity(t *testing.T) {
	items := []models.InvoiceItem{
		{ItemID: "A", PackagingItemID: "BOX", LineItemSequence: 1, IsDeleted: true, Quantity: 2},
		// Осиротевшая строка все равно учитывается
		{ItemID: "BOX", LineItemSequence: 2, Quantity: 3},
		{ItemID: "C", LineItemSequence: 3, Quantity: 4},
	}

	require.Equal(t, 7, TotalVisibleQuantity(items))
	require.Equal(t, 0, TotalVisibleQuantity(nil))
}

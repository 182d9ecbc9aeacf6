// Package packaging определяет, какие строки транзакции видны после частичных
// удалений с учетом связей «товар - упаковка».
package packaging

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"poslink/internal/domain/models"
)

// ErrAmbiguousParent возвращается, если у строки два ближайших родителя
// с одинаковым порядковым номером. Номера строк уникальны, поэтому это
// нарушение инварианта, а не допустимые данные.
var ErrAmbiguousParent = errors.New("packaging: ambiguous packaging parent")

// OrphanedSequences возвращает номера строк, ближайший предшествующий родитель
// которых удален.
//
// Родитель строки X - строка P, у которой P.PackagingItemID == X.ItemID.
// Из кандидатов выбирается тот, чей номер максимален, но меньше номера X.
func OrphanedSequences(items []models.InvoiceItem) (map[int]struct{}, error) {
	orphaned := make(map[int]struct{})

	for _, x := range items {
		var nearest *models.InvoiceItem
		ambiguous := false

		for i := range items {
			p := &items[i]
			if p.PackagingItemID != x.ItemID || p.LineItemSequence >= x.LineItemSequence {
				continue
			}
			switch {
			case nearest == nil || p.LineItemSequence > nearest.LineItemSequence:
				nearest = p
				ambiguous = false
			case p.LineItemSequence == nearest.LineItemSequence:
				ambiguous = true
			}
		}

		if nearest == nil {
			continue
		}
		if ambiguous {
			return nil, fmt.Errorf("%w: item %q at sequence %d", ErrAmbiguousParent, x.ItemID, nearest.LineItemSequence)
		}
		if nearest.IsDeleted {
			orphaned[x.LineItemSequence] = struct{}{}
		}
	}

	return orphaned, nil
}

// VisibleItems возвращает строки, которые не удалены и не осиротели,
// упорядоченные по LineItemSequence. Порядок входа на результат не влияет.
func VisibleItems(items []models.InvoiceItem) ([]models.InvoiceItem, error) {
	orphaned, err := OrphanedSequences(items)
	if err != nil {
		return nil, err
	}

	visible := make([]models.InvoiceItem, 0, len(items))
	for _, it := range items {
		if it.IsDeleted {
			continue
		}
		if _, ok := orphaned[it.LineItemSequence]; ok {
			continue
		}
		visible = append(visible, it)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].LineItemSequence < visible[j].LineItemSequence
	})
	return visible, nil
}

// HasPackagingItems сообщает, есть ли неудаленные строки с упаковкой.
func HasPackagingItems(items []models.InvoiceItem) bool {
	for _, it := range items {
		if !it.IsDeleted && it.HasPackaging {
			return true
		}
	}
	return false
}

// PackagingItemIDs возвращает все различные непустые ссылки на упаковку.
func PackagingItemIDs(items []models.InvoiceItem) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, it := range items {
		if strings.TrimSpace(it.PackagingItemID) == "" {
			continue
		}
		ids[it.PackagingItemID] = struct{}{}
	}
	return ids
}

// TotalVisibleQuantity суммирует количество по неудаленным строкам.
// Осиротевшие строки здесь не исключаются.
func TotalVisibleQuantity(items []models.InvoiceItem) int {
	total := 0
	for _, it := range items {
		if !it.IsDeleted {
			total += it.Quantity
		}
	}
	return total
}

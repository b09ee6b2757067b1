// Package selection tracks the set of transaction ids selected against the
// currently filtered view. The set never grows beyond the visible ids as
// long as callers intersect it on every filter change.
package selection

import (
	"errors"
	"sort"
)

var ErrNenhumaSelecionada = errors.New("nenhuma transação selecionada")

type Set struct {
	ids map[int64]struct{}
}

func NewSet() *Set {
	return &Set{ids: make(map[int64]struct{})}
}

// Toggle flips membership of exactly one id.
func (s *Set) Toggle(id int64) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// ToggleAll clears the selection when the selected count equals the visible
// count; otherwise it replaces the selection with the full visible set.
// Two consecutive calls with the same visible set restore the prior state.
func (s *Set) ToggleAll(visible []int64) {
	if len(s.ids) == len(visible) {
		s.Clear()
		return
	}
	s.ids = make(map[int64]struct{}, len(visible))
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}

// Intersect drops every selected id that is not in visible. Callers invoke
// it whenever the filtered view changes, so bulk operations never act on
// hidden rows.
func (s *Set) Intersect(visible []int64) {
	keep := make(map[int64]struct{}, len(s.ids))
	for _, id := range visible {
		if _, ok := s.ids[id]; ok {
			keep[id] = struct{}{}
		}
	}
	s.ids = keep
}

func (s *Set) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Set) Len() int {
	return len(s.ids)
}

func (s *Set) Clear() {
	s.ids = make(map[int64]struct{})
}

// IDs returns the selected ids in ascending order.
func (s *Set) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

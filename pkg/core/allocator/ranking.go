package allocator

import (
	"cmp"
	"slices"

	"github.com/jakechorley/shift-roster/pkg/core/model"
)

// RankByHours returns a copy of employees ordered by ascending assigned hours.
// Runs of employees with equal hours are permuted by the tie-breaker.
// The input slice is not modified.
func RankByHours(employees []*model.Employee, tieBreaker TieBreaker) []*model.Employee {
	ranked := slices.Clone(employees)
	slices.SortStableFunc(ranked, func(a, b *model.Employee) int {
		return cmp.Compare(a.AssignedHours, b.AssignedHours)
	})

	for start := 0; start < len(ranked); {
		end := start + 1
		for end < len(ranked) && ranked[end].AssignedHours == ranked[start].AssignedHours {
			end++
		}

		if end-start > 1 {
			group := ranked[start:end]
			tieBreaker.Shuffle(len(group), func(i, j int) {
				group[i], group[j] = group[j], group[i]
			})
		}

		start = end
	}

	return ranked
}

package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sort"
)

// Split holds sample indices for training and evaluation, each ascending.
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions sample indices so each class keeps roughly
// its share in both halves. The test half holds ceil(testFraction*n)
// samples; per-class quotas use largest remainders.
func StratifiedSplit(y []int, testFraction float64, seed int64) (Split, error) {
	n := len(y)
	if n < 2 {
		return Split{}, fmt.Errorf("splitting %d samples: need at least 2", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return Split{}, fmt.Errorf("splitting: test fraction %v must be in (0,1)", testFraction)
	}

	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest >= n {
		nTest = n - 1
	}

	byClass := map[int][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	slices.Sort(classes)

	type quota struct {
		class int
		take  int
		frac  float64
	}
	quotas := make([]quota, len(classes))
	assigned := 0
	for i, c := range classes {
		exact := float64(nTest) * float64(len(byClass[c])) / float64(n)
		take := int(math.Floor(exact))
		quotas[i] = quota{class: c, take: take, frac: exact - float64(take)}
		assigned += take
	}

	order := make([]int, len(quotas))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return quotas[order[a]].frac > quotas[order[b]].frac
	})
	for _, i := range order {
		if assigned >= nTest {
			break
		}
		if quotas[i].take < len(byClass[quotas[i].class]) {
			quotas[i].take++
			assigned++
		}
	}

	rng := rand.New(rand.NewSource(seed))
	var out Split
	for _, q := range quotas {
		members := slices.Clone(byClass[q.class])
		rng.Shuffle(len(members), func(a, b int) {
			members[a], members[b] = members[b], members[a]
		})
		out.Test = append(out.Test, members[:q.take]...)
		out.Train = append(out.Train, members[q.take:]...)
	}
	slices.Sort(out.Train)
	slices.Sort(out.Test)
	return out, nil
}

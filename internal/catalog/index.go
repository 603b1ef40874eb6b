package catalog

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/tokenizer"
)

// postingList holds catalog positions in ascending order.
type postingList []int

// keywordIndex maps each description term to the records containing it.
// It is built once and never modified.
type keywordIndex struct {
	postings map[string]postingList
}

func buildKeywordIndex(contents []Content) keywordIndex {
	idx := keywordIndex{postings: make(map[string]postingList)}
	for pos, c := range contents {
		for term := range tokenizer.Terms(c.Description) {
			idx.postings[term] = append(idx.postings[term], pos)
		}
	}
	return idx
}

// match returns the positions whose descriptions contain every term.
// terms must be non-empty and already normalised.
func (k keywordIndex) match(terms []string) postingList {
	lists := make([]postingList, 0, len(terms))
	for _, term := range terms {
		list, ok := k.postings[term]
		if !ok {
			return nil
		}
		lists = append(lists, list)
	}
	sort.Slice(lists, func(i, j int) bool {
		return len(lists[i]) < len(lists[j])
	})
	result := lists[0]
	for _, list := range lists[1:] {
		result = intersect(result, list)
		if len(result) == 0 {
			return nil
		}
	}
	return result
}

func intersect(a, b postingList) postingList {
	out := make(postingList, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func (k keywordIndex) termCount() int {
	return len(k.postings)
}

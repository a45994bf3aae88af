// Package clusters groups related trades into clusters by connected
// components over trade-to-trade references.
//
// The input is a normalized table with a trade identifier column and a
// related-trade column; rows whose related value is null-like contribute a
// lone node. No graph library is used: components over string identifiers
// need only a union-find, and nothing heavier exists in the dependency set.
package clusters

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"rectcli/pkg/contracts/domain"
)

// nullLike mirrors the null-token normalization of the feature pipeline:
// these values in the related column mean "no reference".
var nullLike = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"none": true,
	"null": true,
}

// unionFind is a plain disjoint-set over string identifiers.
type unionFind struct {
	parent map[string]string
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[string]string)}
}

func (u *unionFind) add(id string) {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
	}
}

func (u *unionFind) find(id string) string {
	root := id
	for u.parent[root] != root {
		root = u.parent[root]
	}
	// Path compression
	for u.parent[id] != root {
		u.parent[id], id = root, u.parent[id]
	}
	return root
}

func (u *unionFind) union(a, b string) {
	u.add(a)
	u.add(b)
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}

// FromTable extracts trade clusters from a normalized table. idCol names
// the trade identifier column and relCol the related-trade column. The
// result is a deterministic list of components, each sorted internally.
func FromTable(t *domain.Table, idCol, relCol string) ([][]string, error) {
	ids, ok := t.Column(idCol)
	if !ok {
		return nil, fmt.Errorf("column %q not found in table", idCol)
	}
	related, ok := t.Column(relCol)
	if !ok {
		return nil, fmt.Errorf("column %q not found in table", relCol)
	}

	uf := newUnionFind()
	for i := range ids {
		id := strings.TrimSpace(ids[i])
		if nullLike[strings.ToLower(id)] {
			continue
		}
		uf.add(id)

		rel := strings.TrimSpace(related[i])
		if nullLike[strings.ToLower(rel)] {
			continue
		}
		uf.union(id, rel)
	}

	return components(uf), nil
}

// components collects the disjoint sets as sorted slices, ordered by their
// first member for a deterministic result.
func components(uf *unionFind) [][]string {
	byRoot := make(map[string][]string)
	for id := range uf.parent {
		root := uf.find(id)
		byRoot[root] = append(byRoot[root], id)
	}

	out := make([][]string, 0, len(byRoot))
	for _, members := range byRoot {
		sort.Slice(members, func(i, j int) bool { return idLess(members[i], members[j]) })
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i][0], out[j][0]) })

	return out
}

// idLess orders numerically when both identifiers are numeric, otherwise
// lexicographically, so "2" sorts before "10" in numeric ID spaces.
func idLess(a, b string) bool {
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		if na != nb {
			return na < nb
		}
		return a < b
	}
	return a < b
}

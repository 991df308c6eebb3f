package tower

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"towerassist/lib/textutil"

	"github.com/antzucaro/matchr"
)

const suggestionThreshold = 0.8

// MemberDirectory maps display names to member ids. It is read-only once
// built, when a display name repeats the last row wins.
type MemberDirectory struct {
	ids map[string]string
}

// newMemberDirectory builds a directory from (id, name) match rows.
func newMemberDirectory(rows [][]string) MemberDirectory {
	ids := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		ids[html.UnescapeString(row[1])] = row[0]
	}
	return MemberDirectory{ids: ids}
}

// NewMemberDirectory builds a directory from a name to id mapping.
func NewMemberDirectory(ids map[string]string) MemberDirectory {
	copied := make(map[string]string, len(ids))
	for name, id := range ids {
		copied[name] = id
	}
	return MemberDirectory{ids: copied}
}

func (d MemberDirectory) Len() int {
	return len(d.ids)
}

// Lookup returns the id of the member with exactly this display name.
func (d MemberDirectory) Lookup(name string) (string, bool) {
	id, ok := d.ids[name]
	return id, ok
}

// Names returns every display name in sorted order.
func (d MemberDirectory) Names() []string {
	names := make([]string, 0, len(d.ids))
	for name := range d.ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve is Lookup that fails with ErrUnknownMember, naming the closest
// display names when there are any.
func (d MemberDirectory) Resolve(name string) (string, error) {
	id, ok := d.Lookup(name)
	if ok {
		return id, nil
	}
	suggestions := d.Suggest(name, 3)
	if len(suggestions) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownMember, name)
	}
	return "", fmt.Errorf("%w: %q (did you mean %s?)", ErrUnknownMember, name, strings.Join(suggestions, ", "))
}

// Suggest returns up to max display names similar to name, best first. A
// name containing the query (or contained by it) always counts as similar.
func (d MemberDirectory) Suggest(name string, max int) []string {
	type scored struct {
		name  string
		score float64
	}

	var candidates []scored
	for candidate := range d.ids {
		score := matchr.JaroWinkler(textutil.NormalizeName(name), textutil.NormalizeName(candidate), false)
		if score >= suggestionThreshold || textutil.ContainsName(candidate, name) {
			candidates = append(candidates, scored{name: candidate, score: score})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score == candidates[j].score {
			return candidates[i].name < candidates[j].name
		}
		return candidates[i].score > candidates[j].score
	})

	out := make([]string, 0, max)
	for i := 0; i < len(candidates) && i < max; i++ {
		out = append(out, candidates[i].name)
	}
	return out
}

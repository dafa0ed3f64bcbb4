// Package verid groups version identifiers (verIDs) that share one
// description text.
//
// Description spreadsheets list, per record, up to MaxSlots verIDs in
// one row. The row is a group: the text stored for the first verID of
// the group applies to every member. The group is addressed by the
// comma-joined list of its members.
package verid

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pokedexdb/pokedexdb/pkg/catalog"
)

// MaxSlots is the number of verID columns read from a row.
const MaxSlots = 11

// Row is one line of a verID map sheet.
type Row struct {
	ID       string
	GlobalNo string
	VerIDs   []string
}

// Conflict records a verID that was claimed by two groups of the same
// record. The first group keeps it.
type Conflict struct {
	ID      string
	VerID   string
	Kept    string
	Dropped string
}

// ExportGroup is a group with its human-readable key.
type ExportGroup struct {
	Key     string
	Group   string
	Members []string
}

// Index answers group lookups for records.
type Index struct {
	mode      catalog.GroupingMode
	byID      map[string]map[string]string
	groups    map[string][]string
	order     map[string][]string
	globalNo  map[string]string
	ids       []string
	conflicts []Conflict
}

// SlotColumns returns the column names of the verID slots,
// "verID01" to "verID11".
func SlotColumns() []string {
	res := make([]string, MaxSlots)
	for i := range res {
		res[i] = fmt.Sprintf("verID%02d", i+1)
	}
	return res
}

// Build creates an Index from rows. Rows without any verID are skipped.
func Build(rows []Row, mode catalog.GroupingMode) *Index {
	res := &Index{
		mode:     mode,
		byID:     make(map[string]map[string]string),
		groups:   make(map[string][]string),
		order:    make(map[string][]string),
		globalNo: make(map[string]string),
	}

	if mode == catalog.GroupTransitive {
		res.buildTransitive(rows)
	} else {
		res.buildPerRow(rows)
	}

	for _, v := range res.conflicts {
		slog.Warn("verID belongs to more than one group, keeping the first",
			"id", v.ID,
			"verID", v.VerID,
			"kept", v.Kept,
			"dropped", v.Dropped,
		)
	}
	return res
}

func (ix *Index) buildPerRow(rows []Row) {
	for _, row := range rows {
		members := cleanSlots(row.VerIDs)
		if len(members) == 0 {
			continue
		}
		ix.addGroup(row.ID, row.GlobalNo, members)
	}
}

func (ix *Index) buildTransitive(rows []Row) {
	type component struct {
		members []string
		alive   bool
	}
	comps := make(map[string][]*component)
	owner := make(map[string]map[string]*component)
	var ids []string
	globalNo := make(map[string]string)

	for _, row := range rows {
		members := cleanSlots(row.VerIDs)
		if len(members) == 0 {
			continue
		}
		if _, ok := owner[row.ID]; !ok {
			owner[row.ID] = make(map[string]*component)
			ids = append(ids, row.ID)
			globalNo[row.ID] = row.GlobalNo
		}
		own := owner[row.ID]

		var target *component
		for _, m := range members {
			c, ok := own[m]
			if !ok || c == target {
				continue
			}
			if target == nil {
				target = c
				continue
			}
			// merge c into target, keeping the component created first
			first, second := target, c
			if slices.Index(comps[row.ID], second) < slices.Index(comps[row.ID], first) {
				first, second = second, first
			}
			for _, sm := range second.members {
				if !slices.Contains(first.members, sm) {
					first.members = append(first.members, sm)
				}
				own[sm] = first
			}
			second.alive = false
			target = first
		}
		if target == nil {
			target = &component{alive: true}
			comps[row.ID] = append(comps[row.ID], target)
		}
		for _, m := range members {
			if !slices.Contains(target.members, m) {
				target.members = append(target.members, m)
			}
			own[m] = target
		}
	}

	for _, id := range ids {
		for _, c := range comps[id] {
			if c.alive {
				ix.addGroup(id, globalNo[id], c.members)
			}
		}
	}
}

func (ix *Index) addGroup(id, globalNo string, members []string) {
	group := strings.Join(members, ",")

	if _, ok := ix.byID[id]; !ok {
		ix.byID[id] = make(map[string]string)
		ix.ids = append(ix.ids, id)
		if globalNo == "" && len(id) >= 4 {
			globalNo = id[:4]
		}
		ix.globalNo[id] = globalNo
	}
	byVer := ix.byID[id]

	for _, m := range members {
		if kept, ok := byVer[m]; ok && kept != group {
			ix.conflicts = append(ix.conflicts, Conflict{
				ID: id, VerID: m, Kept: kept, Dropped: group,
			})
			continue
		}
		byVer[m] = group
	}

	ix.groups[group] = members
	if !slices.Contains(ix.order[id], group) {
		ix.order[id] = append(ix.order[id], group)
	}
}

// GroupFor returns the group a verID belongs to within a record.
func (ix *Index) GroupFor(id, verID string) (string, bool) {
	res, ok := ix.byID[id][verID]
	return res, ok
}

// MembersOf returns the verIDs of a group in their original order.
func (ix *Index) MembersOf(group string) []string {
	return slices.Clone(ix.groups[group])
}

// FirstVerID returns the verID whose text represents the group.
func (ix *Index) FirstVerID(group string) string {
	members := ix.groups[group]
	if len(members) == 0 {
		return ""
	}
	return members[0]
}

// Groups returns groups of a record in first-seen order.
func (ix *Index) Groups(id string) []string {
	return slices.Clone(ix.order[id])
}

// IDs returns record identifiers in first-seen order.
func (ix *Index) IDs() []string {
	return slices.Clone(ix.ids)
}

// GlobalNo returns the national dex number of a record.
func (ix *Index) GlobalNo(id string) string {
	return ix.globalNo[id]
}

// Conflicts returns all verIDs that were claimed twice.
func (ix *Index) Conflicts() []Conflict {
	return slices.Clone(ix.conflicts)
}

// Mode returns the grouping mode the index was built with.
func (ix *Index) Mode() catalog.GroupingMode {
	return ix.mode
}

// ExportKeys names groups of a record after the display name of their
// last verID. A name that is already taken gets the smallest free
// "_2", "_3" suffix, so keys stay unique even when a display name
// itself ends with such a suffix. Groups whose last verID has no
// display name use the verID.
func (ix *Index) ExportKeys(
	id string,
	displayName func(verID string) string,
) []ExportGroup {
	groups := ix.order[id]
	res := make([]ExportGroup, 0, len(groups))
	used := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		members := ix.groups[g]
		last := members[len(members)-1]
		key := displayName(last)
		if key == "" {
			key = last
		}
		key = freeKey(key, used)
		used[key] = struct{}{}
		res = append(res, ExportGroup{
			Key:     key,
			Group:   g,
			Members: slices.Clone(members),
		})
	}
	return res
}

func freeKey(key string, used map[string]struct{}) string {
	if _, ok := used[key]; !ok {
		return key
	}
	for n := 2; ; n++ {
		res := fmt.Sprintf("%s_%d", key, n)
		if _, ok := used[res]; !ok {
			return res
		}
	}
}

// Split turns a stored group string back into verIDs. Blank and
// repeated verIDs are dropped, the first occurrence keeps its place.
func Split(group string) []string {
	return uniq(strings.Split(group, ","))
}

func cleanSlots(slots []string) []string {
	if len(slots) > MaxSlots {
		slots = slots[:MaxSlots]
	}
	return uniq(slots)
}

func uniq(slots []string) []string {
	res := make([]string, 0, len(slots))
	for _, v := range slots {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(res, v) {
			continue
		}
		res = append(res, v)
	}
	return res
}

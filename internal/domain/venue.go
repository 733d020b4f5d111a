package domain

// AllVenues is the sentinel selection meaning every venue, including future ones.
// It is mutually exclusive with concrete venue names.
const AllVenues = "all"

// VenueSet is an ordered set of venue names. Equality is exact string match.
type VenueSet []string

// NewVenueSet builds a set from names, dropping duplicates and keeping first-seen order.
func NewVenueSet(names ...string) VenueSet {
	set := make(VenueSet, 0, len(names))
	for _, n := range names {
		if !set.Contains(n) {
			set = append(set, n)
		}
	}
	return set
}

// Contains reports whether name is in the set.
func (s VenueSet) Contains(name string) bool {
	for _, v := range s {
		if v == name {
			return true
		}
	}
	return false
}

// IsAll reports whether the "all venues" sentinel is selected.
func (s VenueSet) IsAll() bool {
	return s.Contains(AllVenues)
}

// Clone returns a copy of the set. A nil set clones to an empty one.
func (s VenueSet) Clone() VenueSet {
	out := make(VenueSet, len(s))
	copy(out, s)
	return out
}

// Equal compares two sets ignoring order.
func (s VenueSet) Equal(other VenueSet) bool {
	if len(s) != len(other) {
		return false
	}
	for _, v := range s {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

func (s VenueSet) without(name string) VenueSet {
	out := make(VenueSet, 0, len(s))
	for _, v := range s {
		if v != name {
			out = append(out, v)
		}
	}
	return out
}

// Mixed reports whether the sentinel shares the set with concrete venues.
func (s VenueSet) Mixed() bool {
	return s.IsAll() && len(s) > 1
}

// ToggleVenue applies a checkbox click to the current selection and returns the new set.
// The input set is never modified.
//
// Toggling the sentinel switches between exactly {"all"} and the empty set. Toggling a
// concrete venue leaves "all" mode first, then flips that venue's membership.
func ToggleVenue(current VenueSet, venue string) VenueSet {
	if venue == AllVenues {
		if current.IsAll() {
			return VenueSet{}
		}
		return VenueSet{AllVenues}
	}

	next := current.without(AllVenues)
	if next.Contains(venue) {
		return next.without(venue)
	}
	return append(next, venue)
}

// VenueOption is one row of the venue checklist as rendered by a dialog.
type VenueOption struct {
	Name     string `json:"name"`
	Checked  bool   `json:"checked"`
	Disabled bool   `json:"disabled"`
}

// Checklist derives the rendered checkbox rows for the catalogue. A concrete venue is
// checked when selected explicitly or through the sentinel, and disabled while the
// sentinel is active. The first row is always the sentinel itself.
func Checklist(catalogue []string, selected VenueSet) []VenueOption {
	all := selected.IsAll()
	rows := make([]VenueOption, 0, len(catalogue)+1)
	rows = append(rows, VenueOption{Name: AllVenues, Checked: all})
	for _, name := range catalogue {
		if name == AllVenues {
			continue
		}
		rows = append(rows, VenueOption{
			Name:     name,
			Checked:  all || selected.Contains(name),
			Disabled: all,
		})
	}
	return rows
}

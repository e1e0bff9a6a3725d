package timetable

import "fmt"

// Entry is one placed block on a weekly grid. The anchor cell is the SlotKey
// it is stored under; DurationSlots contiguous cells are occupied from there.
type Entry struct {
	Subject       string
	DurationSlots int
	Room          string
	Professor     string
	Substitute    string
	EndTime       string
}

// RejectReason classifies why a placement was refused. The UI relies on the
// distinction to explain a refused drop, so these are never collapsed.
type RejectReason string

const (
	ReasonOccupied         RejectReason = "occupied"
	ReasonCovered          RejectReason = "covered"
	ReasonDuplicateSubject RejectReason = "duplicate-subject"
)

// PlacementError reports a refused placement. It is a value-level signal, not
// a fault: callers surface it to the user and carry on.
type PlacementError struct {
	Reason  RejectReason
	Key     SlotKey
	Subject string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placement of %q at %s rejected: %s", e.Subject, e.Key, e.Reason)
}

// PlaceOptions tunes a Place call.
type PlaceOptions struct {
	// Relocate removes any existing block with the same subject before
	// inserting, which is how dragging a placed subject to a new cell
	// behaves. When false a subject already on the grid is rejected with
	// ReasonDuplicateSubject.
	Relocate   bool
	Room       string
	Professor  string
	Substitute string
}

// Grid is the sparse occupancy model for one section's week.
type Grid struct {
	entries map[SlotKey]Entry
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{entries: make(map[SlotKey]Entry)}
}

// FromEntries builds a grid from decoded document entries.
func FromEntries(entries map[SlotKey]Entry) *Grid {
	g := NewGrid()
	for key, entry := range entries {
		g.entries[key] = entry
	}
	return g
}

// Len reports the number of placed blocks.
func (g *Grid) Len() int {
	return len(g.entries)
}

// At returns the entry anchored at the key.
func (g *Grid) At(key SlotKey) (Entry, bool) {
	entry, ok := g.entries[key]
	return entry, ok
}

// Entries returns a copy of the anchor map.
func (g *Grid) Entries() map[SlotKey]Entry {
	out := make(map[SlotKey]Entry, len(g.entries))
	for key, entry := range g.entries {
		out[key] = entry
	}
	return out
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return FromEntries(g.entries)
}

// IsCovered reports whether index falls strictly inside another block on the
// day. The anchor cell itself is the rendering origin and is never covered.
func (g *Grid) IsCovered(day Day, index int) bool {
	_, ok := g.coveringKey(day, index, nil)
	return ok
}

func (g *Grid) coveringKey(day Day, index int, excluding map[SlotKey]struct{}) (SlotKey, bool) {
	for key, entry := range g.entries {
		if key.Day != day {
			continue
		}
		if excluding != nil {
			if _, skip := excluding[key]; skip {
				continue
			}
		}
		if index > key.Index && index < key.Index+entry.DurationSlots {
			return key, true
		}
	}
	return SlotKey{}, false
}

// AvailableRun returns the largest contiguous slot count <= desiredSlots
// starting at startIndex that stays inside the day and stops short of the
// next anchored block. A key in excluding is ignored, which matters when a
// block is being moved over its own current span. Minimum return is 1.
func (g *Grid) AvailableRun(day Day, startIndex, desiredSlots int, excluding *SlotKey) int {
	var skip map[SlotKey]struct{}
	if excluding != nil {
		skip = map[SlotKey]struct{}{*excluding: {}}
	}
	return g.availableRun(day, startIndex, desiredSlots, skip)
}

func (g *Grid) availableRun(day Day, startIndex, desiredSlots int, excluding map[SlotKey]struct{}) int {
	limit := startIndex + desiredSlots
	if limit > SlotsPerDay {
		limit = SlotsPerDay
	}
	for _, key := range g.sameDayAnchors(day, excluding) {
		if key.Index > startIndex && key.Index < limit {
			limit = key.Index
		}
	}
	run := limit - startIndex
	if run < 1 {
		run = 1
	}
	return run
}

func (g *Grid) sameDayAnchors(day Day, excluding map[SlotKey]struct{}) []SlotKey {
	var keys []SlotKey
	for key := range g.entries {
		if key.Day != day {
			continue
		}
		if excluding != nil {
			if _, skip := excluding[key]; skip {
				continue
			}
		}
		keys = append(keys, key)
	}
	return keys
}

// keysForSubject finds every anchor currently holding the subject.
func (g *Grid) keysForSubject(subject string) map[SlotKey]struct{} {
	keys := make(map[SlotKey]struct{})
	for key, entry := range g.entries {
		if entry.Subject == subject {
			keys[key] = struct{}{}
		}
	}
	return keys
}

// Place anchors subject at key for durationSlots cells, truncated to the
// available run. On rejection the grid is left untouched and the returned
// PlacementError names the reason. Relocation removes the subject's previous
// block first, so a subject never appears twice on one grid.
func (g *Grid) Place(key SlotKey, subject string, durationSlots int, opts PlaceOptions) *PlacementError {
	own := g.keysForSubject(subject)
	if !opts.Relocate && len(own) > 0 {
		return &PlacementError{Reason: ReasonDuplicateSubject, Key: key, Subject: subject}
	}

	// Evaluate collisions against the grid minus the block being moved.
	if _, ok := g.entries[key]; ok {
		if _, self := own[key]; !self {
			return &PlacementError{Reason: ReasonOccupied, Key: key, Subject: subject}
		}
	}
	var skip map[SlotKey]struct{}
	if opts.Relocate {
		skip = own
	}
	if _, covered := g.coveringKey(key.Day, key.Index, skip); covered {
		return &PlacementError{Reason: ReasonCovered, Key: key, Subject: subject}
	}

	run := g.availableRun(key.Day, key.Index, durationSlots, skip)
	for dup := range own {
		delete(g.entries, dup)
	}
	label, _ := LabelAt(key.Index)
	g.entries[key] = Entry{
		Subject:       subject,
		DurationSlots: run,
		Room:          opts.Room,
		Professor:     opts.Professor,
		Substitute:    opts.Substitute,
		EndTime:       EndLabel(label, run),
	}
	return nil
}

// Remove clears the block anchored at key. Removing an empty cell is a no-op.
func (g *Grid) Remove(key SlotKey) {
	delete(g.entries, key)
}

// Update replaces the entry anchored at key, keeping duration bookkeeping
// consistent. Reports false when no block is anchored there.
func (g *Grid) Update(key SlotKey, mutate func(*Entry)) bool {
	entry, ok := g.entries[key]
	if !ok {
		return false
	}
	mutate(&entry)
	label, _ := LabelAt(key.Index)
	entry.EndTime = EndLabel(label, entry.DurationSlots)
	g.entries[key] = entry
	return true
}

package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotsFor(t *testing.T) {
	cases := []struct {
		name string
		meta SubjectMeta
		want int
	}{
		{"lecture kind uses lec units only", SubjectMeta{LecUnits: 3, LabUnits: 2, Kind: KindLecture}, 6},
		{"lab kind uses lab units only", SubjectMeta{LecUnits: 3, LabUnits: 2, Kind: KindLaboratory}, 4},
		{"combined without computer lab ignores lab units", SubjectMeta{LecUnits: 2, LabUnits: 3}, 4},
		{"combined computer lab folds lab units", SubjectMeta{LecUnits: 2, LabUnits: 3, IsComputerLab: true}, 10},
		{"zero units floors to one hour", SubjectMeta{}, 2},
		{"half load floors to one hour", SubjectMeta{LecUnits: 0, LabUnits: 1, Kind: KindLecture}, 2},
		{"single unit lecture", SubjectMeta{LecUnits: 1, Kind: KindLecture}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SlotsFor(tc.meta))
		})
	}
}

func TestSlotsForFloorProperty(t *testing.T) {
	for lec := 0; lec <= 5; lec++ {
		for lab := 0; lab <= 5; lab++ {
			meta := SubjectMeta{LecUnits: lec, LabUnits: lab}
			assert.GreaterOrEqual(t, SlotsFor(meta), MinimumSlots)
			meta.Kind = KindLecture
			assert.Equal(t, maxInt(2, 2*lec), SlotsFor(meta))
			meta.Kind = KindLaboratory
			assert.Equal(t, maxInt(2, 2*lab), SlotsFor(meta))
			meta.Kind = ""
			meta.IsComputerLab = true
			assert.Equal(t, maxInt(2, 2*lec+2*lab), SlotsFor(meta))
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func TestKindFromName(t *testing.T) {
	assert.Equal(t, KindLecture, KindFromName("DB SYSTEMS (LEC)"))
	assert.Equal(t, KindLaboratory, KindFromName("Web Dev (lab)"))
	assert.Equal(t, "", KindFromName("ETHICS"))
}

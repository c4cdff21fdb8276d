package documents

import (
	"testing"

	"intranet/internal/domain/staff"
)

func TestVisibleTo(t *testing.T) {
	viewer := staff.Actor{ID: "emp-1", Level: staff.LevelTecnico}

	cases := []struct {
		name string
		doc  Document
		want bool
	}{
		{"public", Document{Public: true, UploaderID: "other"}, true},
		{"own upload", Document{UploaderID: "emp-1"}, true},
		{"shared with level", Document{UploaderID: "other", SharedLevels: []int{int(staff.LevelTecnico)}}, true},
		{"shared with other level", Document{UploaderID: "other", SharedLevels: []int{int(staff.LevelDirector)}}, false},
		{"private", Document{UploaderID: "other"}, false},
	}

	for _, tc := range cases {
		if got := VisibleTo(viewer, tc.doc); got != tc.want {
			t.Fatalf("%s: VisibleTo = %v, want %v", tc.name, got, tc.want)
		}
	}
}

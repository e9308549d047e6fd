package faculty_test

import (
	"context"
	"errors"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/registrar/core/faculty"
	dummydb "github.com/trezcool/registrar/storage/database/dummy"
)

func TestService_UpdateOrCreate(t *testing.T) {
	ctx := context.Background()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatal(err)
	}
	svc := faculty.NewService(dummydb.NewFacultyRepository(db))

	tests := []struct {
		name         string
		in           faculty.Faculty
		wantPosition null.String
		wantErr      error
	}{
		{name: "canonical position", in: faculty.Faculty{Sex: "male", Email: "a@s.edu", Position: null.StringFrom(" part-TIME ")}, wantPosition: null.StringFrom(faculty.PositionPartTime)},
		{name: "blank position", in: faculty.Faculty{Sex: "male", Email: "b@s.edu", Position: null.StringFrom(" ")}},
		{name: "unknown position", in: faculty.Faculty{Sex: "male", Email: "c@s.edu", Position: null.StringFrom("Janitor")}, wantErr: faculty.ErrInvalidPosition},
		{name: "unknown status", in: faculty.Faculty{Sex: "male", Email: "d@s.edu", Status: "retired"}, wantErr: faculty.ErrInvalidStatus},
		{name: "graduated status", in: faculty.Faculty{Sex: "male", Email: "e@s.edu", Status: " Graduated "}},
		{name: "dropped status", in: faculty.Faculty{Sex: "male", Email: "f@s.edu", Status: faculty.StatusDropped}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := svc.UpdateOrCreate(ctx, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateOrCreate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.Position != tt.wantPosition {
				t.Errorf("UpdateOrCreate() position = %v, want %v", got.Position, tt.wantPosition)
			}
		})
	}
}

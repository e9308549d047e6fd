package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registrar/core"
)

func TestAcronym(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{label: "Bachelor of Science in Computer Science", want: "BSCS"},
		{label: "College of Engineering and Architecture", want: "CEA"},
		{label: "information-technology", want: "IT"},
		{label: "of the", want: "OFTH"},
		{label: "!!", want: "TAB"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := Acronym(tt.label); got != tt.want {
				t.Errorf("Acronym(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestTabName(t *testing.T) {
	if got := TabName("Bachelor of Science in Computer Science", "student"); got != "BSCS STUDENT" {
		t.Errorf("TabName() = %q, want %q", got, "BSCS STUDENT")
	}
}

func TestService_ExportRows(t *testing.T) {
	ctx := context.Background()
	headers := []string{"student_id", "name", "age"}
	rows := [][]interface{}{{1, "Ana Reyes", 21}, {2, "Ben Cruz", nil}}

	t.Run("creates the tab", func(t *testing.T) {
		env := newTestEnv(t, "Sheet1")
		require.NoError(t, env.svc.ExportRows(ctx, "BSCS STUDENT", headers, rows))

		tabs, _ := env.sheet.ListTabs(ctx)
		assert.Equal(t, []string{"Sheet1", "BSCS STUDENT"}, tabs)
		assert.Equal(t, [][]string{
			{"student_id", "name", "age"},
			{"1", "Ana Reyes", "21"},
			{"2", "Ben Cruz", ""},
		}, env.sheet.Rows("BSCS STUDENT"))
		assert.Equal(t, 3, env.sheet.Resized["BSCS STUDENT"])
		assert.Empty(t, env.logger.Messages("warning"))
	})

	t.Run("replaces previous content", func(t *testing.T) {
		env := newTestEnv(t)
		env.sheet.Seed("Report", []string{"old"}, []string{"1"}, []string{"2"}, []string{"3"}, []string{"4"})
		require.NoError(t, env.svc.ExportRows(ctx, "Report", headers, rows[:1]))
		assert.Len(t, env.sheet.Rows("Report"), 2)
	})

	t.Run("clear and resize failures are warnings", func(t *testing.T) {
		env := newTestEnv(t, "Report")
		env.sheet.FailClear = errors.New("quota exceeded")
		env.sheet.FailResize = errors.New("quota exceeded")

		require.NoError(t, env.svc.ExportRows(ctx, "Report", headers, rows))
		assert.Len(t, env.logger.Messages("warning"), 2)
		assert.Len(t, env.sheet.Rows("Report"), 3)
	})

	t.Run("write failure is fatal", func(t *testing.T) {
		env := newTestEnv(t, "Report")
		env.sheet.FailWrite = errors.New("permission denied")

		err := env.svc.ExportRows(ctx, "Report", headers, rows)
		assert.EqualError(t, err, `writing tab "Report": permission denied`)
		assert.Len(t, env.logger.Messages("error"), 1)
	})

	t.Run("tab creation failure is fatal", func(t *testing.T) {
		env := newTestEnv(t)
		env.sheet.FailCreate = errors.New("permission denied")
		assert.Error(t, env.svc.ExportRows(ctx, "Report", headers, rows))
	})

	t.Run("round trip through a tab", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.svc.ExportRows(ctx, "Report", headers, rows))
		got, err := env.sheet.ReadRange(ctx, core.A1Range("Report", "A2:C"))
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1", "Ana Reyes", "21"}, {"2", "Ben Cruz"}}, got)
	})
}

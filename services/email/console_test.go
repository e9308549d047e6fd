package emailsvc

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/reconcile"
	testutil "github.com/trezcool/registrar/tests"
)

func TestConsoleService_SendMessages(t *testing.T) {
	conf := testutil.NewConfig(t)
	core.ParseEmailTemplates(conf, new(testutil.Logger))
	to := []mail.Address{{Name: "Registrar", Address: "registrar@school.test"}}

	mu.Lock()
	SentMessages = SentMessages[:0]
	mu.Unlock()

	svc := NewConsoleService(conf).(*consoleService)
	svc.disableOutput = true

	withAttachment := &core.EmailMessage{To: to, Subject: "with attachment", BodyStr: "see attached"}
	require.NoError(t, withAttachment.Attach(strings.NewReader("Row 2: bad\n"), "errors.txt", "text/plain"))

	svc.SendMessages(
		&core.EmailMessage{To: to, Subject: "plain", BodyStr: "hello"},
		withAttachment,
		&core.EmailMessage{Subject: "no recipients", BodyStr: "dropped"},
	)
	svc.Wait()

	mu.Lock()
	defer mu.Unlock()
	subjects := make([]string, 0, len(SentMessages))
	for _, m := range SentMessages {
		subjects = append(subjects, m.Subject)
	}
	assert.ElementsMatch(t, []string{"plain", "with attachment"}, subjects)
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	conf := testutil.NewConfig(t)
	core.ParseEmailTemplates(conf, new(testutil.Logger))

	mu.Lock()
	SentMessages = SentMessages[:0]
	mu.Unlock()

	svc := NewConsoleServiceMock(conf)
	svc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: "registrar@school.test"}},
		Subject:      "Student import",
		TemplateName: "import_report",
		TemplateData: reconcile.Outcome{RunID: "r1", Entity: "student", Success: true, Imported: 2},
	})

	require.Len(t, SentMessages, 1)
	assert.Contains(t, SentMessages[0].TextContent, "Imported: 2")
	assert.Contains(t, SentMessages[0].HTMLContent, "<td>r1</td>")
}

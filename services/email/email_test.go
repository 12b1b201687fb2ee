package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmhostel/pgm/core"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var testConf = &core.Config{AppName: "PGM Console", DefaultFromEmail: "noreply@pg.in"}

func reminder() *core.EmailMessage {
	return &core.EmailMessage{
		To:          []mail.Address{{Name: "Zoya", Address: "zoya@pg.in"}},
		Subject:     "Rent due reminder",
		TextContent: "Hello Zoya",
	}
}

func TestConsoleService_render(t *testing.T) {
	svc := NewConsoleService(testConf, nopLogger{}).(*consoleService)

	body, err := svc.render(*reminder())
	require.NoError(t, err)
	assert.Contains(t, body, "From: \"PGM Console\" <noreply@pg.in>\r\n")
	assert.Contains(t, body, "Subject: [PGM Console] Rent due reminder\r\n")
	assert.Contains(t, body, "To: \"Zoya\" <zoya@pg.in>\r\n")
	assert.Contains(t, body, "Hello Zoya")
	assert.NotContains(t, body, "text/html")
}

func TestConsoleServiceMock(t *testing.T) {
	svc := NewConsoleServiceMock(testConf, nopLogger{})
	svc.SendMessages(reminder(), &core.EmailMessage{Subject: "no recipients", TextContent: "x"})

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Rent due reminder", sent[0].Subject)
}

func TestSendgridService_prepare(t *testing.T) {
	svc := NewSendgridService(testConf, nopLogger{}).(*sendgridService)
	msg := reminder()
	msg.HTMLContent = "<p>Hello Zoya</p>"

	m := svc.prepare(*msg)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[PGM Console] Rent due reminder", m.Personalizations[0].Subject)
	assert.Equal(t, "zoya@pg.in", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "noreply@pg.in", m.From.Address)
	assert.Len(t, m.Content, 2)
}

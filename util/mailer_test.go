package util

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func TestNewMailerDisabledWithoutHost(t *testing.T) {
	assert.Nil(t, NewMailer("", 587, "u", "p", "from@example.com"))

	var m *Mailer
	assert.NoError(t, m.Send("to@example.com", "subject", "body"))
}

func TestMailerSend(t *testing.T) {
	d := &captureDialer{}
	m := NewMailerWithDialer(d, "noreply@example.com")

	require.NoError(t, m.Send("jane@example.com", "New notification", "Your booking was accepted"))
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"noreply@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"jane@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"New notification"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Your booking was accepted")
}

func TestMailerSendSkipsEmptyRecipient(t *testing.T) {
	d := &captureDialer{}
	require.NoError(t, NewMailerWithDialer(d, "noreply@example.com").Send("", "s", "b"))
	assert.Empty(t, d.sent)
}

func TestMailerSendWrapsDialError(t *testing.T) {
	d := &captureDialer{err: errors.New("smtp unavailable")}
	err := NewMailerWithDialer(d, "noreply@example.com").Send("jane@example.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jane@example.com")
}

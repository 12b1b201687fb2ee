package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueReminders(t *testing.T) {
	snap := hostelSnapshot()
	snap.Students[0].Email = "not an email"
	rpt := BuildStudentReport(NewJoiner(snap), StudentQuery{})

	messages := DueReminders(rpt.Rows)
	require.Len(t, messages, 1, "only Zoya has a due and a valid email")

	msg := messages[0]
	require.Len(t, msg.To, 1)
	assert.Equal(t, "zoya@pg.in", msg.To[0].Address)
	assert.Equal(t, "Zoya", msg.To[0].Name)
	assert.True(t, msg.HasContent())
	assert.Contains(t, msg.TextContent, "room R3 is 2000.00")
	assert.NotContains(t, msg.TextContent, "last payment")
}

func TestDueReminders_mentionsLastPayment(t *testing.T) {
	snap := hostelSnapshot()
	snap.Rooms[1].Rent = 1500
	rpt := BuildDueReport(NewJoiner(snap), DueQuery{Search: "Yamini"})
	require.Len(t, rpt.Rows, 1)

	messages := DueReminders(rpt.Rows)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].TextContent, "is 500.00")
	assert.Contains(t, messages[0].TextContent, "Your last payment of 400.00 was received on 2023-12-01.")
}

package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaiiae/huma-contacts-ui/contacts"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := &Notifier{Out: &buf}
	n.Success("Contact created")
	n.Error("Failed to add contact")
	assert.Equal(t, "✓ Contact created\n✗ Failed to add contact\n", buf.String())
}

func TestContacts(t *testing.T) {
	var buf bytes.Buffer
	err := Contacts(&buf, []contacts.Contact{
		{ID: "2", Name: "Jane Smith", Position: "Backend"},
		{ID: "10", Name: "John Doe", Position: "Frontend"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID  NAME        POSITION", lines[0])
	assert.Equal(t, "2   Jane Smith  Backend", lines[1])
	assert.Equal(t, "10  John Doe    Frontend", lines[2])
}

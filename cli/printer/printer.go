// Package printer writes contacts and notifications to a terminal.
package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/oaiiae/huma-contacts-ui/contacts"
	"github.com/oaiiae/huma-contacts-ui/notify"
)

var (
	green = color.New(color.FgGreen)           //nolint: gochecknoglobals
	red   = color.New(color.FgRed, color.Bold) //nolint: gochecknoglobals
	bold  = color.New(color.Bold)              //nolint: gochecknoglobals
)

// Notifier implements [notify.Notifier] by printing each message on its own line.
type Notifier struct {
	Out io.Writer
}

var _ notify.Notifier = (*Notifier)(nil)

func (n *Notifier) Success(msg string) { green.Fprintf(n.Out, "✓ %s\n", msg) }
func (n *Notifier) Error(msg string)   { red.Fprintf(n.Out, "✗ %s\n", msg) }

// Contacts prints cs as a table.
func Contacts(w io.Writer, cs []contacts.Contact) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint: mnd // padding
	bold.Fprintln(tw, "ID\tNAME\tPOSITION")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Position)
	}
	return tw.Flush()
}

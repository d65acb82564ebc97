package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/oaiiae/huma-contacts-ui/cli/api"
	"github.com/oaiiae/huma-contacts-ui/cli/logger"
	"github.com/oaiiae/huma-contacts-ui/cli/printer"
	"github.com/oaiiae/huma-contacts-ui/contacts"
	"github.com/oaiiae/huma-contacts-ui/views"
)

// terminalApp returns an app reporting outcomes on w.
func terminalApp(options *Options, w io.Writer) *api.App {
	return api.NewApp(
		&options.BackendOptions,
		&options.CacheOptions,
		&options.NotifyOptions,
		&printer.Notifier{Out: w},
		logger.New(&options.LoggerOptions),
	)
}

// exit terminates the process with the status matching err, if any.
// Outcomes were already reported by the app's notifier.
func exit(err error) {
	switch {
	case err == nil:
	case errors.Is(err, views.ErrInvalid):
		os.Exit(2) //nolint: mnd // usage error
	default:
		os.Exit(1)
	}
}

func listCommand() *cobra.Command {
	var (
		filter string
		desc   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts sorted by name",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *Options) {
			app := terminalApp(options, cmd.ErrOrStderr())
			exit(runList(cmd.Context(), app, cmd.OutOrStdout(), filter, desc))
		}),
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only list contacts whose name contains this text")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort in descending order")
	return cmd
}

func runList(ctx context.Context, app *api.App, out io.Writer, filter string, desc bool) error {
	list := app.Views.ContactList()
	list.SetFilter(filter)
	if desc {
		list.ToggleSort()
	}
	cs, err := list.Contacts(ctx)
	if err != nil {
		return err
	}
	return printer.Contacts(out, cs)
}

func addCommand() *cobra.Command {
	var name, position string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a contact",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *Options) {
			app := terminalApp(options, cmd.ErrOrStderr())
			exit(runAdd(cmd.Context(), app, cmd.OutOrStdout(), name, position))
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "name of the contact")
	cmd.Flags().StringVar(&position, "position", "", fmt.Sprintf("position of the contact, one of %q", contacts.Positions))
	return cmd
}

// runAdd submits the create form once. Field errors are reported in field order.
func runAdd(ctx context.Context, app *api.App, out io.Writer, name, position string) error {
	form := app.Views.CreateForm()
	form.SetName(name)
	form.SetPosition(position)

	mutation, err := form.Submit(ctx)
	if err != nil {
		errs := form.Errors()
		for _, field := range []views.Field{views.FieldName, views.FieldPosition} {
			if msg, ok := errs[field]; ok {
				app.Views.Notifier.Error(msg)
			}
		}
		return err
	}
	contact, err := mutation.Wait(ctx)
	if err != nil {
		return err
	}
	return printer.Contacts(out, []contacts.Contact{*contact})
}

func deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *Options) {
			app := terminalApp(options, cmd.ErrOrStderr())
			exit(runDelete(cmd.Context(), app, contacts.ContactID(args[0])))
		}),
	}
}

func runDelete(ctx context.Context, app *api.App, id contacts.ContactID) error {
	return app.Views.ContactList().Delete(ctx, id)
}

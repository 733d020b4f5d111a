package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/V4T54L/venue-portal/internal/adapter/tui"
	"github.com/V4T54L/venue-portal/internal/domain"
	"github.com/V4T54L/venue-portal/internal/usecase"
)

var errDialogClosed = errors.New("dialog closed without saving")

type userFlags struct {
	firstName string
	lastName  string
	email     string
	role      string
	venues    []string
	file      string
	noInput   bool
}

func newUserCmd(a *app) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Add or edit portal users",
	}

	addFlags := &userFlags{}
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Open the add-user dialog",
		Long: `Open the add-user dialog. Flags prefill the form; with --no-input the form is
submitted as prefilled without opening the dialog.

Examples:
  portalctl user add
  portalctl user add --first-name Ada --last-name Lovelace --email ada@example.com \
    --role manager --venue "Grand Ballroom" --no-input`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var saved *domain.UserDraft
			dialog := usecase.NewCreateDialog(a.validator, func(ctx context.Context, d domain.UserDraft) error {
				if err := a.sink.CreateUser(ctx, d); err != nil {
					return err
				}
				saved = &d
				return nil
			})
			return a.runDialog(cmd, dialog, addFlags, &saved)
		},
	}
	bindUserFlags(addCmd, addFlags)

	editFlags := &userFlags{}
	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the edit-user dialog for a user record",
		Long: `Open the edit-user dialog hydrated from a JSON user record (--file, "-" for stdin).
Flags change fields before the dialog opens; --venue toggles a venue.
When the record comes from stdin the form reads keys from the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := readUser(cmd, editFlags.file)
			if err != nil {
				return err
			}

			var saved *domain.UserDraft
			dialog := usecase.NewEditDialog(user, a.validator, func(ctx context.Context, d domain.UserDraft) error {
				if err := a.sink.UpdateUser(ctx, user.ID, d); err != nil {
					return err
				}
				saved = &d
				return nil
			})
			return a.runDialog(cmd, dialog, editFlags, &saved)
		},
	}
	bindUserFlags(editCmd, editFlags)
	editCmd.Flags().StringVarP(&editFlags.file, "file", "f", "-", "User record as JSON, - for stdin")

	userCmd.AddCommand(addCmd, editCmd)
	return userCmd
}

func bindUserFlags(cmd *cobra.Command, f *userFlags) {
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.role, "role", "", "Role: admin, manager or staff")
	cmd.Flags().StringArrayVar(&f.venues, "venue", nil, `Toggle a venue, "all" for every venue (repeatable)`)
	cmd.Flags().BoolVar(&f.noInput, "no-input", false, "Submit without opening the dialog")
}

// runDialog applies the flags to dialog, then either submits it directly or hands it to
// the terminal form, and prints the saved user as JSON.
func (a *app) runDialog(cmd *cobra.Command, dialog *usecase.UserDialog, f *userFlags, saved **domain.UserDraft) error {
	ctx := cmd.Context()

	fields := []struct{ flag, field, value string }{
		{"first-name", domain.FieldFirstName, f.firstName},
		{"last-name", domain.FieldLastName, f.lastName},
		{"email", domain.FieldEmail, f.email},
		{"role", domain.FieldRole, f.role},
	}
	for _, fl := range fields {
		if !cmd.Flags().Changed(fl.flag) {
			continue
		}
		if err := dialog.SetField(fl.field, fl.value); err != nil {
			return err
		}
	}
	for _, v := range f.venues {
		if err := dialog.ToggleVenue(v); err != nil {
			return err
		}
	}

	if f.noInput {
		errs, err := dialog.Submit(ctx)
		if err != nil {
			return err
		}
		if !errs.Empty() {
			for _, field := range errs.Fields() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, errs[field])
			}
			return fmt.Errorf("%w: %d field(s) need attention", domain.ErrInvalidInput, len(errs))
		}
	} else {
		venues, err := a.catalog.Venues(ctx)
		if err != nil {
			return fmt.Errorf("failed to load venues: %w", err)
		}
		form := tui.NewUserForm(ctx, dialog, venues)
		if _, err := tea.NewProgram(form, programOptions(ctx, f)...).Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		if !form.Submitted() {
			return errDialogClosed
		}
	}

	if *saved == nil {
		return errDialogClosed
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(*saved)
}

// programOptions reads keys from the terminal when stdin already carried the user record.
func programOptions(ctx context.Context, f *userFlags) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if f.file == "-" {
		opts = append(opts, tea.WithInputTTY())
	}
	return opts
}

func readUser(cmd *cobra.Command, path string) (domain.User, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return domain.User{}, fmt.Errorf("failed to open user record: %w", err)
		}
		defer file.Close()
		r = file
	}

	var user domain.User
	if err := json.NewDecoder(r).Decode(&user); err != nil {
		return domain.User{}, fmt.Errorf("failed to decode user record: %w", err)
	}
	if user.ID == uuid.Nil {
		return domain.User{}, fmt.Errorf("%w: user record has no id", domain.ErrInvalidInput)
	}
	return user, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/form"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/client/services"
	"github.com/dmitrijs2005/useradmin/internal/common"
)

// statFile is a test seam for os.Stat.
var statFile = os.Stat

var fieldLabels = map[form.Field]string{
	form.FieldName:            "Name",
	form.FieldAddress:         "Address",
	form.FieldPhoneNumber:     "Phone number",
	form.FieldProfilePic:      "Profile picture",
	form.FieldDescriptionFile: "Description file",
}

// List refreshes the collection from the server and prints it.
func (a *App) List(ctx context.Context) error {
	records, err := a.users.List(ctx)
	if err != nil {
		return a.checkSession(ctx, err)
	}
	a.printRecords(records)
	return nil
}

func (a *App) printRecords(records []models.UserRecord) {
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No users")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tPHONE\tCREATED\tPHOTO\tDESCRIPTION")
	for _, r := range records {
		created := ""
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.Format(common.TimestampLayout)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Address, r.PhoneNumber, created,
			a.users.AttachmentURL(services.AttachmentPhoto, r.ProfilePic),
			a.users.AttachmentURL(services.AttachmentDocument, r.DescriptionFile),
		)
	}
	_ = tw.Flush()
}

// Add prompts for a new user and submits it through the form.
func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotAuthenticated
	}

	a.form.Cancel()
	if err := a.fill(false); err != nil {
		return err
	}
	return a.submit(ctx)
}

// Edit loads record id into the form, prompts for changes and submits them.
// Empty answers keep the current value; an empty file path keeps the stored
// attachment.
func (a *App) Edit(ctx context.Context, rawID string) error {
	if !a.isLoggedIn() {
		return client.ErrNotAuthenticated
	}

	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	rec, found := a.users.Find(id)
	if !found {
		if _, err := a.users.List(ctx); err != nil {
			return a.checkSession(ctx, err)
		}
		if rec, found = a.users.Find(id); !found {
			return fmt.Errorf("user %d not found", id)
		}
	}

	a.form.BeginEdit(rec)
	if err := a.fill(true); err != nil {
		return err
	}
	return a.submit(ctx)
}

// Delete removes user id after an explicit confirmation.
func (a *App) Delete(ctx context.Context, rawID string) error {
	if !a.isLoggedIn() {
		return client.ErrNotAuthenticated
	}

	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Delete user %d?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Not deleted")
		return nil
	}

	if err := a.users.Delete(ctx, id); err != nil {
		return a.checkSession(ctx, err)
	}

	fmt.Fprintf(a.out, "User %d deleted\n", id)
	a.printRecords(a.users.Records())
	return nil
}

// Cancel abandons the current draft.
func (a *App) Cancel(ctx context.Context) error {
	editing := a.form.Editing()
	a.form.Cancel()
	if editing {
		fmt.Fprintln(a.out, "Edit cancelled")
	} else {
		fmt.Fprintln(a.out, "Form cleared")
	}
	return nil
}

func (a *App) fill(editing bool) error {
	current := a.form.Draft()

	scalars := []struct {
		label string
		value string
		set   func(string)
	}{
		{"Name", current.Name, a.form.SetName},
		{"Address", current.Address, a.form.SetAddress},
		{"Phone number", current.PhoneNumber, a.form.SetPhoneNumber},
	}
	for _, s := range scalars {
		prompt := "Enter " + s.label
		if editing {
			prompt = fmt.Sprintf("%s [%s]", prompt, s.value)
		}
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if editing && v == "" {
			continue
		}
		s.set(v)
	}

	files := []struct {
		label string
		set   func(*models.FileHandle)
	}{
		{"profile picture path", a.form.SetProfilePic},
		{"description file path", a.form.SetDescriptionFile},
	}
	for _, f := range files {
		prompt := "Enter " + f.label
		if editing {
			prompt += " (empty keeps current)"
		}
		path, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if path == "" {
			continue
		}
		if _, err := statFile(path); err != nil {
			return fmt.Errorf("%s: %w", f.label, err)
		}
		f.set(models.FileFromPath(path))
	}
	return nil
}

func (a *App) submit(ctx context.Context) error {
	outcome, err := a.form.Submit(ctx)
	if err != nil {
		return a.checkSession(ctx, err)
	}

	switch outcome {
	case form.OutcomeInvalid:
		errs := a.form.Errors()
		for _, f := range form.Fields {
			if msg := errs[f]; msg != "" {
				fmt.Fprintf(a.out, "  %s: %s\n", fieldLabels[f], msg)
			}
		}
		return &client.ValidationError{Message: "please correct the fields above"}
	case form.OutcomeCreated:
		fmt.Fprintln(a.out, "User created")
	case form.OutcomeUpdated:
		fmt.Fprintln(a.out, "User updated")
	}

	a.printRecords(a.users.Records())
	return nil
}

// checkSession drops a session the server no longer accepts.
func (a *App) checkSession(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) && a.isLoggedIn() {
		if lerr := a.session.Logout(ctx); lerr != nil {
			a.logger.Warn(ctx, "logout after rejected token failed", "error", lerr)
		}
		return &client.AuthError{Message: "session expired, please log in again"}
	}
	return err
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &client.ValidationError{Message: fmt.Sprintf("invalid id %q", raw)}
	}
	return id, nil
}

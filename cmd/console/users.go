package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/target/appconsole/internal/domain/model"
)

type usersOptions struct {
	RawJSON bool
}

type createUserOptions struct {
	Create        model.UserProfileCreate
	PasswordStdin bool
}

type updateUserOptions struct {
	ID     int
	Update model.UserProfileUpdate
}

// optionalBool is a boolean flag that records whether it was given.
type optionalBool struct {
	value *bool
}

func (b *optionalBool) String() string {
	if b == nil || b.value == nil {
		return ""
	}
	return strconv.FormatBool(*b.value)
}

func (b *optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.value = &v
	return nil
}

func (b *optionalBool) IsBoolFlag() bool { return true }

func runUsers(cmdCtx *commandContext, args []string) error {
	opts, err := parseUsersFlags(cmdCtx.Err, args)
	if err != nil {
		return err
	}
	if err := requireSession(cmdCtx); err != nil {
		return err
	}

	getErr := cmdCtx.Console.Admin.GetUsers(cmdCtx.Ctx)
	if err := printNotifications(cmdCtx); err != nil {
		return err
	}
	if getErr != nil {
		return fmt.Errorf("list users: %w", getErr)
	}

	users := cmdCtx.Console.Store.Admin.Users()
	if opts.RawJSON {
		return printJSON(cmdCtx.Out, users)
	}
	return printUsers(cmdCtx.Out, users)
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateUserFlags(cmdCtx.Err, args)
	if err != nil {
		return err
	}
	if opts.PasswordStdin {
		if opts.Create.Password, err = readSecret(cmdCtx.In); err != nil {
			return err
		}
	}
	if err := requireSession(cmdCtx); err != nil {
		return err
	}

	createErr := cmdCtx.Console.Admin.CreateUser(cmdCtx.Ctx, opts.Create)
	if err := printNotifications(cmdCtx); err != nil {
		return err
	}
	if createErr != nil {
		return fmt.Errorf("create user: %w", createErr)
	}
	return printUsers(cmdCtx.Out, cmdCtx.Console.Store.Admin.Users())
}

func runUpdateUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseUpdateUserFlags(cmdCtx.Err, args)
	if err != nil {
		return err
	}
	if err := requireSession(cmdCtx); err != nil {
		return err
	}

	updateErr := cmdCtx.Console.Admin.UpdateUser(cmdCtx.Ctx, opts.ID, opts.Update)
	if err := printNotifications(cmdCtx); err != nil {
		return err
	}
	if updateErr != nil {
		return fmt.Errorf("update user %d: %w", opts.ID, updateErr)
	}
	user, ok := cmdCtx.Console.Store.Admin.User(opts.ID)
	if !ok {
		return nil
	}
	return printProfile(cmdCtx.Out, &user)
}

func parseUsersFlags(w io.Writer, args []string) (usersOptions, error) {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	fs.SetOutput(w)

	var opts usersOptions
	fs.BoolVar(&opts.RawJSON, "json", false, "Print users as JSON")
	if err := fs.Parse(args); err != nil {
		return usersOptions{}, err
	}
	return opts, nil
}

func parseCreateUserFlags(w io.Writer, args []string) (createUserOptions, error) {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(w)

	var (
		opts              createUserOptions
		active, superuser optionalBool
	)
	fs.StringVar(&opts.Create.Email, "email", "", "Email of the new user (required)")
	fs.StringVar(&opts.Create.FullName, "full-name", "", "Full name")
	fs.StringVar(&opts.Create.Password, "password", "", "Initial password")
	fs.BoolVar(&opts.PasswordStdin, "password-stdin", false, "Read the initial password from stdin")
	fs.Var(&active, "active", "Whether the user is active (default true)")
	fs.Var(&superuser, "superuser", "Whether the user is a superuser (default false)")

	if err := fs.Parse(args); err != nil {
		return createUserOptions{}, err
	}
	if opts.Create.Email == "" {
		return createUserOptions{}, errors.New("--email is required")
	}
	opts.Create.IsActive = active.value
	opts.Create.IsSuperuser = superuser.value
	return opts, nil
}

func parseUpdateUserFlags(w io.Writer, args []string) (updateUserOptions, error) {
	fs := flag.NewFlagSet("update-user", flag.ContinueOnError)
	fs.SetOutput(w)

	var (
		opts                      updateUserOptions
		email, fullName, password string
		active, superuser         optionalBool
	)
	fs.IntVar(&opts.ID, "id", 0, "User ID (required)")
	fs.StringVar(&email, "email", "", "New email")
	fs.StringVar(&fullName, "full-name", "", "New full name")
	fs.StringVar(&password, "password", "", "New password")
	fs.Var(&active, "active", "Set whether the user is active")
	fs.Var(&superuser, "superuser", "Set whether the user is a superuser")

	if err := fs.Parse(args); err != nil {
		return updateUserOptions{}, err
	}
	if opts.ID <= 0 {
		return updateUserOptions{}, errors.New("--id is required")
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "email":
			opts.Update.Email = &email
		case "full-name":
			opts.Update.FullName = &fullName
		case "password":
			opts.Update.Password = &password
		}
	})
	opts.Update.IsActive = active.value
	opts.Update.IsSuperuser = superuser.value
	if opts.Update == (model.UserProfileUpdate{}) {
		return updateUserOptions{}, errors.New("nothing to update")
	}
	return opts, nil
}

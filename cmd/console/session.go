package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/target/appconsole/internal/domain/model"
)

var errNotLoggedIn = errors.New("not logged in; run \"console login\" first")

type loginOptions struct {
	Email         string
	Password      string
	PasswordStdin bool
}

type updateMeOptions struct {
	Update        model.UserProfileUpdate
	PasswordStdin bool
}

type recoverOptions struct {
	Email string
}

type resetOptions struct {
	Token         string
	Password      string
	PasswordStdin bool
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags(cmdCtx.Err, args)
	if err != nil {
		return err
	}
	if opts.PasswordStdin {
		if opts.Password, err = readSecret(cmdCtx.In); err != nil {
			return err
		}
	}

	state := cmdCtx.Console.Session.LogIn(cmdCtx.Ctx, opts.Email, opts.Password)
	if err := printNotifications(cmdCtx); err != nil {
		return err
	}
	if !state.IsLoggedIn() {
		if cmdCtx.Console.Store.Main.LoginError() {
			return errors.New("incorrect email or password")
		}
		return errors.New("logged in but the profile could not be loaded")
	}

	profile := cmdCtx.Console.Store.Main.UserProfile()
	return writef(cmdCtx.Out, "Logged in as %s\n", profile.Email)
}

func runCheck(cmdCtx *commandContext, _ []string) error {
	state := cmdCtx.Console.Session.CheckLoggedIn(cmdCtx.Ctx)
	if err := writef(cmdCtx.Out, "%s\n", state); err != nil {
		return err
	}
	if !state.IsLoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

func runWhoami(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	fs.SetOutput(cmdCtx.Err)
	rawJSON := fs.Bool("json", false, "Print the profile as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := requireSession(cmdCtx); err != nil {
		return err
	}
	profile := cmdCtx.Console.Store.Main.UserProfile()
	if *rawJSON {
		return printJSON(cmdCtx.Out, profile)
	}
	return printProfile(cmdCtx.Out, profile)
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	cmdCtx.Console.Session.UserLogOut(cmdCtx.Ctx)
	return printNotifications(cmdCtx)
}

func runUpdateMe(cmdCtx *commandContext, args []string) error {
	opts, err := parseUpdateMeFlags(cmdCtx.Err, args)
	if err != nil {
		return err
	}
	if opts.PasswordStdin {
		pw, readErr := readSecret(cmdCtx.In)
		if readErr != nil {
			return readErr
		}
		opts.Update.Password = &pw
	}
	if err := requireSession(cmdCtx); err != nil {
		return err
	}

	updateErr := cmdCtx.Console.Session.UpdateUserProfile(cmdCtx.Ctx, opts.Update)
	if err := printNotifications(cmdCtx); err != nil {
		return err
	}
	if updateErr != nil {
		return fmt.Errorf("update profile: %w", updateErr)
	}
	return printProfile(cmdCtx.Out, cmdCtx.Console.Store.Main.UserProfile())
}

func runRecoverPassword(cmdCtx *commandContext, args []string) error {
	opts, err := parseRecoverFlags(cmdCtx.Err, args)
	if err != nil {
		return err
	}
	recoverErr := cmdCtx.Console.Session.PasswordRecovery(cmdCtx.Ctx, opts.Email)
	if err := printNotifications(cmdCtx); err != nil {
		return err
	}
	return recoverErr
}

func runResetPassword(cmdCtx *commandContext, args []string) error {
	opts, err := parseResetFlags(cmdCtx.Err, args)
	if err != nil {
		return err
	}
	if opts.PasswordStdin {
		if opts.Password, err = readSecret(cmdCtx.In); err != nil {
			return err
		}
	}
	if opts.Password == "" {
		return errors.New("--password or --password-stdin is required")
	}

	resetErr := cmdCtx.Console.Session.ResetPassword(cmdCtx.Ctx, opts.Password, opts.Token)
	if err := printNotifications(cmdCtx); err != nil {
		return err
	}
	return resetErr
}

// requireSession restores the session from the persisted token.
func requireSession(cmdCtx *commandContext) error {
	if !cmdCtx.Console.Session.CheckLoggedIn(cmdCtx.Ctx).IsLoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

func parseLoginFlags(w io.Writer, args []string) (loginOptions, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(w)

	var opts loginOptions
	fs.StringVar(&opts.Email, "email", "", "Account email (required)")
	fs.StringVar(&opts.Password, "password", "", "Account password")
	fs.BoolVar(&opts.PasswordStdin, "password-stdin", false, "Read the password from stdin")

	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}
	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Email == "" {
		return loginOptions{}, errors.New("--email is required")
	}
	if opts.Password == "" && !opts.PasswordStdin {
		return loginOptions{}, errors.New("--password or --password-stdin is required")
	}
	return opts, nil
}

func parseUpdateMeFlags(w io.Writer, args []string) (updateMeOptions, error) {
	fs := flag.NewFlagSet("update-me", flag.ContinueOnError)
	fs.SetOutput(w)

	var (
		opts                      updateMeOptions
		email, fullName, password string
	)
	fs.StringVar(&email, "email", "", "New email")
	fs.StringVar(&fullName, "full-name", "", "New full name")
	fs.StringVar(&password, "password", "", "New password")
	fs.BoolVar(&opts.PasswordStdin, "password-stdin", false, "Read the new password from stdin")

	if err := fs.Parse(args); err != nil {
		return updateMeOptions{}, err
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
	if opts.Update == (model.UserProfileUpdate{}) && !opts.PasswordStdin {
		return updateMeOptions{}, errors.New("nothing to update; pass --email, --full-name or --password")
	}
	return opts, nil
}

func parseRecoverFlags(w io.Writer, args []string) (recoverOptions, error) {
	fs := flag.NewFlagSet("recover-password", flag.ContinueOnError)
	fs.SetOutput(w)

	var opts recoverOptions
	fs.StringVar(&opts.Email, "email", "", "Account email (required)")
	if err := fs.Parse(args); err != nil {
		return recoverOptions{}, err
	}
	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Email == "" {
		return recoverOptions{}, errors.New("--email is required")
	}
	return opts, nil
}

func parseResetFlags(w io.Writer, args []string) (resetOptions, error) {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	fs.SetOutput(w)

	var opts resetOptions
	fs.StringVar(&opts.Token, "token", "", "Recovery token from the email (required)")
	fs.StringVar(&opts.Password, "password", "", "New password")
	fs.BoolVar(&opts.PasswordStdin, "password-stdin", false, "Read the new password from stdin")
	if err := fs.Parse(args); err != nil {
		return resetOptions{}, err
	}
	opts.Token = strings.TrimSpace(opts.Token)
	if opts.Token == "" {
		return resetOptions{}, errors.New("--token is required")
	}
	return opts, nil
}

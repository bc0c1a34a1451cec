package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/target/appconsole/config"
	"github.com/target/appconsole/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx     context.Context
	Logger  *slog.Logger
	Config  config.AppConfig
	Console *bootstrap.Console
	Out     io.Writer
	Err     io.Writer
	In      io.Reader
}

func main() {
	bootLogger := bootstrap.InitLogger(config.LogConfig{Level: "info", Format: "json"})

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			bootLogger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			bootLogger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stdout); err != nil {
			bootLogger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		bootLogger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger := bootstrap.InitLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console, err := bootstrap.NewConsole(ctx, bootstrap.ConsoleOptions{Config: cfg, Logger: logger})
	if err != nil {
		logger.ErrorContext(ctx, "build console", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must signal startup failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:     ctx,
		Logger:  logger,
		Config:  cfg,
		Console: console,
		Out:     os.Stdout,
		Err:     os.Stderr,
		In:      os.Stdin,
	}
	runErr := cmd.run(cmdCtx, os.Args[2:])
	if cerr := console.Close(); cerr != nil {
		logger.Warn("close console failed", "error", cerr)
	}
	if runErr != nil {
		logger.ErrorContext(ctx, "command failed", "command", cmdName, "error", runErr)
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Log in with email and password and persist the token",
			run:         runLogin,
		},
		"check": {
			name:        "check",
			description: "Restore the session from the persisted token and report the login state",
			run:         runCheck,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the profile of the logged-in user",
			run:         runWhoami,
		},
		"logout": {
			name:        "logout",
			description: "Forget the persisted token",
			run:         runLogout,
		},
		"update-me": {
			name:        "update-me",
			description: "Update the logged-in user's email, name or password",
			run:         runUpdateMe,
		},
		"users": {
			name:        "users",
			description: "List users (superuser only)",
			run:         runUsers,
		},
		"create-user": {
			name:        "create-user",
			description: "Create a user (superuser only)",
			run:         runCreateUser,
		},
		"update-user": {
			name:        "update-user",
			description: "Update a user by ID (superuser only)",
			run:         runUpdateUser,
		},
		"recover-password": {
			name:        "recover-password",
			description: "Request a password recovery email",
			run:         runRecoverPassword,
		},
		"reset-password": {
			name:        "reset-password",
			description: "Set a new password with a recovery token",
			run:         runResetPassword,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: console <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := cmds[name]
		if err := writef(w, "  %-18s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

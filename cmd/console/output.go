package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/target/appconsole/internal/domain/model"
)

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}

// printNotifications drains the notification queue to w, oldest first.
func printNotifications(cmdCtx *commandContext) error {
	for _, n := range cmdCtx.Console.TakeNotifications() {
		color := string(n.Color)
		if n.Color == model.ColorNone || !n.Color.Valid() {
			color = string(model.ColorInfo)
		}
		if err := writef(cmdCtx.Out, "[%s] %s\n", color, n.Content); err != nil {
			return fmt.Errorf("write notification: %w", err)
		}
	}
	return nil
}

func printProfile(w io.Writer, p *model.UserProfile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := []struct {
		label string
		value any
	}{
		{"ID", p.ID},
		{"Email", p.Email},
		{"Full name", dash(p.FullName)},
		{"Active", p.IsActive},
		{"Superuser", p.IsSuperuser},
	}
	for _, r := range rows {
		if err := writef(tw, "%s\t%v\n", r.label, r.value); err != nil {
			return fmt.Errorf("write profile row %q: %w", r.label, err)
		}
	}
	return tw.Flush()
}

func printUsers(w io.Writer, users []model.UserProfile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "ID\tEMAIL\tFULL NAME\tACTIVE\tSUPERUSER"); err != nil {
		return fmt.Errorf("write users header: %w", err)
	}
	for _, u := range users {
		if err := writef(tw, "%d\t%s\t%s\t%t\t%t\n", u.ID, u.Email, dash(u.FullName), u.IsActive, u.IsSuperuser); err != nil {
			return fmt.Errorf("write user %d: %w", u.ID, err)
		}
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// readSecret returns the first line of r without its line ending.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

package util

import (
	"context"
	"strings"
	"testing"
)

func TestExecuteCommand(t *testing.T) {
	t.Run("empty command", func(t *testing.T) {
		_, err := ExecuteCommand(context.Background(), []string{}, nil, nil)
		if err == nil {
			t.Error("expected an error for an empty command")
		}
	})

	t.Run("captures stdout and stderr", func(t *testing.T) {
		out, err := ExecuteCommand(context.Background(),
			[]string{"sh", "-c", "echo hello; echo oops 1>&2"}, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(out.Stdout) != "hello" {
			t.Errorf("stdout = %q, want hello", out.Stdout)
		}
		if strings.TrimSpace(out.Stderr) != "oops" {
			t.Errorf("stderr = %q, want oops", out.Stderr)
		}
		if out.ExitCode != 0 {
			t.Errorf("exit code = %d, want 0", out.ExitCode)
		}
	})

	t.Run("reports exit code with output", func(t *testing.T) {
		out, err := ExecuteCommand(context.Background(),
			[]string{"sh", "-c", "echo partial; exit 4"}, nil, nil)
		if err == nil {
			t.Fatal("expected an error for non-zero exit")
		}
		if out.ExitCode != 4 {
			t.Errorf("exit code = %d, want 4", out.ExitCode)
		}
		if strings.TrimSpace(out.Stdout) != "partial" {
			t.Errorf("stdout = %q, want partial output preserved", out.Stdout)
		}
	})

	t.Run("passes stdin through", func(t *testing.T) {
		out, err := ExecuteCommand(context.Background(),
			[]string{"cat"}, nil, strings.NewReader("piped"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Stdout != "piped" {
			t.Errorf("stdout = %q, want piped", out.Stdout)
		}
	})

	t.Run("passes environment variables", func(t *testing.T) {
		out, err := ExecuteCommand(context.Background(),
			[]string{"sh", "-c", "printf %s \"$DISKINFO_TEST_VAR\""},
			[]string{"DISKINFO_TEST_VAR=wired"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Stdout != "wired" {
			t.Errorf("stdout = %q, want wired", out.Stdout)
		}
	})
}

// Package git reads provenance information from the repository that hosts the corpus.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Client wraps git command execution in a working directory.
type Client struct {
	WorkDir string
	Logger  *slog.Logger
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		WorkDir: workDir,
		Logger:  logger,
	}
}

// IsInstalled reports whether a git binary is available on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Run executes a raw git command in the working directory.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// IsRepo reports whether the working directory is inside a git work tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	out, err := c.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Revision returns the abbreviated commit hash of HEAD, suffixed with
// "-dirty" when the work tree has uncommitted changes.
func (c *Client) Revision(ctx context.Context) (string, error) {
	rev, err := c.Run(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	status, err := c.Status(ctx)
	if err != nil {
		return "", err
	}
	if status != "" {
		rev += "-dirty"
	}
	return rev, nil
}

// Status returns the porcelain status of the repo.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.Run(ctx, "status", "--porcelain")
}

// Package git reads version-control facts for run metadata.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Client handles git interactions for one working directory.
type Client struct {
	dir string
}

// NewClient creates a git client rooted at dir; empty means the process
// working directory.
func NewClient(dir string) *Client {
	return &Client{dir: dir}
}

func (c *Client) revParse(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", append([]string{"rev-parse"}, args...)...)
	if c.dir != "" {
		cmd.Dir = c.dir
	}
	// Enforce no prompting
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse %s failed: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Commit returns the full commit id of HEAD.
func (c *Client) Commit(ctx context.Context) (string, error) {
	return c.revParse(ctx, "HEAD")
}

// Branch returns the current branch name.
func (c *Client) Branch(ctx context.Context) (string, error) {
	return c.revParse(ctx, "--abbrev-ref", "HEAD")
}

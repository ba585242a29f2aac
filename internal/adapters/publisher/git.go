package publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/melih/graphbot/internal/logger"
)

const defaultCommitMessage = "Update architecture diagrams"

// GitOptions locate the repository receiving the diagrams.
type GitOptions struct {
	URL    string
	Branch string
	// Dir is the directory of the repository the files are copied to.
	Dir      string
	Username string
	Password string
	Message  string
}

// Git commits rendered diagrams to a repository and pushes them.
type Git struct {
	opts GitOptions
	now  func() time.Time
}

func NewGit(opts GitOptions) *Git {
	if opts.Message == "" {
		opts.Message = defaultCommitMessage
	}
	return &Git{opts: opts, now: time.Now}
}

func (g *Git) Name() string {
	return "git"
}

func (g *Git) auth() transport.AuthMethod {
	if g.opts.Username == "" {
		return nil
	}
	return &http.BasicAuth{Username: g.opts.Username, Password: g.opts.Password}
}

// Publish clones the repository, replaces the diagrams and pushes a commit.
// Nothing is pushed when the diagrams did not change.
func (g *Git) Publish(ctx context.Context, files []string) error {
	// 1. Create temporary directory
	tmpDir, err := os.MkdirTemp("", "graphbot-publish-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// 2. Clone Repository
	logger.Debug("Cloning repository", "url", g.opts.URL, "dir", tmpDir)
	clone := &git.CloneOptions{
		URL:  g.opts.URL,
		Auth: g.auth(),
	}
	if g.opts.Branch != "" {
		clone.ReferenceName = plumbing.NewBranchReferenceName(g.opts.Branch)
		clone.SingleBranch = true
	}
	repo, err := git.PlainCloneContext(ctx, tmpDir, false, clone)
	if err != nil {
		return fmt.Errorf("failed to clone repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	// 3. Copy and stage artifacts
	for _, file := range files {
		rel := filepath.ToSlash(filepath.Join(g.opts.Dir, filepath.Base(file)))
		if err := copyFile(file, filepath.Join(tmpDir, rel)); err != nil {
			return err
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("failed to stage %s: %w", rel, err)
		}
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("failed to read worktree status: %w", err)
	}
	if status.IsClean() {
		logger.Info("Diagrams unchanged, nothing to push", "url", g.opts.URL)
		return nil
	}

	// 4. Commit and push
	hash, err := wt.Commit(g.opts.Message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "graphbot",
			Email: "graphbot@localhost",
			When:  g.now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	err = repo.PushContext(ctx, &git.PushOptions{Auth: g.auth()})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push: %w", err)
	}
	logger.Info("Diagrams pushed", "url", g.opts.URL, "commit", hash.String())
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

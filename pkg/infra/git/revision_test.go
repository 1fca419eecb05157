package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/webship/pkg/infra/git"
)

func TestRevisionReader_Head(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	gt.NoError(t, err)

	gt.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("print('hi')\n"), 0o600))
	wt, err := repo.Worktree()
	gt.NoError(t, err)
	_, err = wt.Add("app.py")
	gt.NoError(t, err)

	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	hash, err := wt.Commit("Add entry point\n\nLonger description.", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Release Bot", Email: "bot@example.com", When: when},
	})
	gt.NoError(t, err)

	rev, err := git.NewRevisionReader().Head(context.Background(), dir)
	gt.NoError(t, err)
	gt.Equal(t, rev.Hash, hash.String())
	gt.Equal(t, rev.Author, "Release Bot")
	gt.Equal(t, rev.Subject, "Add entry point")
	gt.Equal(t, rev.Branch, "master")
	gt.True(t, rev.When.Equal(when))
	gt.Equal(t, len(rev.ShortHash()), 12)
}

func TestRevisionReader_NotARepository(t *testing.T) {
	_, err := git.NewRevisionReader().Head(context.Background(), t.TempDir())
	gt.Error(t, err)
}

func TestRevisionReader_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	gt.NoError(t, err)

	_, err = git.NewRevisionReader().Head(context.Background(), dir)
	gt.Error(t, err)
}

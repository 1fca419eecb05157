// Package git inspects fetched working copies with go-git.
package git

import (
	"context"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/model"
)

// RevisionReader reads the checked out commit of a repository
type RevisionReader struct{}

// NewRevisionReader creates a RevisionReader
func NewRevisionReader() *RevisionReader {
	return &RevisionReader{}
}

// Head returns the commit HEAD points at in the repository at dir
func (x *RevisionReader) Head(ctx context.Context, dir string) (*model.Revision, error) {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open repository", goerr.V("dir", dir))
	}

	head, err := repo.Head()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve HEAD", goerr.V("dir", dir))
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read HEAD commit",
			goerr.V("dir", dir),
			goerr.V("hash", head.Hash().String()),
		)
	}

	rev := &model.Revision{
		Hash:    commit.Hash.String(),
		Author:  commit.Author.Name,
		Subject: strings.TrimSpace(strings.SplitN(commit.Message, "\n", 2)[0]),
		When:    commit.Author.When,
	}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}
	return rev, nil
}

package run

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitInfo records the state of the code repository at the moment a run was
// created, so results can always be traced back to the commit that produced
// them.
type GitInfo struct {
	CommitHash  string
	CommitShort string
	Branch      string
	RemoteURL   string
	Tag         string
	IsClean     bool
}

// CollectGitInfo inspects the repository at repoPath. A missing origin remote
// or an untagged HEAD leave the corresponding fields empty; only a broken or
// absent repository is an error.
func CollectGitInfo(repoPath string) (GitInfo, error) {
	var info GitInfo

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return info, fmt.Errorf("open repository %s: %w", repoPath, err)
	}

	head, err := repo.Head()
	if err != nil {
		return info, fmt.Errorf("resolve HEAD: %w", err)
	}
	info.CommitHash = head.Hash().String()
	if len(info.CommitHash) >= 7 {
		info.CommitShort = info.CommitHash[:7]
	}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	} else {
		info.Branch = "HEAD" // detached
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			info.RemoteURL = urls[0]
		}
	}

	info.Tag = tagForCommit(repo, head.Hash())

	wt, err := repo.Worktree()
	if err != nil {
		return info, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return info, fmt.Errorf("read worktree status: %w", err)
	}
	info.IsClean = status.IsClean()

	return info, nil
}

// tagForCommit returns a tag pointing at the given commit, resolving
// annotated tags through their tag object. Empty when the commit is untagged.
func tagForCommit(repo *git.Repository, commit plumbing.Hash) string {
	iter, err := repo.Tags()
	if err != nil {
		return ""
	}
	defer iter.Close()

	var found string
	_ = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if obj, err := repo.TagObject(ref.Hash()); err == nil {
			target = obj.Target
		}
		if target == commit {
			found = ref.Name().Short()
		}
		return nil
	})
	return found
}

// SetVersion replaces the params version section with the given git state.
func (p *Params) SetVersion(info GitInfo) {
	v := ensureMapping(p.root(), "version")
	v.Content = nil
	s := &Section{node: v}
	s.SetString("git_commit_hash", info.CommitHash)
	s.SetString("git_commit_short", info.CommitShort)
	s.SetString("git_branch", info.Branch)
	s.SetString("git_remote_url", info.RemoteURL)
	s.SetString("git_tag", info.Tag)
	s.SetBool("is_clean", info.IsClean)
}

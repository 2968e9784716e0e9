package provenance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flarebyte/clustermap/internal/testutil"
)

func commitAll(t *testing.T, wt *git.Worktree, msg string, files ...string) string {
	t.Helper()
	for _, f := range files {
		_, err := wt.Add(f)
		require.NoError(t, err)
	}
	h, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Unix(1700000000, 0).UTC()},
	})
	require.NoError(t, err)
	return h.String()
}

func TestRevision_LastCommitTouchingFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	in := testutil.WriteFile(t, dir, filepath.Join("data", "queries.xml"), testutil.QueriesXML)
	first := commitAll(t, wt, "add queries", "data/queries.xml")

	testutil.WriteFile(t, dir, "README", "unrelated\n")
	commitAll(t, wt, "add readme", "README")

	got, err := Revision(in)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	require.NoError(t, os.WriteFile(in, []byte(testutil.QueriesXML+"\n"), 0o644))
	second := commitAll(t, wt, "touch queries", "data/queries.xml")
	got, err = Revision(in)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestRevision_NoRepository(t *testing.T) {
	in := testutil.WriteFile(t, t.TempDir(), "queries.xml", testutil.QueriesXML)
	got, err := Revision(in)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRevision_EmptyRepositoryAndUntracked(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	in := testutil.WriteFile(t, dir, "queries.xml", testutil.QueriesXML)

	got, err := Revision(in)
	require.NoError(t, err)
	assert.Empty(t, got, "no commits yet")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	testutil.WriteFile(t, dir, "other.txt", "x\n")
	commitAll(t, wt, "other", "other.txt")

	got, err = Revision(in)
	require.NoError(t, err)
	assert.Empty(t, got, "untracked file")
}

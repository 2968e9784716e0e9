package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/flarebyte/clustermap/internal/testutil"
)

type runResult struct {
	code   int
	stdout []byte
	stderr []byte
}

func moduleRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found")
		}
		dir = parent
	}
}

func buildClustermap(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("builds the binary")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not on PATH")
	}
	bin := filepath.Join(t.TempDir(), "clustermap")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/clustermap")
	cmd.Dir = moduleRoot(t)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, string(out))
	}
	return bin
}

func runCmd(t *testing.T, bin string, args ...string) runResult {
	t.Helper()
	cmd := exec.Command(bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			code = ee.ExitCode()
		} else {
			code = -1
		}
	}
	return runResult{code: code, stdout: stdout.Bytes(), stderr: stderr.Bytes()}
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	return lines[len(lines)-1]
}

func TestCLI_UsageExitStatus(t *testing.T) {
	bin := buildClustermap(t)
	for _, args := range [][]string{nil, {"only.xml"}, {"a.xml", "b.png", "c"}} {
		r := runCmd(t, bin, args...)
		if r.code != 1 {
			t.Fatalf("args %v: exit code %d, want 1", args, r.code)
		}
		if got := string(r.stderr); got != "Usage: clustermap INFILE PNGFILE\n" {
			t.Fatalf("args %v: unexpected stderr %q", args, got)
		}
		if len(r.stdout) != 0 {
			t.Fatalf("args %v: unexpected stdout %q", args, r.stdout)
		}
	}
}

func TestCLI_RunsAreStable(t *testing.T) {
	bin := buildClustermap(t)
	dir := t.TempDir()
	in := testutil.WriteFile(t, dir, "queries.xml", testutil.QueriesXML)
	out := filepath.Join(dir, "queries.png")

	var runs []runResult
	var pngs [][]byte
	for i := 0; i < 3; i++ {
		r := runCmd(t, bin, in, out)
		if r.code != 0 {
			t.Fatalf("run %d: exit %d: %s", i, r.code, r.stderr)
		}
		b, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("read png: %v", err)
		}
		runs = append(runs, r)
		pngs = append(pngs, b)
	}
	for i := 1; i < len(runs); i++ {
		if !bytes.Equal(runs[i].stdout, runs[0].stdout) {
			t.Fatalf("stdout drift at run %d", i)
		}
		if !bytes.Equal(runs[i].stderr, runs[0].stderr) {
			t.Fatalf("stderr drift at run %d", i)
		}
		if !bytes.Equal(pngs[i], pngs[0]) {
			t.Fatalf("png drift at run %d", i)
		}
	}
	if !bytes.Contains(runs[0].stdout, []byte(`src="`+out+`"`)) {
		t.Fatalf("image map does not reference %s:\n%s", out, runs[0].stdout)
	}
}

func TestCLI_FatalErrorsLeaveNoPNG(t *testing.T) {
	bin := buildClustermap(t)
	dir := t.TempDir()
	broken := testutil.WriteFile(t, dir, "broken.xml", testutil.MalformedXML)

	cases := map[string]string{
		"missing":   filepath.Join(dir, "missing.xml"),
		"malformed": broken,
	}
	for name, in := range cases {
		out := filepath.Join(dir, name+".png")
		r := runCmd(t, bin, in, out)
		if r.code != 1 {
			t.Fatalf("%s: exit code %d, want 1", name, r.code)
		}
		if got := lastLine(r.stderr); !strings.HasPrefix(got, "parse: ") {
			t.Fatalf("%s: unexpected error line %q", name, got)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Fatalf("%s: png should not exist, stat err=%v", name, err)
		}
	}
}

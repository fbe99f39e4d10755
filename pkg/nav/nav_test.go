// pkg/nav/nav_test.go
package nav_test

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/creativeyann17/go-zipnav/internal/vpath"
	"github.com/creativeyann17/go-zipnav/pkg/nav"
)

// writeTestZip builds a ZIP archive from a name->content map and returns its path.
func writeTestZip(t *testing.T, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("add member %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write member %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return path
}

func openTestNav(t *testing.T, files map[string]string) *nav.Navigator {
	t.Helper()
	n, err := nav.Open(writeTestZip(t, files))
	if err != nil {
		t.Fatalf("open navigator: %v", err)
	}
	t.Cleanup(func() { n.Close() })
	return n
}

func TestDirectoryInference(t *testing.T) {
	n := openTestNav(t, map[string]string{
		"payload/data.csv": "1,2,3\n",
	})

	root, err := n.Ls("", false)
	if err != nil {
		t.Fatalf("Ls root: %v", err)
	}
	if !reflect.DeepEqual(root, []string{"payload/"}) {
		t.Errorf("Ls root = %v, want [payload/]", root)
	}

	inside, err := n.Ls("payload/", false)
	if err != nil {
		t.Fatalf("Ls payload/: %v", err)
	}
	if !reflect.DeepEqual(inside, []string{"payload/data.csv"}) {
		t.Errorf("Ls payload/ = %v, want [payload/data.csv]", inside)
	}

	// No trailing slash resolves to the same implicit directory.
	noSlash, err := n.Ls("payload", false)
	if err != nil {
		t.Fatalf("Ls payload: %v", err)
	}
	if !reflect.DeepEqual(noSlash, inside) {
		t.Errorf("Ls payload = %v, want %v", noSlash, inside)
	}
}

func TestLsRecursive(t *testing.T) {
	n := openTestNav(t, map[string]string{
		"a/b/c.txt": "c",
		"a/d.txt":   "d",
		"top.txt":   "t",
	})

	got, err := n.Ls("", true)
	if err != nil {
		t.Fatalf("Ls recursive: %v", err)
	}
	want := []string{"a/", "a/b/", "a/b/c.txt", "a/d.txt", "top.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ls recursive = %v, want %v", got, want)
	}
}

func TestLsErrors(t *testing.T) {
	n := openTestNav(t, map[string]string{"file.txt": "x"})

	if _, err := n.Ls("file.txt", false); !errors.Is(err, nav.ErrNotADirectory) {
		t.Errorf("Ls on file = %v, want ErrNotADirectory", err)
	}
	if _, err := n.Ls("missing", false); !errors.Is(err, nav.ErrNotFound) {
		t.Errorf("Ls on missing = %v, want ErrNotFound", err)
	}
}

func TestCd(t *testing.T) {
	n := openTestNav(t, map[string]string{
		"payload/sub/data.csv": "1",
		"file.txt":             "x",
	})

	if pwd := n.Pwd(); pwd != "/" {
		t.Fatalf("initial Pwd = %q, want /", pwd)
	}

	pwd, err := n.Cd("payload")
	if err != nil {
		t.Fatalf("Cd payload: %v", err)
	}
	if pwd != "/payload/" {
		t.Errorf("Pwd after Cd = %q, want /payload/", pwd)
	}

	// Relative navigation from the new base.
	if _, err := n.Cd("sub"); err != nil {
		t.Fatalf("Cd sub: %v", err)
	}
	if pwd := n.Pwd(); pwd != "/payload/sub/" {
		t.Errorf("Pwd = %q, want /payload/sub/", pwd)
	}

	if _, err := n.Cd(".."); err != nil {
		t.Fatalf("Cd ..: %v", err)
	}
	if pwd := n.Pwd(); pwd != "/payload/" {
		t.Errorf("Pwd = %q, want /payload/", pwd)
	}

	if _, err := n.Cd("/"); err != nil {
		t.Fatalf("Cd /: %v", err)
	}
	if pwd := n.Pwd(); pwd != "/" {
		t.Errorf("Pwd = %q, want /", pwd)
	}

	if _, err := n.Cd("file.txt"); !errors.Is(err, nav.ErrNotADirectory) {
		t.Errorf("Cd onto file = %v, want ErrNotADirectory", err)
	}
	if _, err := n.Cd("missing"); !errors.Is(err, nav.ErrNotFound) {
		t.Errorf("Cd missing = %v, want ErrNotFound", err)
	}
	if _, err := n.Cd(".."); !errors.Is(err, vpath.ErrInvalidPath) {
		t.Errorf("Cd above root = %v, want ErrInvalidPath", err)
	}
}

func TestCat(t *testing.T) {
	n := openTestNav(t, map[string]string{
		"docs/readme.md": "# hello\n",
	})

	data, err := n.Cat("docs/readme.md")
	if err != nil {
		t.Fatalf("Cat: %v", err)
	}
	if string(data) != "# hello\n" {
		t.Errorf("Cat = %q", data)
	}

	text, err := n.CatString("docs/readme.md")
	if err != nil {
		t.Fatalf("CatString: %v", err)
	}
	if text != "# hello\n" {
		t.Errorf("CatString = %q", text)
	}

	if _, err := n.Cat("docs"); !errors.Is(err, nav.ErrIsADirectory) {
		t.Errorf("Cat on dir = %v, want ErrIsADirectory", err)
	}
	if _, err := n.Cat("missing.md"); !errors.Is(err, nav.ErrNotFound) {
		t.Errorf("Cat missing = %v, want ErrNotFound", err)
	}
}

func TestInfo(t *testing.T) {
	n := openTestNav(t, map[string]string{
		"data/values.csv": "1,2,3\n4,5,6\n",
	})

	fi, err := n.Info("data/values.csv")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if fi.Name != "data/values.csv" {
		t.Errorf("Name = %q", fi.Name)
	}
	if fi.Size != 12 {
		t.Errorf("Size = %d, want 12", fi.Size)
	}
	if fi.Method != "DEFLATED" {
		t.Errorf("Method = %q, want DEFLATED", fi.Method)
	}
	if fi.CRC32 == 0 {
		t.Error("CRC32 should be non-zero for this content")
	}

	if _, err := n.Info("data"); !errors.Is(err, nav.ErrIsADirectory) {
		t.Errorf("Info on dir = %v, want ErrIsADirectory", err)
	}
	if _, err := n.Info("nope.csv"); !errors.Is(err, nav.ErrNotFound) {
		t.Errorf("Info missing = %v, want ErrNotFound", err)
	}
}

func TestExistsIsDirIsFile(t *testing.T) {
	n := openTestNav(t, map[string]string{
		"payload/data.csv": "x",
	})

	if !n.Exists("payload") || !n.Exists("payload/data.csv") {
		t.Error("Exists should be true for dir and file")
	}
	if n.Exists("nope") {
		t.Error("Exists should be false for missing path")
	}
	if !n.IsDir("payload") || !n.IsDir("/") {
		t.Error("IsDir should be true for implicit dir and root")
	}
	if n.IsDir("payload/data.csv") {
		t.Error("IsDir should be false for a file")
	}
	if !n.IsFile("payload/data.csv") {
		t.Error("IsFile should be true for a member")
	}
	if n.IsFile("payload") {
		t.Error("IsFile should be false for a directory")
	}
	if n.Exists("../outside") {
		t.Error("Exists should be false for an escaping path")
	}
}

func TestScanFilesUnder(t *testing.T) {
	n := openTestNav(t, map[string]string{
		"data/a.txt":     "a",
		"data/sub/b.txt": "b",
		"docs/readme.md": "r",
	})

	all, err := n.ScanFilesUnder("")
	if err != nil {
		t.Fatalf("ScanFilesUnder root: %v", err)
	}
	want := []string{"data/a.txt", "data/sub/b.txt", "docs/readme.md"}
	if !reflect.DeepEqual(all, want) {
		t.Errorf("ScanFilesUnder root = %v, want %v", all, want)
	}

	if _, err := n.Cd("data"); err != nil {
		t.Fatalf("Cd: %v", err)
	}
	scoped, err := n.ScanFilesUnder("")
	if err != nil {
		t.Fatalf("ScanFilesUnder data: %v", err)
	}
	want = []string{"data/a.txt", "data/sub/b.txt"}
	if !reflect.DeepEqual(scoped, want) {
		t.Errorf("ScanFilesUnder data = %v, want %v", scoped, want)
	}

	missing, err := n.ScanFilesUnder("/nowhere")
	if err != nil {
		t.Fatalf("ScanFilesUnder missing: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("ScanFilesUnder missing = %v, want empty", missing)
	}
}

func TestHash(t *testing.T) {
	n := openTestNav(t, map[string]string{
		"a.txt":      "same content",
		"b.txt":      "same content",
		"other.txt":  "different",
		"docs/d.txt": "x",
	})

	ha, err := n.Hash("a.txt")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if len(ha) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(ha))
	}

	hb, _ := n.Hash("b.txt")
	if ha != hb {
		t.Error("identical content should hash identically")
	}
	ho, _ := n.Hash("other.txt")
	if ha == ho {
		t.Error("different content should hash differently")
	}

	if _, err := n.Hash("docs"); !errors.Is(err, nav.ErrIsADirectory) {
		t.Errorf("Hash on dir = %v, want ErrIsADirectory", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	n, err := nav.Open(writeTestZip(t, map[string]string{"a.txt": "a"}))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

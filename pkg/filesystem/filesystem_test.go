//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package filesystem_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/frame-exporter/pkg/filesystem"
)

func TestMockFileSystem_CreateAndOpen(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()

	file, err := fs.Create("/downloads/frame.png")
	g.Expect(err).ShouldNot(HaveOccurred())
	_, err = file.Write([]byte("pixels"))
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(file.Close()).To(Succeed())

	reader, err := fs.Open("/downloads/frame.png")
	g.Expect(err).ShouldNot(HaveOccurred())
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(string(data)).To(Equal("pixels"))

	info, err := fs.Stat("/downloads")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(info.IsDir()).To(BeTrue(), "Create should make parent directories")
}

func TestMockFileSystem_Stat(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	modTime := time.Now().Add(-1 * time.Hour)
	fs.AddFile("test.txt", []byte("test"), modTime)

	info, err := fs.Stat("test.txt")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(info.Name()).To(Equal("test.txt"))
	g.Expect(info.Size()).To(Equal(int64(4)))
	g.Expect(info.ModTime().Equal(modTime)).To(BeTrue())

	_, err = fs.Stat("missing.txt")
	g.Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
}

func TestMockFileSystem_RemoveRefusesNonEmptyDirectory(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("dir/file.txt", []byte("x"), time.Now())

	err := fs.Remove("dir")
	g.Expect(errors.Is(err, filesystem.ErrNotEmpty)).To(BeTrue())

	g.Expect(fs.Remove("dir/file.txt")).To(Succeed())
	g.Expect(fs.Remove("dir")).To(Succeed())
	g.Expect(fs.Exists("dir")).To(BeFalse())
}

func TestMockFileSystem_RemoveAll(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/scratch/a.png", []byte("a"), time.Now())
	fs.AddFile("/scratch/sub/b.png", []byte("b"), time.Now())
	fs.AddFile("/scratchy/keep.png", []byte("c"), time.Now())

	g.Expect(fs.RemoveAll("/scratch")).To(Succeed())
	g.Expect(fs.RemoveAll("/never-existed")).To(Succeed())

	g.Expect(fs.ListFiles()).To(Equal([]string{"/scratchy/keep.png"}))
}

func TestMockFileSystem_Scan(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("root/file2.txt", []byte("content2"), time.Now())
	fs.AddFile("root/file1.txt", []byte("content1"), time.Now())
	fs.AddFile("root/subdir/file3.txt", []byte("content3"), time.Now())

	var visited []string
	scanner := fs.Scan("root")
	for info, ok := scanner.Next(); ok; info, ok = scanner.Next() {
		visited = append(visited, info.RelativePath)
	}

	g.Expect(scanner.Err()).ShouldNot(HaveOccurred())
	g.Expect(visited).To(Equal([]string{
		"file1.txt",
		"file2.txt",
		"subdir",
		filepath.Join("subdir", "file3.txt"),
	}))
}

func TestMockFileSystem_ScanMissingRoot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scanner := filesystem.NewMockFileSystem().Scan("nope")
	_, ok := scanner.Next()

	g.Expect(ok).To(BeFalse())
	g.Expect(errors.Is(scanner.Err(), os.ErrNotExist)).To(BeTrue())
}

func TestMockFileSystem_InjectedFailures(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	boom := errors.New("permission denied")
	fs.AddFile("in.png", []byte("x"), time.Now())
	fs.FailOpen("in.png", boom)
	fs.FailCreate("out.png", boom)

	_, err := fs.Open("in.png")
	g.Expect(err).To(MatchError(boom))

	_, err = fs.Create("out.png")
	g.Expect(err).To(MatchError(boom))
}

func TestRealFileSystem_ScanAndCollect(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	g.Expect(os.WriteFile(filepath.Join(dir, "clip_frame_0002.png"), []byte("b"), 0o600)).To(Succeed())
	g.Expect(os.WriteFile(filepath.Join(dir, "clip_frame_0001.png"), []byte("a"), 0o600)).To(Succeed())
	g.Expect(os.Mkdir(filepath.Join(dir, "nested"), 0o750)).To(Succeed())

	files, err := filesystem.CollectFiles(filesystem.NewRealFileSystem().Scan(dir))
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(files).To(HaveLen(2))
	g.Expect(files[0].RelativePath).To(Equal("clip_frame_0001.png"))
	g.Expect(files[1].RelativePath).To(Equal("clip_frame_0002.png"))
	g.Expect(files[0].Size).To(Equal(int64(1)))
}

func TestRealFileSystem_ScanMissingDirectory(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := filesystem.CollectFiles(filesystem.NewRealFileSystem().Scan(filepath.Join(t.TempDir(), "missing")))
	g.Expect(err).To(HaveOccurred())
}

func TestRealFileSystem_RemoveAll(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewRealFileSystem()
	dir := filepath.Join(t.TempDir(), "framesTemp")
	g.Expect(fs.MkdirAll(filepath.Join(dir, "a"), 0o750)).To(Succeed())

	created, err := fs.Create(filepath.Join(dir, "a", "x.png"))
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(created.Close()).To(Succeed())

	g.Expect(fs.RemoveAll(dir)).To(Succeed())

	_, err = fs.Stat(dir)
	g.Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
}

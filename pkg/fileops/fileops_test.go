//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package fileops_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/frame-exporter/pkg/fileops"
	"github.com/joe/frame-exporter/pkg/filesystem"
)

func TestCopyFile_RealFileSystem(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	srcDir := t.TempDir()
	dstDir := t.TempDir()
	src := filepath.Join(srcDir, "clip_frame_0001.png")
	dst := filepath.Join(dstDir, "nested", "clip_frame_0001.png")
	g.Expect(os.WriteFile(src, []byte("frame bytes"), 0o600)).To(Succeed())

	var lastTransferred, lastTotal int64
	ops := fileops.NewFileOps(filesystem.NewRealFileSystem())

	stats, err := ops.CopyFile(context.Background(), src, dst, func(transferred, total int64, _ string) {
		lastTransferred, lastTotal = transferred, total
	})
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(stats.BytesCopied).To(Equal(int64(11)))
	g.Expect(lastTransferred).To(Equal(int64(11)))
	g.Expect(lastTotal).To(Equal(int64(11)))

	data, err := os.ReadFile(dst)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(string(data)).To(Equal("frame bytes"))
}

func TestCopyFile_AcrossFileSystems(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "a.png")
	payload := bytes.Repeat([]byte{0xAB}, fileops.BufferSize*2+17)
	g.Expect(os.WriteFile(src, payload, 0o600)).To(Succeed())

	dest := filesystem.NewMockFileSystem()
	ops := fileops.NewDualFileOps(filesystem.NewRealFileSystem(), dest)

	stats, err := ops.CopyFile(context.Background(), src, "/remote/Downloads/a.png", nil)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(stats.BytesCopied).To(Equal(int64(len(payload))))

	data, err := dest.GetFile("/remote/Downloads/a.png")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(data).To(Equal(payload))
}

func TestCopyFile_MissingSource(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ops := fileops.NewFileOps(filesystem.NewMockFileSystem())

	_, err := ops.CopyFile(context.Background(), "/nope.png", "/out/nope.png", nil)
	g.Expect(err).To(HaveOccurred())
	g.Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
}

func TestCopyFile_CancelledRemovesPartialFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/scratch/a.png", []byte("data"), time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fileops.NewFileOps(fs).CopyFile(ctx, "/scratch/a.png", "/out/a.png", nil)
	g.Expect(errors.Is(err, fileops.ErrCopyCancelled)).To(BeTrue())
	g.Expect(fs.Exists("/out/a.png")).To(BeFalse())
}

func TestCopyFile_CreateFailure(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/scratch/a.png", []byte("data"), time.Now())
	fs.FailCreate("/out/a.png", errors.New("no space left on device"))

	_, err := fileops.NewFileOps(fs).CopyFile(context.Background(), "/scratch/a.png", "/out/a.png", nil)
	g.Expect(err).To(MatchError(ContainSubstring("no space left on device")))
}

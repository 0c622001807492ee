package filestore_test

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/filestore"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStore", func() {
	var (
		ctx   context.Context
		store filestore.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		store, err = filestore.New(ctx, internal.StorageConfig{
			Driver:    internal.StorageDriverLocal,
			UploadDir: GinkgoT().TempDir(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("reads back what was stored", func() {
		Expect(store.Put(ctx, "abc_report.txt", strings.NewReader("hello"), 5, "text/plain")).To(Succeed())

		rc, err := store.Open(ctx, "abc_report.txt")
		Expect(err).NotTo(HaveOccurred())
		defer rc.Close()
		data, err := io.ReadAll(rc)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("hello"))
	})

	It("never overwrites an existing blob", func() {
		Expect(store.Put(ctx, "same.txt", strings.NewReader("one"), 3, "")).To(Succeed())
		Expect(store.Put(ctx, "same.txt", strings.NewReader("two"), 3, "")).NotTo(Succeed())
	})

	It("rejects names that are not a single path segment", func() {
		for _, name := range []string{"../escape.txt", "sub/dir.txt", "..", ""} {
			_, err := store.Open(ctx, name)
			Expect(errors.Is(err, internal.ErrFileNotFound)).To(BeTrue(), name)
		}
		Expect(store.Put(ctx, "../escape.txt", strings.NewReader("x"), 1, "")).NotTo(Succeed())
	})

	It("reports missing blobs and deletes idempotently", func() {
		_, err := store.Open(ctx, "missing.txt")
		Expect(errors.Is(err, internal.ErrFileNotFound)).To(BeTrue())

		Expect(store.Put(ctx, "gone.txt", strings.NewReader("x"), 1, "")).To(Succeed())
		Expect(store.Delete(ctx, "gone.txt")).To(Succeed())
		Expect(store.Delete(ctx, "gone.txt")).To(Succeed())
		_, err = store.Open(ctx, "gone.txt")
		Expect(errors.Is(err, internal.ErrFileNotFound)).To(BeTrue())
	})

	It("refuses unknown drivers", func() {
		_, err := filestore.New(ctx, internal.StorageConfig{Driver: "ftp"})
		Expect(err).To(HaveOccurred())
	})
})

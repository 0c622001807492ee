package comment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/comment"
	"github.com/frahmantamala/grievance-management/internal/comment/postgres"
	commentDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/comment"
	userDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type knownGrievances map[string]bool

func (k knownGrievances) Exists(_ context.Context, id string) (bool, error) {
	return k[id], nil
}

var _ = Describe("Comment Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *comment.Service
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{}, &commentDatamodel.Comment{})).To(Succeed())

		Expect(db.Create(&userDatamodel.User{ID: "alice", Name: "Alice", Email: "alice@example.com", PasswordHash: "x", Role: "submitter"}).Error).To(Succeed())
		Expect(db.Create(&userDatamodel.User{ID: "sam", Name: "Sam", Email: "sam@example.com", PasswordHash: "x", Role: "staff"}).Error).To(Succeed())

		service = comment.NewService(postgres.NewCommentRepository(db), knownGrievances{"g1": true, "g2": true},
			slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("returns the new comment with its author name", func() {
		c, err := service.AddComment(ctx, "g1", "alice", comment.CreateCommentDTO{Content: "  any update?  "})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Content).To(Equal("any update?"))
		Expect(c.UserName).To(Equal("Alice"))
		Expect(c.GrievanceID).To(Equal("g1"))
	})

	It("lists comments of one grievance oldest first", func() {
		for _, step := range []struct{ author, text string }{
			{"alice", "first"},
			{"sam", "second"},
			{"alice", "third"},
		} {
			_, err := service.AddComment(ctx, "g1", step.author, comment.CreateCommentDTO{Content: step.text})
			Expect(err).NotTo(HaveOccurred())
		}
		_, err := service.AddComment(ctx, "g2", "sam", comment.CreateCommentDTO{Content: "elsewhere"})
		Expect(err).NotTo(HaveOccurred())

		comments, err := service.ListComments(ctx, "g1")
		Expect(err).NotTo(HaveOccurred())
		Expect(comments).To(HaveLen(3))
		Expect([]string{comments[0].Content, comments[1].Content, comments[2].Content}).
			To(Equal([]string{"first", "second", "third"}))
		Expect(comments[1].UserName).To(Equal("Sam"))
	})

	It("returns an empty list for a grievance without comments", func() {
		comments, err := service.ListComments(ctx, "g2")
		Expect(err).NotTo(HaveOccurred())
		Expect(comments).NotTo(BeNil())
		Expect(comments).To(BeEmpty())
	})

	It("rejects unknown grievances", func() {
		_, err := service.AddComment(ctx, "nope", "alice", comment.CreateCommentDTO{Content: "hello"})
		Expect(errors.Is(err, internal.ErrGrievanceNotFound)).To(BeTrue())

		_, err = service.ListComments(ctx, "nope")
		Expect(errors.Is(err, internal.ErrGrievanceNotFound)).To(BeTrue())
	})

	It("rejects empty content", func() {
		_, err := service.AddComment(ctx, "g1", "alice", comment.CreateCommentDTO{Content: "   "})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
	})
})

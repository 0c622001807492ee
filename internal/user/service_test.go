package user_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/frahmantamala/grievance-management/internal"
	userDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/grievance-management/internal/core/user"
	"github.com/frahmantamala/grievance-management/internal/user"
	"github.com/frahmantamala/grievance-management/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func strPtr(s string) *string { return &s }

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *user.Service
	)

	register := func(email, role string) *user.User {
		u, err := service.CreateUser(ctx, user.CreateUserDTO{
			Name:       "Jane Doe",
			Email:      email,
			Password:   "password123",
			Role:       role,
			Department: "Roads",
		})
		Expect(err).NotTo(HaveOccurred())
		return u
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		service = user.NewService(postgres.NewUserRepository(db), bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("CreateUser", func() {
		It("hashes the password and normalizes the email", func() {
			u := register("  Jane@Example.COM ", "staff")
			Expect(u.Email).To(Equal("jane@example.com"))
			Expect(u.Role).To(Equal(coreUser.RoleStaff))
			Expect(u.PasswordHash).NotTo(Equal("password123"))
			Expect(u.CheckPassword("password123")).To(BeTrue())
		})

		It("maps unknown roles to submitter", func() {
			u := register("civ@example.com", "Civilian")
			Expect(u.Role).To(Equal(coreUser.RoleSubmitter))
		})

		It("rejects a duplicate email", func() {
			register("jane@example.com", "submitter")
			_, err := service.CreateUser(ctx, user.CreateUserDTO{
				Name: "Other", Email: "JANE@example.com", Password: "password123", Role: "staff", Department: "Parks",
			})
			Expect(errors.Is(err, internal.ErrEmailTaken)).To(BeTrue())
		})

		It("requires every field", func() {
			_, err := service.CreateUser(ctx, user.CreateUserDTO{Email: "x@example.com", Password: "password123"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("rejects short passwords", func() {
			_, err := service.CreateUser(ctx, user.CreateUserDTO{
				Name: "Jane", Email: "jane@example.com", Password: "short", Role: "staff", Department: "Roads",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("VerifyCredential", func() {
		BeforeEach(func() {
			register("jane@example.com", "submitter")
		})

		It("accepts the right password", func() {
			u, err := service.VerifyCredential(ctx, "jane@example.com", "password123")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Email).To(Equal("jane@example.com"))
		})

		It("gives the same error for a wrong password and an unknown email", func() {
			_, err := service.VerifyCredential(ctx, "jane@example.com", "wrong-password")
			Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())

			_, err = service.VerifyCredential(ctx, "nobody@example.com", "password123")
			Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())
		})
	})

	Describe("UpdateProfile", func() {
		It("changes only the given fields", func() {
			u := register("jane@example.com", "submitter")
			updated, err := service.UpdateProfile(ctx, u.ID, user.UpdateProfileDTO{Department: strPtr("Parks")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Department).To(Equal("Parks"))
			Expect(updated.Name).To(Equal("Jane Doe"))
			Expect(updated.CheckPassword("password123")).To(BeTrue())
		})

		It("rehashes a new password", func() {
			u := register("jane@example.com", "submitter")
			_, err := service.UpdateProfile(ctx, u.ID, user.UpdateProfileDTO{Password: strPtr("new-password")})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.VerifyCredential(ctx, "jane@example.com", "new-password")
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an empty body", func() {
			u := register("jane@example.com", "submitter")
			_, err := service.UpdateProfile(ctx, u.ID, user.UpdateProfileDTO{})
			Expect(errors.Is(err, internal.ErrNoValidFields)).To(BeTrue())
		})

		It("reports unknown users", func() {
			_, err := service.UpdateProfile(ctx, "missing", user.UpdateProfileDTO{Name: strPtr("X")})
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})

	Describe("ResetPasswordByID", func() {
		It("replaces the password", func() {
			u := register("jane@example.com", "submitter")
			Expect(service.ResetPasswordByID(ctx, u.ID, "brand-new-pass")).To(Succeed())

			_, err := service.VerifyCredential(ctx, "jane@example.com", "password123")
			Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())
			_, err = service.VerifyCredential(ctx, "jane@example.com", "brand-new-pass")
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports unknown users", func() {
			err := service.ResetPasswordByID(ctx, "missing", "brand-new-pass")
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})

	Describe("ListByDepartment", func() {
		It("returns members of the department only", func() {
			register("a@example.com", "staff")
			register("b@example.com", "staff")
			_, err := service.CreateUser(ctx, user.CreateUserDTO{
				Name: "Other", Email: "c@example.com", Password: "password123", Role: "staff", Department: "Parks",
			})
			Expect(err).NotTo(HaveOccurred())

			users, err := service.ListByDepartment(ctx, "Roads")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))

			users, err = service.ListByDepartment(ctx, "Nowhere")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(BeEmpty())
		})
	})

	Describe("EnsureAdmin", func() {
		It("creates the admin once", func() {
			created, err := service.EnsureAdmin(ctx, "Admin", "admin@example.com", "admin-password", "Administration")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())

			created, err = service.EnsureAdmin(ctx, "Admin", "admin@example.com", "admin-password", "Administration")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
		})
	})
})

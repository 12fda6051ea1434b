package auth

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// mockUserRepository serves both credential and role lookups.
type mockUserRepository struct {
	byEmail map[string]*user.User
	byID    map[int64]*user.User
	err     error
}

func newMockUserRepository(users ...*user.User) *mockUserRepository {
	m := &mockUserRepository{byEmail: map[string]*user.User{}, byID: map[int64]*user.User{}}
	for _, u := range users {
		m.byEmail[u.Email] = u
		m.byID[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) FindUserByEmail(_ context.Context, email string) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byEmail[email], nil
}

func (m *mockUserRepository) FindUserByID(_ context.Context, id int64) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byID[id], nil
}

func hashed(password string) string {
	hash, err := HashPassword(password, bcrypt.MinCost)
	Expect(err).NotTo(HaveOccurred())
	return hash
}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		repo    *mockUserRepository
		service *Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockUserRepository(&user.User{
			ID:           7,
			Email:        "sales@epic.io",
			PasswordHash: hashed("correct_password"),
			Role:         user.RoleSales,
		})
		service = NewService(repo, NewJWTTokenGenerator(testSecret, time.Hour), logger.Discard())
	})

	Describe("Authenticate", func() {
		It("issues a token that verifies back to the same identity", func() {
			// Given valid credentials
			result, err := service.Authenticate(ctx, LoginDTO{Email: "sales@epic.io", Password: "correct_password"})

			// Then a token is returned
			Expect(err).NotTo(HaveOccurred())
			Expect(result.AccessToken).NotTo(BeEmpty())
			Expect(result.ExpiresAt).To(BeTemporally(">", time.Now()))

			// And it verifies to the user
			id, err := service.Verify(result.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(Identity{UserID: 7, Email: "sales@epic.io", Role: user.RoleSales}))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Email: "sales@epic.io", Password: "nope"})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("rejects an unknown email the same way", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Email: "ghost@epic.io", Password: "correct_password"})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("validates the payload before touching the repository", func() {
			repo.err = errors.New("should not be called")
			_, err := service.Authenticate(ctx, LoginDTO{Email: "not-an-email", Password: ""})
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("reports repository failures as internal errors", func() {
			repo.err = errors.New("connection refused")
			_, err := service.Authenticate(ctx, LoginDTO{Email: "sales@epic.io", Password: "correct_password"})
			Expect(internal.IsErrorType(err, internal.ErrorTypeInternal)).To(BeTrue())
		})
	})

	Describe("Verify", func() {
		It("fails with TOKEN_MISSING for an empty token", func() {
			_, err := service.Verify("")
			Expect(internal.HasErrorCode(err, internal.ErrCodeTokenMissing)).To(BeTrue())
		})

		It("fails with INVALID_TOKEN for a token signed with another secret", func() {
			other := NewJWTTokenGenerator("another-secret-another-secret-!!", time.Hour)
			token, _, err := other.GenerateAccessToken(Identity{UserID: 7})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Verify(token)
			Expect(internal.HasErrorCode(err, internal.ErrCodeInvalidToken)).To(BeTrue())
		})

		It("fails with TOKEN_EXPIRED for an expired token", func() {
			expired := NewJWTTokenGenerator(testSecret, -time.Minute)
			token, _, err := expired.GenerateAccessToken(Identity{UserID: 7})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Verify(token)
			Expect(internal.HasErrorCode(err, internal.ErrCodeTokenExpired)).To(BeTrue())
		})
	})
})

var _ = Describe("Password hashing", func() {
	It("never stores the plaintext and verifies the original", func() {
		hash, err := HashPassword("s3cret!", bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		Expect(hash).NotTo(ContainSubstring("s3cret!"))
		Expect(VerifyPassword(hash, "s3cret!")).To(BeTrue())
		Expect(VerifyPassword(hash, "other")).To(BeFalse())
	})
})

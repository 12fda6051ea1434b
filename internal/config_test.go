package internal_test

import (
	"fmt"
	"time"

	"github.com/frahmantamala/epic-crm/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var cfg *internal.Config

	BeforeEach(func() {
		cfg = &internal.Config{
			Server: internal.ServerConfig{
				Port:              8080,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
			},
			Database: internal.DatabaseConfig{
				Driver:       internal.DriverSQLite,
				Source:       "epic.db",
				MaxOpenConns: 1,
				MaxIdleConns: 1,
			},
			Security: internal.SecurityConfig{
				JWTSecret:           "0123456789abcdef0123456789abcdef",
				AccessTokenDuration: time.Hour,
				BCryptCost:          10,
				MasterPassword:      "master",
				TokenFile:           ".epic-token",
			},
			Observability: internal.ObservabilityConfig{
				Logging: internal.LoggingConfig{Level: "info", Format: "text"},
			},
		}
	})

	It("accepts a complete configuration", func() {
		Expect(cfg.Validate()).To(Succeed())
	})

	It("rejects an unknown driver", func() {
		cfg.Database.Driver = "mysql"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring(`unsupported driver "mysql"`)))
	})

	It("rejects a short jwt secret", func() {
		cfg.Security.JWTSecret = "short"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("jwt_secret")))
	})

	It("requires a master password", func() {
		cfg.Security.MasterPassword = ""
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("master_password")))
	})

	It("reports every broken section at once", func() {
		cfg.Server.Port = 70000
		cfg.Observability.Logging.Format = "xml"
		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("server config")))
		Expect(err).To(MatchError(ContainSubstring("logging config")))
	})

	It("reads the environment in containers", func() {
		GinkgoT().Setenv("DB_SOURCE", "postgres://epic@db/epic")
		GinkgoT().Setenv("HTTP_PORT", "9090")
		env := internal.LoadConfigFromEnv()
		Expect(env.Database.Driver).To(Equal(internal.DriverPostgres))
		Expect(env.Database.Source).To(Equal("postgres://epic@db/epic"))
		Expect(env.Server.Port).To(Equal(9090))
	})
})

var _ = Describe("AppError", func() {
	It("joins every field message of a validation error", func() {
		err := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "email", Message: "email is required"},
				{Field: "phone", Message: "phone is required"},
			}})
		Expect(err.GetDetailedMessage()).To(Equal("email is required; phone is required"))
		Expect(err.Error()).To(Equal("email is required"))
	})

	It("is found through wrapping", func() {
		wrapped := fmt.Errorf("lookup: %w", internal.NewNotFoundError("Client 3 not found", internal.ErrCodeClientNotFound))
		Expect(internal.IsErrorType(wrapped, internal.ErrorTypeNotFound)).To(BeTrue())
		Expect(internal.HasErrorCode(wrapped, internal.ErrCodeClientNotFound)).To(BeTrue())
	})
})

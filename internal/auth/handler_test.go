package auth_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/task-tracker/internal/auth"
	authPostgres "github.com/frahmantamala/task-tracker/internal/auth/postgres"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Auth Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *auth.Handler
		slogger *slog.Logger
	)

	do := func(h http.HandlerFunc, method, path, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return handler.AuthMiddleware(h).ServeHTTP
	}

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(datamodel.Models()...)).To(Succeed())

		repo := authPostgres.NewRepository(db)
		service := auth.NewService(repo, auth.NewJWTTokenGenerator("handler-secret", time.Hour), bcrypt.MinCost, slogger)
		handler = auth.NewHandler(transport.NewBaseHandler(slogger), service)
	})

	It("should register, login and load the profile", func() {
		w := do(handler.Register, http.MethodPost, "/api/auth/register",
			`{"firstName":"Ann","lastName":"Lee","email":"a@x.com","password":"p1"}`, "")
		Expect(w.Code).To(Equal(http.StatusCreated))

		var registered auth.AuthResponse
		Expect(json.NewDecoder(w.Body).Decode(&registered)).To(Succeed())
		Expect(registered.Token).NotTo(BeEmpty())
		Expect(registered.User.FullName).To(Equal("Ann Lee"))

		w = do(handler.Login, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"p1"}`, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var loggedIn auth.AuthResponse
		Expect(json.NewDecoder(w.Body).Decode(&loggedIn)).To(Succeed())
		Expect(loggedIn.User.ID).To(Equal(registered.User.ID))

		w = do(protected(handler.GetProfile), http.MethodGet, "/api/auth/profile", "", loggedIn.Token)
		Expect(w.Code).To(Equal(http.StatusOK))
		var profile auth.ProfileResponse
		Expect(json.NewDecoder(w.Body).Decode(&profile)).To(Succeed())
		Expect(profile.Username).To(Equal("a@x.com"))
		Expect(profile.WorkerProfile).To(BeNil())
	})

	It("should include the linked worker in the profile", func() {
		w := do(handler.Register, http.MethodPost, "/api/auth/register",
			`{"firstName":"Ann","lastName":"Lee","email":"a@x.com","password":"p1"}`, "")
		var registered auth.AuthResponse
		Expect(json.NewDecoder(w.Body).Decode(&registered)).To(Succeed())

		dept := &datamodel.Department{Name: "Engineering"}
		Expect(db.Create(dept).Error).To(Succeed())
		pos := &datamodel.Position{Name: "Developer", DepartmentID: dept.ID}
		Expect(db.Create(pos).Error).To(Succeed())
		Expect(db.Create(&datamodel.Worker{
			FirstName: "Ann", LastName: "Lee", DepartmentID: dept.ID, PositionID: pos.ID, UserProfileID: &registered.User.ID,
		}).Error).To(Succeed())

		w = do(protected(handler.GetProfile), http.MethodGet, "/api/auth/profile", "", registered.Token)
		Expect(w.Code).To(Equal(http.StatusOK))
		var profile auth.ProfileResponse
		Expect(json.NewDecoder(w.Body).Decode(&profile)).To(Succeed())
		Expect(profile.WorkerProfile).NotTo(BeNil())
		Expect(profile.WorkerProfile.Department.Name).To(Equal("Engineering"))
		Expect(profile.WorkerProfile.Position.Name).To(Equal("Developer"))
	})

	It("should answer 401 Invalid credentials for a wrong password", func() {
		do(handler.Register, http.MethodPost, "/api/auth/register",
			`{"firstName":"Ann","lastName":"Lee","email":"a@x.com","password":"p1"}`, "")

		w := do(handler.Login, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"wrong"}`, "")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["error"]).To(BeTrue())
		Expect(body["message"]).To(Equal("Invalid credentials"))
	})

	It("should answer 409 for a duplicate registration", func() {
		body := `{"firstName":"Ann","lastName":"Lee","email":"a@x.com","password":"p1"}`
		do(handler.Register, http.MethodPost, "/api/auth/register", body, "")

		w := do(handler.Register, http.MethodPost, "/api/auth/register", body, "")

		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should reject protected routes without a token", func() {
		w := do(protected(handler.GetProfile), http.MethodGet, "/api/auth/profile", "", "")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Body.String()).To(ContainSubstring("No token provided"))
	})

	It("should reject a malformed body", func() {
		w := do(handler.Login, http.MethodPost, "/api/auth/login", `{"email":`, "")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Invalid request body"))
	})

	It("should update the profile", func() {
		w := do(handler.Register, http.MethodPost, "/api/auth/register",
			`{"firstName":"Ann","lastName":"Lee","email":"a@x.com","password":"p1"}`, "")
		var registered auth.AuthResponse
		Expect(json.NewDecoder(w.Body).Decode(&registered)).To(Succeed())

		w = do(protected(handler.UpdateProfile), http.MethodPut, "/api/auth/profile",
			`{"fullName":"Ann Lee Kim","currentPassword":"p1","newPassword":"p2"}`, registered.Token)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"fullName":"Ann Lee Kim"`))

		w = do(handler.Login, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"p2"}`, "")
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})

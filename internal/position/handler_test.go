package position_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/position"
	positionPostgres "github.com/frahmantamala/task-tracker/internal/position/postgres"
	"github.com/frahmantamala/task-tracker/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Position Handler Integration", func() {
	var (
		db          *gorm.DB
		router      chi.Router
		engineering *datamodel.Department
		sales       *datamodel.Department
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		return w
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(datamodel.Models()...)).To(Succeed())

		engineering = &datamodel.Department{Name: "Engineering"}
		sales = &datamodel.Department{Name: "Sales"}
		Expect(db.Create(engineering).Error).To(Succeed())
		Expect(db.Create(sales).Error).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := position.NewService(positionPostgres.NewPositionRepository(db), slogger)
		h := position.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/positions", h.List)
		router.Post("/positions", h.Create)
		router.Get("/positions/{id}", h.GetByID)
		router.Put("/positions/{id}", h.Update)
		router.Delete("/positions/{id}", h.Delete)
	})

	It("should create a position and return it with its department", func() {
		w := do(http.MethodPost, "/positions", `{"name":"Developer","description":"Writes code","departmentId":1}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var got position.PositionResponse
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.Department).NotTo(BeNil())
		Expect(got.Department.Name).To(Equal("Engineering"))
		Expect(got.Workers).To(BeEmpty())
	})

	It("should filter by department", func() {
		do(http.MethodPost, "/positions", `{"name":"Developer","departmentId":1}`)
		do(http.MethodPost, "/positions", `{"name":"Account Manager","departmentId":2}`)

		w := do(http.MethodGet, "/positions?department=2", "")

		var got []position.PositionResponse
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got).To(HaveLen(1))
		Expect(got[0].Name).To(Equal("Account Manager"))
	})

	It("should name the bad reference field", func() {
		w := do(http.MethodPost, "/positions", `{"name":"Developer","departmentId":99}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var body struct {
			Message string `json:"message"`
			Errors  []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"errors"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Message).To(Equal("Validation error"))
		Expect(body.Errors).To(HaveLen(1))
		Expect(body.Errors[0].Field).To(Equal("departmentId"))
	})

	It("should block deleting a position that workers hold", func() {
		do(http.MethodPost, "/positions", `{"name":"Developer","departmentId":1}`)
		Expect(db.Create(&datamodel.Worker{FirstName: "Ann", LastName: "Lee", DepartmentID: 1, PositionID: 1}).Error).To(Succeed())

		w := do(http.MethodDelete, "/positions/1", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w = do(http.MethodGet, "/positions/1", "")
		var got position.PositionResponse
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.Workers).To(HaveLen(1))
		Expect(got.Workers[0].Department.Name).To(Equal("Engineering"))
	})
})

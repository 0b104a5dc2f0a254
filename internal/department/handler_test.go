package department_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/department"
	departmentPostgres "github.com/frahmantamala/task-tracker/internal/department/postgres"
	"github.com/frahmantamala/task-tracker/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Department Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(datamodel.Models()...)).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := department.NewService(departmentPostgres.NewDepartmentRepository(db), slogger)
		h := department.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/departments", h.List)
		router.Post("/departments", h.Create)
		router.Get("/departments/{id}", h.GetByID)
		router.Put("/departments/{id}", h.Update)
		router.Delete("/departments/{id}", h.Delete)
	})

	It("should list departments by name with a case-insensitive search", func() {
		for _, name := range []string{"Sales", "Engineering", "Design"} {
			Expect(do(http.MethodPost, "/departments", `{"name":"`+name+`","description":"`+name+` team"}`).Code).
				To(Equal(http.StatusCreated))
		}

		w := do(http.MethodGet, "/departments", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var all []department.DepartmentResponse
		Expect(json.NewDecoder(w.Body).Decode(&all)).To(Succeed())
		Expect(all).To(HaveLen(3))
		Expect(all[0].Name).To(Equal("Design"))
		Expect(all[2].Name).To(Equal("Sales"))

		w = do(http.MethodGet, "/departments?search=ENGIN", "")
		var found []department.DepartmentResponse
		Expect(json.NewDecoder(w.Body).Decode(&found)).To(Succeed())
		Expect(found).To(HaveLen(1))
		Expect(found[0].Name).To(Equal("Engineering"))
	})

	It("should return the position and worker graph", func() {
		dept := &datamodel.Department{Name: "Engineering"}
		Expect(db.Create(dept).Error).To(Succeed())
		pos := &datamodel.Position{Name: "Developer", DepartmentID: dept.ID}
		Expect(db.Create(pos).Error).To(Succeed())
		Expect(db.Create(&datamodel.Worker{FirstName: "Ann", LastName: "Lee", DepartmentID: dept.ID, PositionID: pos.ID}).Error).To(Succeed())

		w := do(http.MethodGet, "/departments/1", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var got department.DepartmentResponse
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.Positions).To(HaveLen(1))
		Expect(got.Positions[0].Name).To(Equal("Developer"))
		Expect(got.Positions[0].Workers).To(HaveLen(1))
		Expect(got.Workers).To(HaveLen(1))
		Expect(got.Workers[0].Position.Name).To(Equal("Developer"))
	})

	It("should block deleting a department with positions, then allow it once empty", func() {
		dept := &datamodel.Department{Name: "Engineering"}
		Expect(db.Create(dept).Error).To(Succeed())
		pos := &datamodel.Position{Name: "Developer", DepartmentID: dept.ID}
		Expect(db.Create(pos).Error).To(Succeed())

		w := do(http.MethodDelete, "/departments/1", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Cannot delete department with associated workers or positions"))

		Expect(db.Delete(pos).Error).To(Succeed())
		w = do(http.MethodDelete, "/departments/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Department deleted successfully"))

		Expect(do(http.MethodGet, "/departments/1", "").Code).To(Equal(http.StatusNotFound))
	})

	It("should update only the fields present in the body", func() {
		do(http.MethodPost, "/departments", `{"name":"Engineering","description":"Builds"}`)

		w := do(http.MethodPut, "/departments/1", `{"description":"Builds and ships"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		var got department.DepartmentResponse
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.Name).To(Equal("Engineering"))
		Expect(got.Description).To(Equal("Builds and ships"))
	})

	It("should reject a non-numeric id", func() {
		Expect(do(http.MethodGet, "/departments/abc", "").Code).To(Equal(http.StatusBadRequest))
	})
})

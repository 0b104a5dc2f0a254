package worker_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/transport"
	"github.com/frahmantamala/task-tracker/internal/worker"
	workerPostgres "github.com/frahmantamala/task-tracker/internal/worker/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Worker Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		return w
	}

	list := func(query string) worker.ListResponse {
		w := do(http.MethodGet, "/workers"+query, "")
		ExpectWithOffset(1, w.Code).To(Equal(http.StatusOK))
		var resp worker.ListResponse
		ExpectWithOffset(1, json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(datamodel.Models()...)).To(Succeed())

		Expect(db.Create(&datamodel.Department{Name: "Engineering"}).Error).To(Succeed())
		Expect(db.Create(&datamodel.Department{Name: "Sales"}).Error).To(Succeed())
		Expect(db.Create(&datamodel.Position{Name: "Developer", DepartmentID: 1}).Error).To(Succeed())
		Expect(db.Create(&datamodel.Position{Name: "Account Manager", DepartmentID: 2}).Error).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := worker.NewService(workerPostgres.NewWorkerRepository(db), slogger)
		h := worker.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/workers", h.List)
		router.Post("/workers", h.Create)
		router.Get("/workers/{id}", h.GetByID)
		router.Put("/workers/{id}", h.Update)
		router.Delete("/workers/{id}", h.Delete)
	})

	Describe("List", func() {
		BeforeEach(func() {
			for i := 1; i <= 25; i++ {
				dept := 1
				if i%5 == 0 {
					dept = 2
				}
				Expect(db.Create(&datamodel.Worker{
					FirstName:    fmt.Sprintf("Name%02d", i),
					LastName:     fmt.Sprintf("Surname%02d", i),
					DepartmentID: int64(dept),
					PositionID:   int64(dept),
				}).Error).To(Succeed())
			}
		})

		It("should paginate with defaults and report the page count", func() {
			resp := list("")
			Expect(resp.Workers).To(HaveLen(10))
			Expect(resp.Pagination.Total).To(Equal(int64(25)))
			Expect(resp.Pagination.Page).To(Equal(1))
			Expect(resp.Pagination.Limit).To(Equal(10))
			Expect(resp.Pagination.Pages).To(Equal(3))
			Expect(resp.Workers[0].LastName).To(Equal("Surname01"))
			Expect(resp.Workers[0].Department.Name).To(Equal("Engineering"))
		})

		It("should return the tail on the last page", func() {
			resp := list("?page=3&limit=10")
			Expect(resp.Workers).To(HaveLen(5))
			Expect(resp.Workers[0].LastName).To(Equal("Surname21"))
			Expect(resp.Workers[4].LastName).To(Equal("Surname25"))
		})

		It("should sort by a whitelisted field", func() {
			resp := list("?sortBy=firstName&sortOrder=desc&limit=1")
			Expect(resp.Workers[0].FirstName).To(Equal("Name25"))
		})

		It("should filter by department and search", func() {
			Expect(list("?department=2").Pagination.Total).To(Equal(int64(5)))
			Expect(list("?search=surname1").Pagination.Total).To(Equal(int64(10)))
			Expect(list("?search=NAME07").Workers).To(HaveLen(1))
		})
	})

	It("should return the worker with its tasks", func() {
		w := do(http.MethodPost, "/workers", `{"firstName":"Ann","lastName":"Lee","departmentId":1,"positionId":1}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		Expect(db.Create(&datamodel.TaskStatus{Lookup: datamodel.Lookup{Name: "New", OrderIndex: 1}}).Error).To(Succeed())
		Expect(db.Create(&datamodel.TaskPriority{Lookup: datamodel.Lookup{Name: "High", OrderIndex: 1}}).Error).To(Succeed())
		Expect(db.Create(&datamodel.TaskComplexity{Lookup: datamodel.Lookup{Name: "Easy", OrderIndex: 1}}).Error).To(Succeed())
		Expect(db.Create(&datamodel.Task{
			Name: "Ship", StatusID: 1, PriorityID: 1, ComplexityID: 1, AssignedToID: 1, ResponsibleID: 1, CreatedByID: "u-1",
		}).Error).To(Succeed())

		w = do(http.MethodGet, "/workers/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var got worker.WorkerResponse
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.Position.Name).To(Equal("Developer"))
		Expect(got.AssignedTasks).To(HaveLen(1))
		Expect(got.AssignedTasks[0].Status.Name).To(Equal("New"))
		Expect(got.ResponsibleTasks).To(HaveLen(1))
		Expect(got.ResponsibleTasks[0].Priority.Name).To(Equal("High"))

		w = do(http.MethodDelete, "/workers/1", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Cannot delete worker with associated tasks"))
	})

	It("should delete a worker without tasks", func() {
		do(http.MethodPost, "/workers", `{"firstName":"Ann","lastName":"Lee","departmentId":1,"positionId":1}`)

		w := do(http.MethodDelete, "/workers/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Worker deleted successfully"))
		Expect(do(http.MethodGet, "/workers/1", "").Code).To(Equal(http.StatusNotFound))
	})

	It("should link a user profile once", func() {
		profile := &datamodel.UserProfile{Username: "a@x.com", Email: "a@x.com", PasswordHash: "x", FullName: "Ann Lee"}
		Expect(db.Create(profile).Error).To(Succeed())
		body := fmt.Sprintf(`{"firstName":"Ann","lastName":"Lee","departmentId":1,"positionId":1,"userProfileId":%q}`, profile.ID)

		w := do(http.MethodPost, "/workers", body)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var got worker.WorkerResponse
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.UserProfile.Email).To(Equal("a@x.com"))

		w = do(http.MethodPost, "/workers", body)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("User profile is already associated with a worker"))
	})
})

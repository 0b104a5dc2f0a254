package task_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/events"
	"github.com/frahmantamala/task-tracker/internal/task"
	taskPostgres "github.com/frahmantamala/task-tracker/internal/task/postgres"
	"github.com/frahmantamala/task-tracker/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Task Handler Integration", func() {
	var (
		db      *gorm.DB
		router  chi.Router
		bus     *events.EventBus
		profile *datamodel.UserProfile
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		return w
	}

	decode := func(w *httptest.ResponseRecorder) task.TaskResponse {
		var got task.TaskResponse
		ExpectWithOffset(1, json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		return got
	}

	create := func(name string) task.TaskResponse {
		body := fmt.Sprintf(`{"name":%q,"statusId":1,"priorityId":1,"complexityId":1,"assignedToId":1,"responsibleId":2}`, name)
		w := do(http.MethodPost, "/tasks", body)
		ExpectWithOffset(1, w.Code).To(Equal(http.StatusCreated))
		return decode(w)
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(datamodel.Models()...)).To(Succeed())

		profile = &datamodel.UserProfile{Username: "ann@x.com", Email: "ann@x.com", PasswordHash: "x", FullName: "Ann Lee"}
		Expect(db.Create(profile).Error).To(Succeed())
		Expect(db.Create(&datamodel.Department{Name: "Engineering"}).Error).To(Succeed())
		Expect(db.Create(&datamodel.Position{Name: "Developer", DepartmentID: 1}).Error).To(Succeed())
		Expect(db.Create(&datamodel.Worker{FirstName: "Ann", LastName: "Lee", DepartmentID: 1, PositionID: 1}).Error).To(Succeed())
		Expect(db.Create(&datamodel.Worker{FirstName: "Bob", LastName: "Ray", DepartmentID: 1, PositionID: 1}).Error).To(Succeed())
		for i, name := range []string{"New", "In Progress", "Done"} {
			Expect(db.Create(&datamodel.TaskStatus{Lookup: datamodel.Lookup{Name: name, OrderIndex: 3 - i}}).Error).To(Succeed())
		}
		Expect(db.Create(&datamodel.TaskPriority{Lookup: datamodel.Lookup{Name: "High", OrderIndex: 1}}).Error).To(Succeed())
		Expect(db.Create(&datamodel.TaskComplexity{Lookup: datamodel.Lookup{Name: "Easy", OrderIndex: 1}}).Error).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := task.NewService(taskPostgres.NewTaskRepository(db), slogger)
		bus = events.NewEventBus(slogger)
		service.SubscribeTimeEntryEvents(bus)
		h := task.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := internal.ContextWithIdentity(r.Context(), profile.ID, profile.Email)
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		})
		router.Get("/tasks", h.List)
		router.Post("/tasks", h.Create)
		router.Get("/tasks/metadata", h.Metadata)
		router.Get("/tasks/statuses", h.Statuses)
		router.Get("/tasks/{id}", h.GetByID)
		router.Put("/tasks/{id}", h.Update)
		router.Patch("/tasks/{id}/status", h.UpdateStatus)
		router.Delete("/tasks/{id}", h.Delete)
	})

	It("should create a task with its full graph", func() {
		created := create("Ship release")
		Expect(created.CreatedByID).To(Equal(profile.ID))
		Expect(created.StartDate.IsZero()).To(BeFalse())

		got := decode(do(http.MethodGet, "/tasks/"+created.ID, ""))
		Expect(got.Status.Name).To(Equal("New"))
		Expect(got.Priority.Name).To(Equal("High"))
		Expect(got.Complexity.Name).To(Equal("Easy"))
		Expect(got.AssignedTo.FirstName).To(Equal("Ann"))
		Expect(got.AssignedTo.Department.Name).To(Equal("Engineering"))
		Expect(got.Responsible.Position.Name).To(Equal("Developer"))
		Expect(got.Creator.Email).To(Equal("ann@x.com"))
	})

	It("should name the missing worker", func() {
		w := do(http.MethodPost, "/tasks", `{"name":"x","statusId":1,"priorityId":1,"complexityId":1,"assignedToId":5,"responsibleId":1}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"assignedToId"`))
	})

	It("should paginate and filter the list", func() {
		for i := 1; i <= 12; i++ {
			create(fmt.Sprintf("Task %02d", i))
		}
		Expect(do(http.MethodPatch, "/tasks/"+create("Special").ID+"/status", `{"statusId":3}`).Code).To(Equal(http.StatusOK))

		var page task.ListResponse
		Expect(json.NewDecoder(do(http.MethodGet, "/tasks?page=2", "").Body).Decode(&page)).To(Succeed())
		Expect(page.Pagination.Total).To(Equal(int64(13)))
		Expect(page.Pagination.Pages).To(Equal(2))
		Expect(page.Tasks).To(HaveLen(3))

		var byStatus task.ListResponse
		Expect(json.NewDecoder(do(http.MethodGet, "/tasks?status=3", "").Body).Decode(&byStatus)).To(Succeed())
		Expect(byStatus.Tasks).To(HaveLen(1))
		Expect(byStatus.Tasks[0].Name).To(Equal("Special"))

		var sorted task.ListResponse
		Expect(json.NewDecoder(do(http.MethodGet, "/tasks?sortBy=name&sortOrder=asc&search=task&limit=1", "").Body).Decode(&sorted)).To(Succeed())
		Expect(sorted.Tasks[0].Name).To(Equal("Task 01"))
		Expect(sorted.Pagination.Total).To(Equal(int64(12)))
	})

	It("should return lookups ordered by order index", func() {
		w := do(http.MethodGet, "/tasks/metadata", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var meta task.MetadataResponse
		Expect(json.NewDecoder(w.Body).Decode(&meta)).To(Succeed())
		Expect(meta.Statuses).To(HaveLen(3))
		Expect(meta.Statuses[0].Name).To(Equal("Done"))
		Expect(meta.Priorities).To(HaveLen(1))

		Expect(do(http.MethodGet, "/tasks/statuses", "").Body.String()).To(HavePrefix("["))
	})

	It("should keep timeSpent equal to the summed durations", func() {
		created := create("Timed")
		for _, minutes := range []int{30, 60} {
			m := minutes
			Expect(db.Create(&datamodel.TimeEntry{TaskID: created.ID, UserProfileID: profile.ID, Duration: &m}).Error).To(Succeed())
		}

		Expect(bus.PublishSync(context.Background(), events.NewTimeEntryChangedEvent("", created.ID, profile.ID, events.TimeEntryCreated))).To(Succeed())
		got := decode(do(http.MethodGet, "/tasks/"+created.ID, ""))
		Expect(got.TimeSpent).To(Equal(1.5))
		Expect(got.TimeEntries).To(HaveLen(2))
		Expect(got.TimeEntries[0].User.Email).To(Equal("ann@x.com"))

		Expect(db.Where("task_id = ?", created.ID).Delete(&datamodel.TimeEntry{}).Error).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.NewTimeEntryChangedEvent("", created.ID, profile.ID, events.TimeEntryDeleted))).To(Succeed())
		Expect(decode(do(http.MethodGet, "/tasks/"+created.ID, "")).TimeSpent).To(BeZero())
	})

	It("should delete the task together with its time entries", func() {
		created := create("Gone")
		Expect(db.Create(&datamodel.TimeEntry{TaskID: created.ID, UserProfileID: profile.ID}).Error).To(Succeed())

		w := do(http.MethodDelete, "/tasks/"+created.ID, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Task deleted successfully"))

		var entries int64
		Expect(db.Model(&datamodel.TimeEntry{}).Count(&entries).Error).To(Succeed())
		Expect(entries).To(BeZero())
		Expect(do(http.MethodGet, "/tasks/"+created.ID, "").Code).To(Equal(http.StatusNotFound))
	})
})

package timeentry_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/events"
	"github.com/frahmantamala/task-tracker/internal/task"
	taskPostgres "github.com/frahmantamala/task-tracker/internal/task/postgres"
	"github.com/frahmantamala/task-tracker/internal/timeentry"
	timeEntryPostgres "github.com/frahmantamala/task-tracker/internal/timeentry/postgres"
	"github.com/frahmantamala/task-tracker/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const userHeader = "X-Test-User"

var _ = Describe("Time Entry Handler Integration", func() {
	var (
		db       *gorm.DB
		router   chi.Router
		ann, bob *datamodel.UserProfile
		taskID   string
	)

	do := func(as *datamodel.UserProfile, method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if as != nil {
			req.Header.Set(userHeader, as.ID)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) timeentry.TimeEntryResponse {
		var got timeentry.TimeEntryResponse
		ExpectWithOffset(1, json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		return got
	}

	timeSpent := func() float64 {
		var t datamodel.Task
		ExpectWithOffset(1, db.First(&t, "id = ?", taskID).Error).To(Succeed())
		return t.TimeSpent
	}

	// logged creates a stopped entry spanning minutes via update.
	logged := func(as *datamodel.UserProfile, from time.Time, minutes int) timeentry.TimeEntryResponse {
		w := do(as, http.MethodPost, "/time-entries", fmt.Sprintf(`{"taskId":%q,"startTime":%q}`, taskID, from.Format(time.RFC3339)))
		ExpectWithOffset(1, w.Code).To(Equal(http.StatusCreated))
		created := decode(w)
		end := from.Add(time.Duration(minutes) * time.Minute)
		w = do(as, http.MethodPut, "/time-entries/"+created.ID, fmt.Sprintf(`{"endTime":%q}`, end.Format(time.RFC3339)))
		ExpectWithOffset(1, w.Code).To(Equal(http.StatusOK))
		return decode(w)
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(datamodel.Models()...)).To(Succeed())

		ann = &datamodel.UserProfile{Username: "ann@x.com", Email: "ann@x.com", PasswordHash: "x", FullName: "Ann Lee"}
		bob = &datamodel.UserProfile{Username: "bob@x.com", Email: "bob@x.com", PasswordHash: "x", FullName: "Bob Ray"}
		Expect(db.Create(ann).Error).To(Succeed())
		Expect(db.Create(bob).Error).To(Succeed())
		Expect(db.Create(&datamodel.TaskStatus{Lookup: datamodel.Lookup{Name: "New"}}).Error).To(Succeed())
		Expect(db.Create(&datamodel.TaskPriority{Lookup: datamodel.Lookup{Name: "High"}}).Error).To(Succeed())
		Expect(db.Create(&datamodel.TaskComplexity{Lookup: datamodel.Lookup{Name: "Easy"}}).Error).To(Succeed())
		t := &datamodel.Task{Name: "Ship", StatusID: 1, PriorityID: 1, ComplexityID: 1, AssignedToID: 1, ResponsibleID: 1, CreatedByID: ann.ID}
		Expect(db.Create(t).Error).To(Succeed())
		taskID = t.ID

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		bus := events.NewEventBus(slogger)
		task.NewService(taskPostgres.NewTaskRepository(db), slogger).SubscribeTimeEntryEvents(bus)
		service := timeentry.NewService(timeEntryPostgres.NewTimeEntryRepository(db), bus, slogger)
		h := timeentry.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if id := r.Header.Get(userHeader); id != "" {
					r = r.WithContext(internal.ContextWithUserID(r.Context(), id))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Get("/time-entries", h.List)
		router.Post("/time-entries", h.Create)
		router.Get("/time-entries/{id}", h.GetByID)
		router.Put("/time-entries/{id}", h.Update)
		router.Delete("/time-entries/{id}", h.Delete)
		router.Post("/time-entries/{id}/stop", h.Stop)
	})

	It("should start and stop a timer", func() {
		w := do(ann, http.MethodPost, "/time-entries", fmt.Sprintf(`{"taskId":%q,"description":"focus"}`, taskID))
		Expect(w.Code).To(Equal(http.StatusCreated))
		created := decode(w)
		Expect(created.EndTime).To(BeNil())
		Expect(created.Task.Name).To(Equal("Ship"))
		Expect(created.Task.Status.Name).To(Equal("New"))
		Expect(created.User.FullName).To(Equal("Ann Lee"))

		w = do(ann, http.MethodPost, "/time-entries", fmt.Sprintf(`{"taskId":%q}`, taskID))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("You already have an active time entry"))

		w = do(bob, http.MethodPost, "/time-entries/"+created.ID+"/stop", "")
		Expect(w.Code).To(Equal(http.StatusForbidden))

		w = do(ann, http.MethodPost, "/time-entries/"+created.ID+"/stop", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		stopped := decode(w)
		Expect(stopped.EndTime).NotTo(BeNil())
		Expect(*stopped.Duration).To(Equal(0))

		w = do(ann, http.MethodPost, "/time-entries/"+created.ID+"/stop", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Time entry is already stopped"))

		Expect(do(ann, http.MethodPost, "/time-entries", fmt.Sprintf(`{"taskId":%q}`, taskID)).Code).To(Equal(http.StatusCreated))
	})

	It("should keep the task's timeSpent equal to the summed durations", func() {
		day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		first := logged(ann, day, 30)
		Expect(*first.Duration).To(Equal(30))
		Expect(timeSpent()).To(Equal(0.5))

		second := logged(bob, day.Add(time.Hour), 60)
		Expect(timeSpent()).To(Equal(1.5))

		Expect(do(ann, http.MethodDelete, "/time-entries/"+second.ID, "").Code).To(Equal(http.StatusForbidden))
		w := do(bob, http.MethodDelete, "/time-entries/"+second.ID, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Time entry deleted successfully"))
		Expect(timeSpent()).To(Equal(0.5))

		Expect(do(ann, http.MethodDelete, "/time-entries/"+first.ID, "").Code).To(Equal(http.StatusOK))
		Expect(timeSpent()).To(BeZero())
		Expect(do(ann, http.MethodGet, "/time-entries/"+first.ID, "").Code).To(Equal(http.StatusNotFound))
	})

	It("should filter by user and inclusive date bounds", func() {
		logged(ann, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), 10)
		logged(ann, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), 10)
		logged(bob, time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC), 10)

		list := func(query string) timeentry.ListResponse {
			w := do(ann, http.MethodGet, "/time-entries"+query, "")
			ExpectWithOffset(1, w.Code).To(Equal(http.StatusOK))
			var resp timeentry.ListResponse
			ExpectWithOffset(1, json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			return resp
		}

		all := list("")
		Expect(all.Pagination.Total).To(Equal(int64(3)))
		Expect(all.TimeEntries[0].StartTime.Day()).To(Equal(3))

		Expect(list("?user=" + ann.ID).Pagination.Total).To(Equal(int64(2)))
		Expect(list("?task=" + taskID + "&limit=1").TimeEntries).To(HaveLen(1))
		Expect(list("?startDate=2024-03-02").Pagination.Total).To(Equal(int64(2)))
		Expect(list("?endDate=2024-03-02").Pagination.Total).To(Equal(int64(2)))
		Expect(list("?startDate=2024-03-02&endDate=2024-03-02").Pagination.Total).To(Equal(int64(1)))

		Expect(do(ann, http.MethodGet, "/time-entries?startDate=soon", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("should compare bounds with an offset by their instant", func() {
		w := do(ann, http.MethodPost, "/time-entries", fmt.Sprintf(`{"taskId":%q,"startTime":"2024-03-02T06:00:00+05:00"}`, taskID))
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(decode(w).StartTime.Equal(time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC))).To(BeTrue())

		total := func(key, value string) int64 {
			w := do(ann, http.MethodGet, "/time-entries?"+key+"="+url.QueryEscape(value), "")
			ExpectWithOffset(1, w.Code).To(Equal(http.StatusOK))
			var resp timeentry.ListResponse
			ExpectWithOffset(1, json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			return resp.Pagination.Total
		}

		Expect(total("startDate", "2024-03-02T03:00:00+05:00")).To(Equal(int64(1)))
		Expect(total("endDate", "2024-03-02T05:30:00+05:00")).To(Equal(int64(0)))
		Expect(total("endDate", "2024-03-02T06:00:00+05:00")).To(Equal(int64(1)))
	})

	It("should require an authenticated user to start a timer", func() {
		w := do(nil, http.MethodPost, "/time-entries", fmt.Sprintf(`{"taskId":%q}`, taskID))
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should reject an unknown task", func() {
		w := do(ann, http.MethodPost, "/time-entries", `{"taskId":"nope"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"taskId"`))
	})
})

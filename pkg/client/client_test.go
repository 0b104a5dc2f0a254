package client_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frahmantamala/task-tracker/internal/auth"
	authPostgres "github.com/frahmantamala/task-tracker/internal/auth/postgres"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/events"
	"github.com/frahmantamala/task-tracker/internal/database"
	"github.com/frahmantamala/task-tracker/internal/department"
	departmentPostgres "github.com/frahmantamala/task-tracker/internal/department/postgres"
	"github.com/frahmantamala/task-tracker/internal/position"
	positionPostgres "github.com/frahmantamala/task-tracker/internal/position/postgres"
	"github.com/frahmantamala/task-tracker/internal/task"
	taskPostgres "github.com/frahmantamala/task-tracker/internal/task/postgres"
	"github.com/frahmantamala/task-tracker/internal/timeentry"
	timeEntryPostgres "github.com/frahmantamala/task-tracker/internal/timeentry/postgres"
	"github.com/frahmantamala/task-tracker/internal/transport"
	"github.com/frahmantamala/task-tracker/internal/transport/rest"
	"github.com/frahmantamala/task-tracker/internal/worker"
	workerPostgres "github.com/frahmantamala/task-tracker/internal/worker/postgres"
	"github.com/frahmantamala/task-tracker/pkg/client"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Client Suite")
}

func newServer() *httptest.Server {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	Expect(err).NotTo(HaveOccurred())
	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	// every pooled connection to :memory: would open its own empty database
	sqlDB.SetMaxOpenConns(1)
	Expect(db.AutoMigrate(datamodel.Models()...)).To(Succeed())
	_, err = database.Seed(context.Background(), db)
	Expect(err).NotTo(HaveOccurred())

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := transport.NewBaseHandler(slogger)
	bus := events.NewEventBus(slogger)

	authService := auth.NewService(authPostgres.NewRepository(db), auth.NewJWTTokenGenerator("client-secret", time.Hour), 4, slogger)
	taskService := task.NewService(taskPostgres.NewTaskRepository(db), slogger)
	taskService.SubscribeTimeEntryEvents(bus)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:     rest.NewHealthHandler(base, sqlDB, "sqlite"),
		Auth:       auth.NewHandler(base, authService),
		Department: department.NewHandler(base, department.NewService(departmentPostgres.NewDepartmentRepository(db), slogger)),
		Position:   position.NewHandler(base, position.NewService(positionPostgres.NewPositionRepository(db), slogger)),
		Worker:     worker.NewHandler(base, worker.NewService(workerPostgres.NewWorkerRepository(db), slogger)),
		Task:       task.NewHandler(base, taskService),
		TimeEntry:  timeentry.NewHandler(base, timeentry.NewService(timeEntryPostgres.NewTimeEntryRepository(db), bus, slogger)),
	}, rest.RouterOptions{}, slogger)

	return httptest.NewServer(router)
}

var _ = Describe("Client", func() {
	var (
		server *httptest.Server
		api    *client.Client
		store  *client.Store
		ctx    context.Context
	)

	register := func() {
		ExpectWithOffset(1, store.Register(ctx, client.RegisterRequest{
			FirstName: "Ann",
			LastName:  "Lee",
			Email:     "ann@example.com",
			Password:  "secret-password",
		})).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		server = newServer()
		api = client.New(client.Config{BaseURL: server.URL + "/"}, nil)
		store = client.NewStore(api)
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Auth", func() {
		It("should keep the token after registering and send it on later calls", func() {
			register()

			Expect(store.IsAuthenticated()).To(BeTrue())
			Expect(api.Token()).To(Equal(store.Token()))
			Expect(store.User().FullName).To(Equal("Ann Lee"))

			Expect(store.FetchProfile(ctx)).To(Succeed())
			Expect(store.Profile().Email).To(Equal("ann@example.com"))
			Expect(store.Profile().WorkerProfile).To(BeNil())
		})

		It("should decode the error envelope of a failed login", func() {
			register()
			store.Logout()

			err := store.Login(ctx, "ann@example.com", "wrong")

			var apiErr *client.APIError
			Expect(err).To(BeAssignableToTypeOf(apiErr))
			Expect(client.StatusOf(err)).To(Equal(http.StatusUnauthorized))
			Expect(err.(*client.APIError).Message).To(Equal("Invalid credentials"))
			Expect(store.IsAuthenticated()).To(BeFalse())
			Expect(store.Err()).To(MatchError(err))
			Expect(store.Loading()).To(BeFalse())

			Expect(store.Login(ctx, "ANN@example.com", "secret-password")).To(Succeed())
			Expect(store.User().FirstName).To(Equal("Ann"))
			Expect(store.Err()).NotTo(HaveOccurred())
		})

		It("should report field errors", func() {
			err := store.Register(ctx, client.RegisterRequest{FirstName: "Ann", LastName: "Lee", Email: "nope", Password: "x"})

			apiErr, ok := err.(*client.APIError)
			Expect(ok).To(BeTrue())
			Expect(apiErr.Status).To(Equal(http.StatusBadRequest))
			Expect(apiErr.Fields).NotTo(BeEmpty())
			Expect(apiErr.Fields[0].Field).To(Equal("email"))
		})

		It("should refuse protected calls without a token", func() {
			_, err := api.ListTasks(ctx, client.TaskFilter{})
			Expect(client.StatusOf(err)).To(Equal(http.StatusUnauthorized))
			Expect(err.Error()).To(ContainSubstring("No token provided"))

			Expect(store.FetchProfile(ctx)).To(MatchError(client.ErrNotSignedIn))
		})
	})

	Describe("Timers", func() {
		var taskID string

		BeforeEach(func() {
			register()
			Expect(store.FetchDepartments(ctx, "")).To(Succeed())
			departments := store.Departments()
			Expect(departments).NotTo(BeEmpty())

			Expect(store.FetchPositions(ctx, client.PositionFilter{Department: departments[0].ID})).To(Succeed())
			positions := store.Positions()
			Expect(positions).NotTo(BeEmpty())

			w, err := store.CreateWorker(ctx, client.WorkerRequest{
				FirstName:     client.String("Ann"),
				LastName:      client.String("Lee"),
				DepartmentID:  client.Int64(departments[0].ID),
				PositionID:    client.Int64(positions[0].ID),
				UserProfileID: client.String(store.User().ID),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(store.FetchMetadata(ctx)).To(Succeed())
			meta := store.Metadata()
			Expect(meta.Statuses).To(HaveLen(8))

			t, err := store.CreateTask(ctx, client.TaskRequest{
				Name:          client.String("Ship the client"),
				StatusID:      client.Int64(meta.Statuses[0].ID),
				PriorityID:    client.Int64(meta.Priorities[0].ID),
				ComplexityID:  client.Int64(meta.Complexities[0].ID),
				AssignedToID:  client.Int64(w.ID),
				ResponsibleID: client.Int64(w.ID),
			})
			Expect(err).NotTo(HaveOccurred())
			taskID = t.ID
		})

		It("should track a single active timer and refresh the task's time spent", func() {
			started, err := store.StartTimer(ctx, taskID, "coding")
			Expect(err).NotTo(HaveOccurred())
			Expect(started.Running()).To(BeTrue())
			Expect(store.ActiveTimer().ID).To(Equal(started.ID))

			_, err = store.StartTimer(ctx, taskID, "again")
			Expect(err).To(MatchError(client.ErrTimerAlreadyOn))

			_, err = api.StartTimer(ctx, client.StartTimerRequest{TaskID: taskID})
			Expect(client.StatusOf(err)).To(Equal(http.StatusBadRequest))
			Expect(err.(*client.APIError).Fields[0].Field).To(Equal("startTime"))

			stopped, err := store.StopTimer(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(stopped.Running()).To(BeFalse())
			Expect(*stopped.Duration).To(Equal(0))
			Expect(store.ActiveTimer()).To(BeNil())

			_, err = store.StopTimer(ctx)
			Expect(err).To(MatchError(client.ErrNoActiveTimer))
			_, err = api.StopTimer(ctx, stopped.ID)
			Expect(client.StatusOf(err)).To(Equal(http.StatusBadRequest))

			updated, err := store.UpdateTimeEntry(ctx, stopped.ID, client.TimeEntryRequest{
				StartTime: client.Time(stopped.EndTime.Add(-90 * time.Minute)),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.Duration).To(Equal(90))

			cached, ok := store.Task(taskID)
			Expect(ok).To(BeTrue())
			Expect(cached.TimeSpent).To(Equal(1.5))

			Expect(store.DeleteTimeEntry(ctx, stopped.ID)).To(Succeed())
			cached, _ = store.Task(taskID)
			Expect(cached.TimeSpent).To(Equal(0.0))
		})

		It("should pick up a running entry from a fetched page", func() {
			started, err := api.StartTimer(ctx, client.StartTimerRequest{TaskID: taskID})
			Expect(err).NotTo(HaveOccurred())
			Expect(store.ActiveTimer()).To(BeNil())

			Expect(store.FetchTimeEntries(ctx, client.TimeEntryFilter{Task: taskID})).To(Succeed())

			entries, page := store.TimeEntries()
			Expect(entries).To(HaveLen(1))
			Expect(page.Total).To(Equal(int64(1)))
			Expect(entries[0].Task.Name).To(Equal("Ship the client"))
			Expect(store.ActiveTimer().ID).To(Equal(started.ID))
		})

		It("should drop a deleted task together with its entries", func() {
			_, err := store.StartTimer(ctx, taskID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(store.FetchTasks(ctx, client.TaskFilter{ListOptions: client.ListOptions{Limit: 5}})).To(Succeed())
			tasks, page := store.Tasks()
			Expect(tasks).To(HaveLen(1))
			Expect(page.Limit).To(Equal(5))

			Expect(store.DeleteTask(ctx, taskID)).To(Succeed())

			tasks, _ = store.Tasks()
			entries, _ := store.TimeEntries()
			Expect(tasks).To(BeEmpty())
			Expect(entries).To(BeEmpty())
			Expect(store.ActiveTimer()).To(BeNil())

			_, err = api.GetTask(ctx, taskID)
			Expect(client.StatusOf(err)).To(Equal(http.StatusNotFound))
		})

		It("should update the status and report the profile's worker", func() {
			meta := store.Metadata()
			t, err := store.UpdateTaskStatus(ctx, taskID, meta.Statuses[2].ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status.Name).To(Equal("In Development"))

			Expect(store.FetchProfile(ctx)).To(Succeed())
			Expect(store.Profile().WorkerProfile).NotTo(BeNil())
			Expect(store.Profile().WorkerProfile.LastName).To(Equal("Lee"))
		})

		It("should drop an active timer that was removed elsewhere", func() {
			running, err := store.StartTimer(ctx, taskID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(api.DeleteTimeEntry(ctx, running.ID)).To(Succeed())
			Expect(store.ActiveTimer()).NotTo(BeNil())

			Expect(store.FetchTimeEntries(ctx, client.TimeEntryFilter{Task: taskID})).To(Succeed())
			Expect(store.ActiveTimer()).NotTo(BeNil())

			Expect(store.FetchTimeEntries(ctx, client.TimeEntryFilter{})).To(Succeed())
			Expect(store.ActiveTimer()).To(BeNil())
		})

		It("should list each lookup in the same order as the metadata", func() {
			meta := store.Metadata()
			statuses, err := api.TaskStatuses(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(statuses).To(Equal(meta.Statuses))

			priorities, err := api.TaskPriorities(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(priorities).To(HaveLen(len(meta.Priorities)))

			complexities, err := api.TaskComplexities(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(complexities).To(HaveLen(len(meta.Complexities)))
		})
	})

	Describe("Store", func() {
		It("should notify listeners after each mutation and clear everything on logout", func() {
			calls := 0
			store.OnChange(func() { calls++ })

			store.SetAuth("token", client.User{ID: "u-1"})
			store.PutTimeEntry(client.TimeEntry{ID: "e-1", TaskID: "t-1", UserProfileID: "u-1"})
			store.PutTask(client.Task{ID: "t-1", Name: "A"})
			store.PutTask(client.Task{ID: "t-1", Name: "B"})

			Expect(calls).To(Equal(4))
			Expect(store.ActiveTimer().ID).To(Equal("e-1"))
			tasks, _ := store.Tasks()
			Expect(tasks).To(HaveLen(1))
			Expect(tasks[0].Name).To(Equal("B"))

			store.Logout()
			Expect(calls).To(Equal(5))
			Expect(store.IsAuthenticated()).To(BeFalse())
			Expect(store.ActiveTimer()).To(BeNil())
			Expect(api.Token()).To(BeEmpty())
		})

		It("should return copies from getters", func() {
			store.SetDepartments([]client.Department{{ID: 1, Name: "QA"}})
			got := store.Departments()
			got[0].Name = "changed"
			Expect(store.Departments()[0].Name).To(Equal("QA"))
		})

		It("should not share nested values with callers", func() {
			items := []client.Task{{ID: "t-1", Status: &client.Lookup{Name: "New"}, AssignedTo: &client.Worker{FirstName: "Ann"}}}
			store.SetTasks(items, client.Pagination{Total: 1})

			items[0].Status.Name = "changed by caller"
			items[0].ID = "t-2"
			got, _ := store.Tasks()
			Expect(got[0].ID).To(Equal("t-1"))
			Expect(got[0].Status.Name).To(Equal("New"))

			got[0].AssignedTo.FirstName = "changed by reader"
			again, ok := store.Task("t-1")
			Expect(ok).To(BeTrue())
			Expect(again.AssignedTo.FirstName).To(Equal("Ann"))
		})

		It("should clear an active timer a fresh page shows as stopped", func() {
			store.SetAuth("token", client.User{ID: "u-1"})
			store.PutTimeEntry(client.TimeEntry{ID: "e-1", TaskID: "t-1", UserProfileID: "u-1"})
			Expect(store.ActiveTimer()).NotTo(BeNil())

			end := time.Now()
			store.SetTimeEntries([]client.TimeEntry{{ID: "e-1", TaskID: "t-1", UserProfileID: "u-1", EndTime: &end}}, client.Pagination{Total: 1, Pages: 1})
			Expect(store.ActiveTimer()).To(BeNil())
		})

		It("should keep an active timer missing from a partial page", func() {
			store.SetAuth("token", client.User{ID: "u-1"})
			store.PutTimeEntry(client.TimeEntry{ID: "e-1", TaskID: "t-1", UserProfileID: "u-1"})

			store.SetTimeEntries([]client.TimeEntry{{ID: "e-9", TaskID: "t-9", UserProfileID: "u-1"}}, client.Pagination{Total: 20, Pages: 2})
			Expect(store.ActiveTimer().ID).To(Equal("e-9"))

			store.SetTimeEntries(nil, client.Pagination{Total: 20, Pages: 2})
			Expect(store.ActiveTimer().ID).To(Equal("e-9"))
		})
	})

	It("should fall back to the status text for a non-JSON error body", func() {
		broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer broken.Close()

		_, err := client.New(client.Config{BaseURL: broken.URL}, nil).TaskMetadata(ctx)

		Expect(client.StatusOf(err)).To(Equal(http.StatusBadGateway))
		Expect(err.(*client.APIError).Message).To(Equal("Bad Gateway"))
	})
})

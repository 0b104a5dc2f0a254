package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/task-tracker/internal/transport"
	"github.com/frahmantamala/task-tracker/internal/transport/rest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

var _ = Describe("HealthHandler", func() {
	var base *transport.BaseHandler

	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	health := func(h *rest.HealthHandler) (int, rest.HealthResponse) {
		w := httptest.NewRecorder()
		h.Health(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		var resp rest.HealthResponse
		ExpectWithOffset(1, json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return w.Code, resp
	}

	BeforeEach(func() {
		base = transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("should report every component when all are up", func() {
		code, resp := health(rest.NewHealthHandler(base, up, "postgres").WithCheck("redis", up))
		Expect(code).To(Equal(http.StatusOK))
		Expect(resp.Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components).To(HaveKey("postgres"))
		Expect(resp.Components).To(HaveKey("redis"))
	})

	It("should be unavailable when the cache is down", func() {
		code, resp := health(rest.NewHealthHandler(base, up, "postgres").WithCheck("redis", down))
		Expect(code).To(Equal(http.StatusServiceUnavailable))
		Expect(resp.Status).To(Equal(rest.HealthUnhealthy))
		Expect(resp.Components["postgres"].Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components["redis"].Message).To(Equal("connection refused"))
	})
})

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/performance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("RequestID", func() {
	It("generates a trace id and exposes it to handlers", func() {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = TraceID(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(seen).NotTo(BeEmpty())
		Expect(rec.Header().Get(TraceIDHeader)).To(Equal(seen))
	})

	It("keeps the caller's trace id", func() {
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceIDHeader, "abc-123")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get(TraceIDHeader)).To(Equal("abc-123"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("answers 500 with the error envelope", func() {
		h := RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).To(ContainSubstring(`"code":"INTERNAL_ERROR"`))
		Expect(rec.Body.String()).NotTo(ContainSubstring("boom"))
	})
})

var _ = Describe("CORS", func() {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	It("short-circuits preflight requests", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/employees", nil)
		req.Header.Set("Origin", "http://dash.local")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		rec := httptest.NewRecorder()
		CORS("http://dash.local")(next).ServeHTTP(rec, req)

		Expect(rec.Code).To(BeElementOf(http.StatusOK, http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://dash.local"))
		Expect(rec.Header().Get("Access-Control-Allow-Methods")).To(Equal(http.MethodPost))
	})

	It("accepts the trace header on preflight from a configured list", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/employees", nil)
		req.Header.Set("Origin", "http://admin.local")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		req.Header.Set("Access-Control-Request-Headers", "Authorization, X-Trace-ID")

		rec := httptest.NewRecorder()
		CORS("http://dash.local, http://admin.local")(next).ServeHTTP(rec, req)

		Expect(rec.Code).NotTo(Equal(http.StatusTeapot))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://admin.local"))
		Expect(rec.Header().Get("Access-Control-Allow-Headers")).To(ContainSubstring("X-Trace-Id"))
	})

	It("exposes the trace header on simple requests", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://dash.local")

		rec := httptest.NewRecorder()
		CORS("http://dash.local")(next).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusTeapot))
		Expect(rec.Header().Get("Access-Control-Expose-Headers")).To(Equal("X-Trace-Id"))
	})

	It("does not advertise unknown origins", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.local")

		rec := httptest.NewRecorder()
		CORS("http://dash.local")(next).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusTeapot))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("allows any origin with a wildcard", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://anything.local")

		rec := httptest.NewRecorder()
		CORS("*")(next).ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})
})

var _ = Describe("filterSensitiveBody", func() {
	It("masks credentials and salary in nested JSON", func() {
		out := filterSensitiveBody([]byte(`{"username":"dana","password":"hunter2","employee":{"salary":52000,"name":"Dana"}}`))

		Expect(out).NotTo(ContainSubstring("hunter2"))
		Expect(out).NotTo(ContainSubstring("52000"))
		Expect(out).To(ContainSubstring(`"name":"Dana"`))
		Expect(strings.Count(out, "[FILTERED]")).To(Equal(2))
	})

	It("hides non-JSON bodies that mention a sensitive word", func() {
		Expect(filterSensitiveBody([]byte("token=abc"))).To(HavePrefix("[FILTERED"))
	})
})

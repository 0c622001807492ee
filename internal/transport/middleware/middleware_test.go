package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

var _ = Describe("RequestID", func() {
	It("keeps a caller supplied trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "trace-123")
		rec := httptest.NewRecorder()
		RequestID(okHandler).ServeHTTP(rec, req)
		Expect(rec.Header().Get(TraceHeader)).To(Equal("trace-123"))
	})

	It("mints one when missing or oversized", func() {
		rec := httptest.NewRecorder()
		RequestID(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, strings.Repeat("x", 200))
		rec = httptest.NewRecorder()
		RequestID(okHandler).ServeHTTP(rec, req)
		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("CORS", func() {
	It("echoes allowed origins only", func() {
		h := CORS("https://app.example.com, https://admin.example.com")(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://admin.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://admin.example.com"))
		Expect(rec.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
		Expect(strings.ToLower(rec.Header().Get("Access-Control-Expose-Headers"))).To(ContainSubstring("x-trace-id"))

		req.Header.Set("Origin", "https://evil.example.com")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("echoes any origin when every origin is allowed", func() {
		h := CORS("")(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.example.com"))
	})

	It("answers preflight requests itself", func() {
		called := false
		h := CORS("*")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

		req := httptest.NewRequest(http.MethodOptions, "/api/grievances", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.example.com"))
		Expect(rec.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring(http.MethodPut))
		Expect(called).To(BeFalse())
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns a panic into a generic 500", func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		h := RecoveryMiddleware(lg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("database exploded")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).To(ContainSubstring("Internal server error"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("exploded"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("masks credentials and leaves the body readable downstream", func() {
		var logs bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&logs, nil))

		var seen map[string]string
		h := LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(json.NewDecoder(r.Body).Decode(&seen)).To(Succeed())
			w.WriteHeader(http.StatusCreated)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{"email":"a@example.com","password":"hunter22"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer secret-token")
		h.ServeHTTP(httptest.NewRecorder(), req)

		Expect(seen["password"]).To(Equal("hunter22"))
		Expect(logs.String()).NotTo(ContainSubstring("hunter22"))
		Expect(logs.String()).NotTo(ContainSubstring("secret-token"))
		Expect(logs.String()).To(ContainSubstring("a@example.com"))
		Expect(logs.String()).To(ContainSubstring(`"status_code":201`))
	})

	It("filters nested fields", func() {
		out := filterSensitiveBody([]byte(`{"attachments":[{"name":"a.png","base64":"AAAA"}],"api_key":"k"}`))
		Expect(out).To(ContainSubstring(`"name":"a.png"`))
		Expect(out).NotTo(ContainSubstring("AAAA"))
		Expect(out).NotTo(ContainSubstring(`"k"`))
	})
})

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/analytics"
	"github.com/frahmantamala/performance-tracker/internal/auth"
	"github.com/frahmantamala/performance-tracker/internal/classify"
	"github.com/frahmantamala/performance-tracker/internal/employee"
	"github.com/frahmantamala/performance-tracker/internal/feedback"
	"github.com/frahmantamala/performance-tracker/internal/prediction"
	"github.com/frahmantamala/performance-tracker/internal/user"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func ptr[T any](v T) *T { return &v }

func fixtureEmployees() []employee.Employee {
	return []employee.Employee{
		{ID: 1, Name: "Ann Lee", Email: "ann@corp.io", Department: "IT", AttritionProbability: 0.8, PerformanceScore: ptr(92.0), SatisfactionLevel: ptr(0.4), IsActive: true},
		{ID: 2, Name: "Ben Hall", Email: "ben@corp.io", Department: "IT", AttritionProbability: 0.2, PerformanceScore: ptr(71.0), SatisfactionLevel: ptr(0.9), IsActive: true},
		{ID: 3, Name: "Cara Diaz", Email: "cara@corp.io", Department: "Sales", AttritionProbability: 0.65, PerformanceScore: ptr(55.0), IsActive: true},
		{ID: 7, Name: "Dana Fox", Email: "dana@corp.io", Department: "HR", AttritionProbability: 0.45, IsActive: false},
	}
}

type fakeAPI struct {
	server       *httptest.Server
	rejectTokens atomic.Bool
}

func signedToken(subject string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	Expect(err).NotTo(HaveOccurred())
	return token
}

func newFakeAPI() *fakeAPI {
	f := &fakeAPI{}
	mux := http.NewServeMux()

	reply := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if f.rejectTokens.Load() || !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
				reply(w, http.StatusUnauthorized, internal.Response{Error: internal.ErrTokenExpired})
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var dto auth.LoginDTO
		_ = json.NewDecoder(r.Body).Decode(&dto)
		resp := auth.UserResponse{ID: 1, Username: dto.Username, Email: dto.Username + "@corp.io", IsActive: true}
		switch dto.Username {
		case "root":
			resp.Role = internal.RoleAdmin
		case "dana":
			resp.Role = internal.RoleEmployee
			resp.EmployeeID = ptr(int64(7))
		default:
			reply(w, http.StatusUnauthorized, internal.Response{Error: internal.ErrInvalidCredentials})
			return
		}
		reply(w, http.StatusOK, auth.LoginResponse{AccessToken: signedToken(dto.Username), TokenType: auth.TokenTypeBearer, User: resp})
	})
	mux.HandleFunc("/api/v1/users/me", authed(func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, user.User{ID: 1, Username: "dana", Email: "dana@corp.io", Role: internal.RoleEmployee, IsActive: true})
	}))
	mux.HandleFunc("/api/v1/employees", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("skip") != "" {
			reply(w, http.StatusOK, []employee.Employee{})
			return
		}
		reply(w, http.StatusOK, fixtureEmployees())
	}))
	mux.HandleFunc("/api/v1/employees/stats/dashboard", authed(func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, analytics.Summarize(fixtureEmployees()[:3]).Rounded())
	}))
	mux.HandleFunc("/api/v1/feedback/employee/7", authed(func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []feedback.Feedback{
			{ID: 2, EmployeeID: 7, Rating: 4.5, Comments: "Great quarter", FeedbackDate: time.Now()},
			{ID: 1, EmployeeID: 7, Rating: 3, Comments: "Settling in", FeedbackDate: time.Now().Add(-90 * 24 * time.Hour)},
		})
	}))
	mux.HandleFunc("/api/v1/predictions/employee/7", authed(func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, prediction.Response{
			EmployeeID: 7, AttritionPrediction: "N", AttritionProbability: 0.45,
			PerformancePrediction: 77, RiskLevel: classify.Medium,
		})
	}))

	f.server = httptest.NewServer(mux)
	return f
}

var _ = Describe("dashboard", func() {
	var (
		api         *fakeAPI
		cfg         *internal.Config
		out         *bytes.Buffer
		ctx         context.Context
		sessionFile string
	)

	open := func() *dashboard {
		d, err := newDashboard(ctx, cfg, out)
		Expect(err).NotTo(HaveOccurred())
		return d
	}

	BeforeEach(func() {
		api = newFakeAPI()
		DeferCleanup(api.server.Close)

		sessionFile = filepath.Join(GinkgoT().TempDir(), "session.gob")
		cfg = &internal.Config{Client: internal.ClientConfig{
			APIURL:      api.server.URL + "/api/v1",
			SessionFile: sessionFile,
			Timeout:     5 * time.Second,
			PageSize:    10,
		}}
		out = &bytes.Buffer{}
		ctx = context.Background()
	})

	It("refuses to work before login", func() {
		_, err := open().listEmployees(ctx, employeesOptions{})
		Expect(err).To(MatchError(errNotLoggedIn))
	})

	It("keeps the login across runs and shows the tutorial once", func() {
		Expect(open().login(ctx, "dana", "secret1")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Getting started"))

		out.Reset()
		second := open()
		Expect(second.session.IsAuthenticated()).To(BeTrue())
		id, ok := second.session.EmployeeID()
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(int64(7)))

		Expect(second.session.Logout()).To(Succeed())
		Expect(second.login(ctx, "dana", "secret1")).To(Succeed())
		Expect(out.String()).NotTo(ContainSubstring("Getting started"))
	})

	It("surfaces wrong credentials without storing anything", func() {
		d := open()
		err := d.login(ctx, "mallory", "secret1")
		Expect(internal.IsAuth(err)).To(BeTrue())
		Expect(open().session.IsAuthenticated()).To(BeFalse())
	})

	It("filters, presets and pages the directory locally", func() {
		d := open()
		Expect(d.login(ctx, "dana", "secret1")).To(Succeed())
		out.Reset()

		res, err := d.listEmployees(ctx, employeesOptions{Preset: "high_risk", Active: ptr(true), Size: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Total).To(Equal(2))
		Expect(res.Pages).To(Equal(2))
		Expect(res.Items).To(HaveLen(1))
		Expect(res.Items[0].Name).To(Equal("Ann Lee"))
		Expect(out.String()).To(ContainSubstring("High Risk"))
		Expect(out.String()).To(ContainSubstring("page 1 of 2"))

		res, err = d.listEmployees(ctx, employeesOptions{Search: "DANA", Department: "all"})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Total).To(Equal(1))
	})

	It("rejects an unknown preset before calling the server", func() {
		d := open()
		Expect(d.login(ctx, "dana", "secret1")).To(Succeed())

		_, err := d.listEmployees(ctx, employeesOptions{Preset: "flight_risk"})
		Expect(internal.IsValidation(err)).To(BeTrue())
	})

	It("limits analytics to admins", func() {
		d := open()
		Expect(d.login(ctx, "dana", "secret1")).To(Succeed())

		_, err := d.loadAnalytics(ctx, "all")
		Expect(err).To(MatchError(internal.ErrAdminRequired))
	})

	It("combines the server snapshot with local department figures", func() {
		d := open()
		Expect(d.login(ctx, "root", "secret1")).To(Succeed())

		report, err := d.loadAnalytics(ctx, "IT")
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Server.TotalEmployees).To(Equal(3))
		Expect(report.Local.TotalEmployees).To(Equal(2))
		Expect(report.Departments).To(HaveLen(1))
		Expect(report.Departments[0].Department).To(Equal("IT"))

		out.Reset()
		d.renderAnalytics(report, "IT")
		Expect(out.String()).To(ContainSubstring("Departments (IT)"))
		Expect(out.String()).To(ContainSubstring("80-100"))
	})

	It("lists the caller's own feedback by default", func() {
		d := open()
		Expect(d.login(ctx, "dana", "secret1")).To(Succeed())
		out.Reset()

		entries, err := d.listFeedback(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(out.String()).To(ContainSubstring("Great quarter"))
	})

	It("prints a single prediction with its risk badge", func() {
		d := open()
		Expect(d.login(ctx, "dana", "secret1")).To(Succeed())
		out.Reset()

		resp, err := d.predictOne(ctx, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.RiskLevel).To(Equal(classify.Medium))
		Expect(out.String()).To(ContainSubstring("Medium Risk"))
	})

	It("logs out when the server rejects the token", func() {
		d := open()
		Expect(d.login(ctx, "dana", "secret1")).To(Succeed())
		api.rejectTokens.Store(true)

		err := d.whoami(ctx, true)
		Expect(internal.IsAuth(err)).To(BeTrue())
		Expect(d.session.IsAuthenticated()).To(BeFalse())
		Expect(open().session.IsAuthenticated()).To(BeFalse())
	})
})

var _ = Describe("sampleEmployees", func() {
	It("produces valid records with unique emails", func() {
		samples := sampleEmployees(100)
		Expect(samples).To(HaveLen(len(sampleNames)))

		seen := map[string]bool{}
		for _, dto := range samples {
			Expect(dto.Validate()).To(Succeed(), dto.Email)
			Expect(seen[dto.Email]).To(BeFalse(), dto.Email)
			seen[dto.Email] = true
		}
	})
})

var _ = Describe("bar", func() {
	It("scales against the peak and never hides a non-zero count", func() {
		Expect(bar(10, 10, 30)).To(Equal(strings.Repeat("█", 30)))
		Expect(bar(1, 100, 30)).To(Equal("█"))
		Expect(bar(0, 10, 30)).To(BeEmpty())
	})
})

var _ = Describe("readPassword", func() {
	It("reads one line from piped input", func() {
		pw, err := readPassword(strings.NewReader("s3cret\r\nignored\n"), &bytes.Buffer{})
		Expect(err).NotTo(HaveOccurred())
		Expect(pw).To(Equal("s3cret"))
	})

	It("accepts a final line without a newline", func() {
		pw, err := readPassword(strings.NewReader("s3cret"), &bytes.Buffer{})
		Expect(err).NotTo(HaveOccurred())
		Expect(pw).To(Equal("s3cret"))
	})

	It("treats a regular file as piped input", func() {
		f, err := os.CreateTemp(GinkgoT().TempDir(), "stdin")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(f.Close)
		_, err = f.WriteString("from-file\n")
		Expect(err).NotTo(HaveOccurred())
		_, err = f.Seek(0, 0)
		Expect(err).NotTo(HaveOccurred())

		out := &bytes.Buffer{}
		pw, err := readPassword(f, out)
		Expect(err).NotTo(HaveOccurred())
		Expect(pw).To(Equal("from-file"))
		Expect(out.String()).To(BeEmpty())
	})
})

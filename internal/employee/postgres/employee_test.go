package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/performance-tracker/internal"
	employeeDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/employee"
	"github.com/frahmantamala/performance-tracker/internal/query"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestEmployeeRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "EmployeeRepository Suite")
}

func row(name, email, dept string, active bool) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		Name:                name,
		Email:               email,
		Department:          dept,
		Age:                 30,
		Experience:          4,
		Salary:              60000,
		WorkHours:           40,
		AttritionPrediction: "N",
		IsActive:            active,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
}

var _ = Describe("EmployeeRepository", func() {
	var (
		db   *gorm.DB
		repo *EmployeeRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&employeeDatamodel.Employee{})).To(Succeed())

		repo = NewEmployeeRepository(db)
		ctx = context.Background()

		for _, r := range []*employeeDatamodel.Employee{
			row("Alice Smith", "alice@corp.io", "IT", true),
			row("Bob Jones", "bob@corp.io", "Sales", true),
			row("Carol", "carol.smith@corp.io", "IT", false),
			row("Dan_Under", "dan@corp.io", "HR", true),
		} {
			Expect(repo.Create(ctx, r)).To(Succeed())
		}
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("List", func() {
		It("searches name or email case-insensitively", func() {
			rows, err := repo.List(ctx, query.Filter{Search: "SMITH"}, 0, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Name).To(Equal("Alice Smith"))
			Expect(rows[1].Name).To(Equal("Carol"))
		})

		It("treats LIKE wildcards in the search literally", func() {
			rows, err := repo.List(ctx, query.Filter{Search: "_"}, 0, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Name).To(Equal("Dan_Under"))
		})

		It("filters by department and active flag", func() {
			active := true
			rows, err := repo.List(ctx, query.Filter{Department: "IT", Active: &active}, 0, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Email).To(Equal("alice@corp.io"))
		})

		It("honours an explicit inactive filter", func() {
			inactive := false
			rows, err := repo.List(ctx, query.Filter{Active: &inactive}, 0, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].IsActive).To(BeFalse())
		})

		It("pages with skip and limit", func() {
			rows, err := repo.List(ctx, query.Filter{}, 1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Name).To(Equal("Bob Jones"))
		})
	})

	It("lists active employees only", func() {
		rows, err := repo.ListActive(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
	})

	Describe("GetByID", func() {
		It("maps a missing row to ErrEmployeeNotFound", func() {
			_, err := repo.GetByID(ctx, 99)
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})

	Describe("EmailTaken", func() {
		It("ignores case and the excluded id", func() {
			taken, err := repo.EmailTaken(ctx, "ALICE@corp.io", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(taken).To(BeTrue())

			taken, err = repo.EmailTaken(ctx, "alice@corp.io", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(taken).To(BeFalse())
		})
	})

	Describe("Update and SavePrediction", func() {
		It("persists a deactivation", func() {
			r, err := repo.GetByID(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			r.IsActive = false
			Expect(repo.Update(ctx, r)).To(Succeed())

			reloaded, err := repo.GetByID(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.IsActive).To(BeFalse())
		})

		It("stores model outputs", func() {
			Expect(repo.SavePrediction(ctx, 2, "Y", 0.72, 64.5)).To(Succeed())

			r, err := repo.GetByID(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.AttritionPrediction).To(Equal("Y"))
			Expect(r.AttritionProbability).To(Equal(0.72))
			Expect(*r.PerformanceScore).To(Equal(64.5))
			Expect(*r.PerformancePrediction).To(Equal(64.5))
		})

		It("reports a missing row on prediction save", func() {
			Expect(repo.SavePrediction(ctx, 99, "N", 0.1, 50)).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes the row", func() {
			Expect(repo.Delete(ctx, 3)).To(Succeed())
			_, err := repo.GetByID(ctx, 3)
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})
})

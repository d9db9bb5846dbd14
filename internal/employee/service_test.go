package employee

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/frahmantamala/performance-tracker/internal"
	employeeDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/employee"
	"github.com/frahmantamala/performance-tracker/internal/core/events"
	"github.com/frahmantamala/performance-tracker/internal/query"
	"github.com/frahmantamala/performance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEmployee(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Suite")
}

// Mock repository keeping rows in memory
type mockRepository struct {
	rows      map[int64]*employeeDatamodel.Employee
	nextID    int64
	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{rows: map[int64]*employeeDatamodel.Employee{}, nextID: 1}
}

func (m *mockRepository) List(_ context.Context, filter query.Filter, skip, limit int) ([]*employeeDatamodel.Employee, error) {
	var out []*employeeDatamodel.Employee
	for id := int64(1); id < m.nextID; id++ {
		row, ok := m.rows[id]
		if !ok || !filter.Matches(FromDataModel(row)) {
			continue
		}
		out = append(out, row)
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepository) ListActive(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	active := true
	return m.List(ctx, query.Filter{Active: &active}, 0, len(m.rows)+1)
}

func (m *mockRepository) GetByID(_ context.Context, id int64) (*employeeDatamodel.Employee, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}
	c := *row
	return &c, nil
}

func (m *mockRepository) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	for id, row := range m.rows {
		if id != excludeID && strings.EqualFold(row.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) Create(_ context.Context, row *employeeDatamodel.Employee) error {
	if m.createErr != nil {
		return m.createErr
	}
	row.ID = m.nextID
	m.nextID++
	c := *row
	m.rows[row.ID] = &c
	return nil
}

func (m *mockRepository) Update(_ context.Context, row *employeeDatamodel.Employee) error {
	c := *row
	m.rows[row.ID] = &c
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	delete(m.rows, id)
	return nil
}

type recordingPublisher struct {
	published []events.Event
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	return p.PublishSync(ctx, event)
}

func (p *recordingPublisher) PublishSync(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return p.err
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func validCreateDTO() CreateEmployeeDTO {
	return CreateEmployeeDTO{
		Name:       "Jane Doe",
		Email:      "jane@corp.io",
		Department: "IT",
		Age:        30,
		Experience: 5,
		Salary:     75000,
	}
}

var _ = Describe("EmployeeService", func() {
	var (
		service   *Service
		repo      *mockRepository
		publisher *recordingPublisher
		ctx       context.Context
		admin     internal.Principal
	)

	BeforeEach(func() {
		repo = newMockRepository()
		publisher = &recordingPublisher{}
		service = NewService(repo, publisher, logger.Discard())
		ctx = context.Background()
		admin = internal.Principal{UserID: 1, Role: internal.RoleAdmin}
	})

	Describe("Create", func() {
		Context("when the payload is valid", func() {
			It("applies defaults and publishes employee.created", func() {
				// When
				e, err := service.Create(ctx, validCreateDTO())

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(e.ID).To(Equal(int64(1)))
				Expect(e.WorkHours).To(Equal(DefaultWorkHours))
				Expect(e.ProjectCount).To(BeZero())
				Expect(e.AttritionPrediction).To(Equal("N"))
				Expect(e.IsActive).To(BeTrue())
				Expect(e.PerformanceScore).To(BeNil())
				Expect(publisher.published).To(HaveLen(1))
				Expect(publisher.published[0].EventType()).To(Equal(events.EmployeeCreated))
			})

			It("keeps an explicit zero work week", func() {
				dto := validCreateDTO()
				dto.WorkHours = intp(0)

				e, err := service.Create(ctx, dto)
				Expect(err).NotTo(HaveOccurred())
				Expect(e.WorkHours).To(BeZero())
			})

			It("does not fail when provisioning the account fails", func() {
				publisher.err = errors.New("username clash")
				_, err := service.Create(ctx, validCreateDTO())
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("when the payload is invalid", func() {
			DescribeTable("rejects out of range fields",
				func(mutate func(*CreateEmployeeDTO), field string) {
					dto := validCreateDTO()
					mutate(&dto)

					_, err := service.Create(ctx, dto)

					Expect(internal.IsValidation(err)).To(BeTrue())
					appErr, _ := internal.IsAppError(err)
					details := appErr.Details.(internal.ValidationErrors)
					Expect(details.Errors[0].Field).To(Equal(field))
					Expect(repo.rows).To(BeEmpty())
				},
				Entry("age below 18", func(d *CreateEmployeeDTO) { d.Age = 17 }, "age"),
				Entry("age above 70", func(d *CreateEmployeeDTO) { d.Age = 71 }, "age"),
				Entry("negative experience", func(d *CreateEmployeeDTO) { d.Experience = -1 }, "experience"),
				Entry("zero salary", func(d *CreateEmployeeDTO) { d.Salary = 0 }, "salary"),
				Entry("unknown department", func(d *CreateEmployeeDTO) { d.Department = "Legal" }, "department"),
				Entry("bad email", func(d *CreateEmployeeDTO) { d.Email = "not-an-email" }, "email"),
				Entry("satisfaction above 1", func(d *CreateEmployeeDTO) { d.SatisfactionLevel = f64(1.2) }, "satisfaction_level"),
				Entry("work hours above 80", func(d *CreateEmployeeDTO) { d.WorkHours = intp(81) }, "work_hours"),
				Entry("empty name", func(d *CreateEmployeeDTO) { d.Name = "" }, "name"),
			)

			It("rejects a duplicate email", func() {
				_, err := service.Create(ctx, validCreateDTO())
				Expect(err).NotTo(HaveOccurred())

				dto := validCreateDTO()
				dto.Email = "JANE@corp.io"
				_, err = service.Create(ctx, dto)
				Expect(errors.Is(err, internal.ErrEmailTaken)).To(BeTrue())
			})
		})
	})

	Describe("Get", func() {
		BeforeEach(func() {
			_, err := service.Create(ctx, validCreateDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("lets an admin read any record", func() {
			e, err := service.Get(ctx, 1, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Email).To(Equal("jane@corp.io"))
		})

		It("lets an employee read their own record", func() {
			own := int64(1)
			e, err := service.Get(ctx, 1, internal.Principal{UserID: 5, Role: internal.RoleEmployee, EmployeeID: &own})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.ID).To(Equal(int64(1)))
		})

		It("forbids an employee reading someone else", func() {
			other := int64(2)
			_, err := service.Get(ctx, 1, internal.Principal{UserID: 5, Role: internal.RoleEmployee, EmployeeID: &other})
			Expect(errors.Is(err, internal.ErrNotOwner)).To(BeTrue())
		})

		It("reports a missing employee", func() {
			_, err := service.Get(ctx, 42, admin)
			Expect(internal.IsNotFound(err)).To(BeTrue())
		})

		It("answers forbidden for a missing id the caller does not own", func() {
			other := int64(2)
			caller := internal.Principal{UserID: 5, Role: internal.RoleEmployee, EmployeeID: &other}

			_, existing := service.Get(ctx, 1, caller)
			_, missing := service.Get(ctx, 42, caller)

			Expect(errors.Is(missing, internal.ErrNotOwner)).To(BeTrue())
			Expect(missing).To(Equal(existing))
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			_, err := service.Create(ctx, validCreateDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("changes only the given fields", func() {
			name := "Jane Roe"
			inactive := false
			e, err := service.Update(ctx, 1, UpdateEmployeeDTO{Name: &name, IsActive: &inactive})

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Name).To(Equal("Jane Roe"))
			Expect(e.IsActive).To(BeFalse())
			Expect(e.Department).To(Equal("IT"))
			Expect(repo.rows[1].IsActive).To(BeFalse())
		})

		It("validates partial payloads", func() {
			age := 12
			_, err := service.Update(ctx, 1, UpdateEmployeeDTO{Age: &age})
			Expect(internal.IsValidation(err)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			_, err := service.Create(ctx, validCreateDTO())
			Expect(err).NotTo(HaveOccurred())
			publisher.published = nil
		})

		It("removes the linked account then the row", func() {
			Expect(service.Delete(ctx, 1)).To(Succeed())
			Expect(repo.rows).To(BeEmpty())
			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EmployeeDeleted))
		})

		It("keeps the row when the account removal fails", func() {
			publisher.err = errors.New("db down")
			Expect(service.Delete(ctx, 1)).NotTo(Succeed())
			Expect(repo.rows).To(HaveKey(int64(1)))
		})

		It("reports a missing employee", func() {
			Expect(internal.IsNotFound(service.Delete(ctx, 9))).To(BeTrue())
		})
	})

	Describe("DashboardStats", func() {
		It("counts only active employees with shared buckets", func() {
			// Given
			for i, p := range []float64{0.9, 0.6, 0.3} {
				dto := validCreateDTO()
				dto.Email = []string{"a@corp.io", "b@corp.io", "c@corp.io"}[i]
				e, err := service.Create(ctx, dto)
				Expect(err).NotTo(HaveOccurred())
				repo.rows[e.ID].AttritionProbability = p
			}
			repo.rows[3].IsActive = false

			// When
			stats, err := service.DashboardStats(ctx)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalEmployees).To(Equal(2))
			Expect(stats.AttritionRisk.High).To(Equal(1))
			Expect(stats.AttritionRisk.Medium).To(Equal(1))
			Expect(stats.AttritionRisk.Low).To(BeZero())
		})
	})
})

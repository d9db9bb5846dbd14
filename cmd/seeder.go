package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/auth"
	"github.com/frahmantamala/performance-tracker/internal/core/common/validation"
	"github.com/frahmantamala/performance-tracker/internal/employee"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedAdminPassword string
	seedEmployees     int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin account and sample employees for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return err
		}
		defer deps.Close()

		ctx := context.Background()
		if clearData {
			if err := clearSeedData(ctx, deps.Gorm); err != nil {
				return err
			}
			fmt.Println("Cleared existing employees, users and feedback")
		}

		if _, err := deps.DepartmentService.EnsureCatalog(ctx); err != nil {
			return fmt.Errorf("failed to seed departments: %w", err)
		}

		_, err = deps.AuthService.Register(ctx, auth.RegisterDTO{
			Username: "admin",
			Email:    "admin@company.com",
			Password: seedAdminPassword,
			Role:     internal.RoleAdmin,
		})
		switch {
		case errors.Is(err, internal.ErrUsernameTaken), errors.Is(err, internal.ErrEmailTaken):
			fmt.Println("admin user already exists")
		case err != nil:
			return fmt.Errorf("failed to seed admin user: %w", err)
		default:
			fmt.Println("Seeded admin user: admin")
		}

		created := 0
		for _, dto := range sampleEmployees(seedEmployees) {
			_, err := deps.EmployeeService.Create(ctx, dto)
			if errors.Is(err, internal.ErrEmailTaken) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to seed employee %s: %w", dto.Email, err)
			}
			created++
		}
		fmt.Printf("Seeded %d employees (accounts use the configured default password)\n", created)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "admin123", "password for the seeded admin account")
	seedCmd.Flags().IntVar(&seedEmployees, "employees", 28, "number of sample employees to create")
}

func clearSeedData(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"feedback", "users", "employees"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

var sampleNames = []string{
	"Alice Johnson", "Bob Smith", "Carol White", "David Brown", "Eva Green", "Frank Miller",
	"Grace Lee", "Henry Wilson", "Ivy Moore", "Jack Taylor", "Karen Anderson", "Leo Thomas",
	"Mia Jackson", "Noah Harris", "Olivia Martin", "Paul Thompson", "Quinn Garcia", "Rosa Martinez",
	"Sam Robinson", "Tina Clark", "Uma Lewis", "Victor Walker", "Wendy Hall", "Xavier Allen",
	"Yara Young", "Zack King", "Amber Scott", "Brian Adams",
}

// sampleEmployees is deterministic so repeated seeds hit the email check instead of duplicating.
func sampleEmployees(n int) []employee.CreateEmployeeDTO {
	if n > len(sampleNames) {
		n = len(sampleNames)
	}
	out := make([]employee.CreateEmployeeDTO, 0, n)
	for i := 0; i < n; i++ {
		name := sampleNames[i]
		satisfaction := float64(30+(i*37)%70) / 100
		evaluation := float64(40+(i*53)%60) / 100
		projects := 2 + i%6
		hours := 35 + (i*7)%20

		out = append(out, employee.CreateEmployeeDTO{
			Name:                name,
			Email:               strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@company.com",
			Department:          validation.Departments[i%len(validation.Departments)],
			Age:                 22 + (i*5)%38,
			Experience:          1 + (i*3)%20,
			Salary:              float64(45000 + (i*7919)%65000),
			SatisfactionLevel:   &satisfaction,
			LastEvaluationScore: &evaluation,
			ProjectCount:        &projects,
			WorkHours:           &hours,
		})
	}
	return out
}

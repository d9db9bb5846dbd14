package department

type DepartmentResponse struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	ActiveEmployees int    `json:"active_employees"`
}

type DepartmentsResponse struct {
	Departments []DepartmentResponse `json:"departments"`
}

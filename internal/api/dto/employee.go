package dto

type EmployeeRequest struct {
	ID          string  `json:"id"`
	Gender      string  `json:"gender"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ServiceTime float64 `json:"service_time,omitempty"`
}

type EmployeeResponse struct {
	ID          string  `json:"id"`
	Gender      string  `json:"gender"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ServiceTime float64 `json:"service_time"`
}

type ListEmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
}

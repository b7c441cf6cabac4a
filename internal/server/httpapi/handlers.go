package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/staffkeeper/internal/server/apperr"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/services"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type addEmployeeRequest struct {
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Email         string   `json:"email"`
	Gender        string   `json:"gender"`
	Designation   string   `json:"designation"`
	Salary        *float64 `json:"salary"`
	DateOfJoining string   `json:"date_of_joining"`
	Department    string   `json:"department"`
	EmployeePhoto string   `json:"employee_photo"`
}

// updateEmployeeRequest uses pointer fields so that "not supplied" can be
// told apart from "supplied as empty".
type updateEmployeeRequest struct {
	FirstName     *string  `json:"first_name"`
	LastName      *string  `json:"last_name"`
	Email         *string  `json:"email"`
	Gender        *string  `json:"gender"`
	Designation   *string  `json:"designation"`
	Salary        *float64 `json:"salary"`
	DateOfJoining *string  `json:"date_of_joining"`
	Department    *string  `json:"department"`
	EmployeePhoto *string  `json:"employee_photo"`
}

// employeeResponse is the wire shape of an employee record.
type employeeResponse struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Gender        string    `json:"gender,omitempty"`
	Designation   string    `json:"designation"`
	Salary        float64   `json:"salary"`
	DateOfJoining string    `json:"date_of_joining"`
	Department    string    `json:"department"`
	EmployeePhoto string    `json:"employee_photo"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toEmployeeResponse(e *models.Employee) employeeResponse {
	return employeeResponse{
		ID:            e.ID,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		Gender:        e.Gender,
		Designation:   e.Designation,
		Salary:        e.Salary,
		DateOfJoining: e.DateOfJoining.Format("2006-01-02"),
		Department:    e.Department,
		EmployeePhoto: e.PhotoURL,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toEmployeeResponses(list []*models.Employee) []employeeResponse {
	result := make([]employeeResponse, 0, len(list))
	for _, e := range list {
		result = append(result, toEmployeeResponse(e))
	}
	return result
}

// writeError serializes a tagged error, mapping its kind to a status code.
// The kind is preserved all the way here; untagged errors surface as 500.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindBadRequest:
		status = http.StatusBadRequest
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.BadRequest("invalid request body"))
		return
	}

	view, err := s.auth.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.BadRequest("invalid request body"))
		return
	}

	token, err := s.auth.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) handleListEmployees(c *gin.Context) {
	list, err := s.employees.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponses(list))
}

func (s *Server) handleGetEmployee(c *gin.Context) {
	employee, err := s.employees.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

func (s *Server) handleSearchEmployees(c *gin.Context) {
	list, err := s.employees.Search(c.Request.Context(), c.Query("designation"), c.Query("department"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponses(list))
}

func (s *Server) handleAddEmployee(c *gin.Context) {
	var req addEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.BadRequest("invalid request body"))
		return
	}

	created, err := s.employees.Create(c.Request.Context(), services.CreateEmployeeParams{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Gender:        req.Gender,
		Designation:   req.Designation,
		Salary:        req.Salary,
		DateOfJoining: req.DateOfJoining,
		Department:    req.Department,
		Photo:         req.EmployeePhoto,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

func (s *Server) handleUpdateEmployee(c *gin.Context) {
	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.BadRequest("invalid request body"))
		return
	}

	updated, err := s.employees.Update(c.Request.Context(), c.Param("id"), services.UpdateEmployeeParams{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Gender:        req.Gender,
		Designation:   req.Designation,
		Salary:        req.Salary,
		DateOfJoining: req.DateOfJoining,
		Department:    req.Department,
		Photo:         req.EmployeePhoto,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

func (s *Server) handleDeleteEmployee(c *gin.Context) {
	message, err := s.employees.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

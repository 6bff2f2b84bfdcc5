package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	payrollapp "github.com/opsledger/backend/internal/application/payroll"
	"github.com/opsledger/backend/internal/interfaces/http/dto"
)

// PayrollHandler handles employee and payroll endpoints
type PayrollHandler struct {
	BaseHandler
	payrollService *payrollapp.Service
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payrollService *payrollapp.Service) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// CreateEmployee godoc
// @Summary      Register an employee
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        request body payrollapp.CreateEmployeeInput true "Employee registration request"
// @Success      201 {object} dto.Response{data=payrollapp.EmployeeResponse}
// @Security     BearerAuth
// @Router       /payroll/employees [post]
func (h *PayrollHandler) CreateEmployee(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var input payrollapp.CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	employee, err := h.payrollService.CreateEmployee(c.Request.Context(), identity, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, employee)
}

// GetEmployee godoc
// @Summary      Get an employee by ID
// @Tags         payroll
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=payrollapp.EmployeeResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/employees/{id} [get]
func (h *PayrollHandler) GetEmployee(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	employee, err := h.payrollService.GetEmployee(c.Request.Context(), identity, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// ListEmployees godoc
// @Summary      List employees
// @Tags         payroll
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name or position"
// @Success      200 {object} dto.Response{data=[]payrollapp.EmployeeResponse}
// @Security     BearerAuth
// @Router       /payroll/employees [get]
func (h *PayrollHandler) ListEmployees(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	employees, err := h.payrollService.ListEmployees(c.Request.Context(), identity, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employees)
}

// CreatePayroll godoc
// @Summary      Create a payroll record
// @Description  Creates a DRAFT payroll for an employee and period
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        request body payrollapp.CreatePayrollInput true "Payroll creation request"
// @Success      201 {object} dto.Response{data=payrollapp.PayrollResponse}
// @Security     BearerAuth
// @Router       /payroll/records [post]
func (h *PayrollHandler) CreatePayroll(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var input payrollapp.CreatePayrollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	payroll, err := h.payrollService.CreatePayroll(c.Request.Context(), identity, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payroll)
}

// PayPayroll godoc
// @Summary      Pay a payroll record
// @Description  Marks the payroll PAID and records the cash expense; paying twice is rejected
// @Tags         payroll
// @Produce      json
// @Param        id path string true "Payroll ID" format(uuid)
// @Success      200 {object} dto.Response{data=payrollapp.PayrollResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/records/{id}/pay [post]
func (h *PayrollHandler) PayPayroll(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	payrollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payroll ID format")
		return
	}

	payroll, err := h.payrollService.PayPayroll(c.Request.Context(), identity, payrollID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payroll)
}

// ListPayrolls godoc
// @Summary      List payroll records
// @Tags         payroll
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Filter by period"
// @Success      200 {object} dto.Response{data=[]payrollapp.PayrollResponse}
// @Security     BearerAuth
// @Router       /payroll/records [get]
func (h *PayrollHandler) ListPayrolls(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payrolls, err := h.payrollService.ListPayrolls(c.Request.Context(), identity, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payrolls)
}

package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	"github.com/noah-isme/internship-noc-api/pkg/response"
)

type teacherService interface {
	Me(ctx context.Context, session *models.Session) (*models.Teacher, error)
	UpsertProfile(ctx context.Context, session *models.Session, req dto.TeacherProfileRequest) (*models.Teacher, error)
	List(ctx context.Context, session *models.Session) ([]models.TeacherWithProfile, error)
	ListStudents(ctx context.Context, session *models.Session, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error)
	AssignMentor(ctx context.Context, session *models.Session, studentID string, req dto.AssignMentorRequest) (*models.Student, error)
}

// TeacherHandler exposes teacher records and mentee listings.
type TeacherHandler struct {
	service teacherService
}

// NewTeacherHandler constructs a TeacherHandler.
func NewTeacherHandler(svc teacherService) *TeacherHandler {
	return &TeacherHandler{service: svc}
}

// Me godoc
// @Summary Get own teacher record
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/me [get]
func (h *TeacherHandler) Me(c *gin.Context) {
	teacher, err := h.service.Me(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// UpsertProfile godoc
// @Summary Create or update own teacher record
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body dto.TeacherProfileRequest true "Teacher record"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teachers/me [put]
func (h *TeacherHandler) UpsertProfile(c *gin.Context) {
	var req dto.TeacherProfileRequest
	if !bindJSON(c, &req, "invalid teacher payload") {
		return
	}
	teacher, err := h.service.UpsertProfile(c.Request.Context(), sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Students godoc
// @Summary List students
// @Description Teachers see their mentees, the HOD sees every student
// @Tags Teachers
// @Produce json
// @Param search query string false "Name or enrollment search"
// @Param department query string false "Department"
// @Param mentor_id query string false "Mentor (HOD only)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort field"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /teachers/students [get]
func (h *TeacherHandler) Students(c *gin.Context) {
	filter := models.StudentFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Department: strings.TrimSpace(c.Query("department")),
		MentorID:   strings.TrimSpace(c.Query("mentor_id")),
		Page:       queryInt(c, "page"),
		PageSize:   queryInt(c, "page_size"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	students, pagination, err := h.service.ListStudents(c.Request.Context(), sessionFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Teachers godoc
// @Summary List teachers
// @Tags HOD
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /hod/teachers [get]
func (h *TeacherHandler) Teachers(c *gin.Context) {
	teachers, err := h.service.List(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// AssignMentor godoc
// @Summary Assign a mentor to a student
// @Tags HOD
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.AssignMentorRequest true "Mentor"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hod/students/{id}/mentor [put]
func (h *TeacherHandler) AssignMentor(c *gin.Context) {
	var req dto.AssignMentorRequest
	if !bindJSON(c, &req, "invalid mentor payload") {
		return
	}
	student, err := h.service.AssignMentor(c.Request.Context(), sessionFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// queryInt returns 0 for absent or malformed values so services apply defaults.
func queryInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}

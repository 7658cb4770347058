package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tutorhub/tutor-scheduling-hub/internal/application/command"
	"github.com/tutorhub/tutor-scheduling-hub/internal/application/query"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/instructor"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/student"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/subject"
	"github.com/tutorhub/tutor-scheduling-hub/pkg/logger"
	"github.com/tutorhub/tutor-scheduling-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Tutor Scheduling Hub API",
		"version":     "v1",
		"description": "REST API for academy lesson scheduling and auto-assignment",
		"endpoints": map[string]string{
			"health":      "/health",
			"schedule":    "/api/v1/schedule",
			"sessions":    "/api/v1/sessions",
			"auto_assign": "/api/v1/schedule/auto-assign",
			"instructors": "/api/v1/instructors",
			"students":    "/api/v1/students",
			"subjects":    "/api/v1/subjects",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULING HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// createSessionRequest is the request body for POST /api/v1/sessions.
type createSessionRequest struct {
	Date         string  `json:"date"`
	TimeSlot     int     `json:"time_slot"`
	InstructorID int64   `json:"instructor_id"`
	SubjectID    int64   `json:"subject_id"`
	StudentIDs   []int64 `json:"student_ids"`
}

// handleCreateSession handles POST /api/v1/sessions.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if s.deps.CreateSession == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Session handler not configured")
		return
	}

	var req createSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_date", "date must be in YYYY-MM-DD format")
		return
	}

	cmd := command.CreateSessionCommand{
		Date:          date,
		Slot:          shared.TimeSlot(req.TimeSlot),
		InstructorID:  req.InstructorID,
		SubjectID:     req.SubjectID,
		StudentIDs:    req.StudentIDs,
		CorrelationID: getRequestID(r.Context()),
	}

	result, err := s.deps.CreateSession.Handle(r.Context(), cmd)
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	if !result.OK {
		writeJSONError(w, http.StatusUnprocessableEntity, "scheduling_rejected", result.Message)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": result.SessionID,
		"message":    result.Message,
	})
}

// autoAssignRequest is the request body for POST /api/v1/schedule/auto-assign.
type autoAssignRequest struct {
	Date string `json:"date"`
}

// handleAutoAssign handles POST /api/v1/schedule/auto-assign.
func (s *Server) handleAutoAssign(w http.ResponseWriter, r *http.Request) {
	if s.deps.AutoAssign == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Auto-assign handler not configured")
		return
	}

	var req autoAssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_date", "date must be in YYYY-MM-DD format")
		return
	}

	result, err := s.deps.AutoAssign.Handle(r.Context(), command.AutoAssignCommand{
		Date:          date,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assigned_count": result.AssignedCount,
		"session_ids":    result.SessionIDs,
		"message":        result.Message,
	})
}

// handleGetDaySchedule handles GET /api/v1/schedule?date=YYYY-MM-DD.
func (s *Server) handleGetDaySchedule(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetDaySchedule == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Schedule handler not configured")
		return
	}

	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		dateParam = timeutil.FormatDate(timeutil.Today())
	}

	date, err := timeutil.ParseDate(dateParam)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_date", "date must be in YYYY-MM-DD format")
		return
	}

	schedule, err := s.deps.GetDaySchedule.Handle(r.Context(), query.GetDayScheduleQuery{Date: date})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

// ══════════════════════════════════════════════════════════════════════════════
// REFERENCE DATA HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// registerInstructorRequest is the request body for POST /api/v1/instructors.
type registerInstructorRequest struct {
	Name           string  `json:"name"`
	Education      string  `json:"education"`
	Phone          string  `json:"phone"`
	Notes          string  `json:"notes"`
	PreferredSlots []int   `json:"preferred_slots"`
	SubjectIDs     []int64 `json:"subject_ids"`
}

// handleRegisterInstructor handles POST /api/v1/instructors.
func (s *Server) handleRegisterInstructor(w http.ResponseWriter, r *http.Request) {
	if s.deps.RegisterInstructor == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Instructor handler not configured")
		return
	}

	var req registerInstructorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterInstructor.Handle(r.Context(), command.RegisterInstructorCommand{
		Name:           req.Name,
		Education:      req.Education,
		Phone:          req.Phone,
		Notes:          req.Notes,
		PreferredSlots: toSlotSet(req.PreferredSlots),
		SubjectIDs:     req.SubjectIDs,
		CorrelationID:  getRequestID(r.Context()),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"instructor_id": result.InstructorID,
	})
}

// handleListInstructors handles GET /api/v1/instructors.
func (s *Server) handleListInstructors(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListInstructors == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Instructor handler not configured")
		return
	}

	views, err := s.deps.ListInstructors.Handle(r.Context())
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// registerStudentRequest is the request body for POST /api/v1/students.
type registerStudentRequest struct {
	Name           string        `json:"name"`
	Grade          int           `json:"grade"`
	PreferredSlots []int         `json:"preferred_slots"`
	SubjectIDs     []int64       `json:"subject_ids"`
	Preferences    map[int64]int `json:"preferences"`
}

// handleRegisterStudent handles POST /api/v1/students.
func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	if s.deps.RegisterStudent == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Student handler not configured")
		return
	}

	var req registerStudentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var prefs map[int64]student.PreferenceType
	if len(req.Preferences) > 0 {
		prefs = make(map[int64]student.PreferenceType, len(req.Preferences))
		for instructorID, p := range req.Preferences {
			prefs[instructorID] = student.PreferenceType(p)
		}
	}

	result, err := s.deps.RegisterStudent.Handle(r.Context(), command.RegisterStudentCommand{
		Name:           req.Name,
		Grade:          student.Grade(req.Grade),
		PreferredSlots: toSlotSet(req.PreferredSlots),
		SubjectIDs:     req.SubjectIDs,
		Preferences:    prefs,
		CorrelationID:  getRequestID(r.Context()),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"student_id": result.StudentID,
	})
}

// handleListStudents handles GET /api/v1/students.
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListStudents == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Student handler not configured")
		return
	}

	views, err := s.deps.ListStudents.Handle(r.Context())
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// registerSubjectRequest is the request body for POST /api/v1/subjects.
type registerSubjectRequest struct {
	Name string `json:"name"`
}

// handleRegisterSubject handles POST /api/v1/subjects.
func (s *Server) handleRegisterSubject(w http.ResponseWriter, r *http.Request) {
	if s.deps.RegisterSubject == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Subject handler not configured")
		return
	}

	var req registerSubjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterSubject.Handle(r.Context(), command.RegisterSubjectCommand{
		Name:          req.Name,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"subject_id": result.SubjectID,
	})
}

// handleListSubjects handles GET /api/v1/subjects.
func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListSubjects == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Subject handler not configured")
		return
	}

	views, err := s.deps.ListSubjects.Handle(r.Context())
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// ══════════════════════════════════════════════════════════════════════════════
// SHARED HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeJSON decodes the request body into dest, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, dest); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON")
		return false
	}

	return true
}

// toSlotSet converts raw slot numbers into a SlotSet.
func toSlotSet(slots []int) shared.SlotSet {
	set := make(shared.SlotSet, 0, len(slots))
	for _, s := range slots {
		set = append(set, shared.TimeSlot(s))
	}
	return set.Normalize()
}

// writeCommandError maps application errors onto HTTP status codes. Domain
// validation problems are the caller's fault; anything else is reported as a
// generic 500 without leaking internals.
func (s *Server) writeCommandError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, instructor.ErrInstructorNotFound),
		errors.Is(err, student.ErrStudentNotFound),
		errors.Is(err, subject.ErrSubjectNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, subject.ErrSubjectAlreadyExists):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrEmptyValue),
		errors.Is(err, shared.ErrValueOutOfRange),
		errors.Is(err, shared.ErrInvalidDate),
		errors.Is(err, shared.ErrInvalidSlot),
		errors.Is(err, shared.ErrInvalidEntity),
		errors.Is(err, instructor.ErrInvalidInstructor),
		errors.Is(err, student.ErrInvalidStudent),
		errors.Is(err, subject.ErrInvalidSubject):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

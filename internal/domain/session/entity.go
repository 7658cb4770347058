// Package session содержит агрегат учебного занятия (LessonSession).
// Занятие связывает преподавателя, предмет, дату и таймслот с группой
// учеников не более чем из трёх человек. Занятия создаются только ядром
// планирования и после фиксации не изменяются и не удаляются.
package session

import (
	"errors"
	"time"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// MaxRosterSize - максимальное число учеников в одном занятии.
const MaxRosterSize = 3

// Доменные ошибки занятия.
var (
	ErrSessionNotFound = errors.New("session: not found")
	ErrRosterFull      = errors.New("session: roster is full")
	ErrAlreadyEnrolled = errors.New("session: student already enrolled")
	ErrInvalidSession  = errors.New("session: invalid")
)

// Session представляет одно занятие.
type Session struct {
	// ID - суррогатный ключ, выдаётся хранилищем при вставке.
	ID int64

	// Date - календарная дата занятия (гранулярность - день, полночь UTC).
	Date time.Time

	// Slot - таймслот внутри дня.
	Slot shared.TimeSlot

	// InstructorID - преподаватель занятия.
	InstructorID int64

	// SubjectID - предмет занятия.
	SubjectID int64

	// StudentIDs - список записанных учеников (0..3) в порядке записи.
	StudentIDs []int64
}

// New создаёт занятие с нормализованной датой и пустым списком учеников.
func New(date time.Time, slot shared.TimeSlot, instructorID, subjectID int64) *Session {
	return &Session{
		Date:         shared.NormalizeDate(date),
		Slot:         slot,
		InstructorID: instructorID,
		SubjectID:    subjectID,
	}
}

// HasStudent проверяет, записан ли ученик на занятие.
func (s *Session) HasStudent(studentID int64) bool {
	for _, id := range s.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// RosterFull проверяет, заполнена ли группа.
func (s *Session) RosterFull() bool {
	return len(s.StudentIDs) >= MaxRosterSize
}

// Enroll добавляет ученика в группу занятия.
// Возвращает ErrRosterFull при переполнении и ErrAlreadyEnrolled при повторе.
func (s *Session) Enroll(studentID int64) error {
	if s.RosterFull() {
		return ErrRosterFull
	}
	if s.HasStudent(studentID) {
		return ErrAlreadyEnrolled
	}
	s.StudentIDs = append(s.StudentIDs, studentID)
	return nil
}

// Validate проверяет инварианты занятия.
func (s *Session) Validate() error {
	if s.Date.IsZero() {
		return ErrInvalidSession
	}
	if !s.Slot.IsValid() {
		return ErrInvalidSession
	}
	if s.InstructorID <= 0 || s.SubjectID <= 0 {
		return ErrInvalidSession
	}
	if len(s.StudentIDs) > MaxRosterSize {
		return ErrInvalidSession
	}
	return nil
}

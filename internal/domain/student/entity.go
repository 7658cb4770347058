// Package student содержит доменную модель ученика.
// Ученик задаёт класс обучения, предпочитаемые таймслоты, предметы и
// трёхзначные предпочтения по преподавателям (Preferred/Avoid/Neutral) -
// всё это входные данные для правил назначения занятий.
package student

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// MaxNameLength ограничивает длину имени ученика.
const MaxNameLength = 20

// Доменные ошибки ученика.
var (
	ErrStudentNotFound = errors.New("student: not found")
	ErrInvalidStudent  = errors.New("student: invalid")
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE
// ══════════════════════════════════════════════════════════════════════════════

// Grade представляет класс обучения: фиксированная упорядоченная шкала
// от начальной школы до старших классов.
type Grade int

const (
	GradeUnknown Grade = iota
	Elementary1
	Elementary2
	Elementary3
	Elementary4
	Elementary5
	Elementary6
	Middle1
	Middle2
	Middle3
	High1
	High2
	High3
)

// IsValid проверяет, что класс входит в допустимую шкалу.
func (g Grade) IsValid() bool {
	return g >= Elementary1 && g <= High3
}

// String возвращает строковое представление класса.
func (g Grade) String() string {
	switch {
	case g >= Elementary1 && g <= Elementary6:
		return "elementary-" + strconv.Itoa(int(g-Elementary1)+1)
	case g >= Middle1 && g <= Middle3:
		return "middle-" + strconv.Itoa(int(g-Middle1)+1)
	case g >= High1 && g <= High3:
		return "high-" + strconv.Itoa(int(g-High1)+1)
	default:
		return "unknown"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// INSTRUCTOR PREFERENCE
// ══════════════════════════════════════════════════════════════════════════════

// PreferenceType - трёхзначное отношение ученика к преподавателю.
// Закрытое перечисление: Preferred поднимает преподавателя в приоритете,
// Avoid полностью запрещает назначение, Neutral не влияет.
type PreferenceType int

const (
	PreferenceAvoid     PreferenceType = -1
	PreferenceNeutral   PreferenceType = 0
	PreferencePreferred PreferenceType = 1
)

// IsValid проверяет, что значение входит в перечисление.
func (p PreferenceType) IsValid() bool {
	return p >= PreferenceAvoid && p <= PreferencePreferred
}

// String возвращает строковое представление предпочтения.
func (p PreferenceType) String() string {
	switch p {
	case PreferencePreferred:
		return "preferred"
	case PreferenceAvoid:
		return "avoid"
	case PreferenceNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student представляет ученика.
type Student struct {
	// ID - суррогатный ключ, выдаётся хранилищем при создании.
	ID int64

	// Name - имя ученика.
	Name string

	// Grade - класс обучения.
	Grade Grade

	// PreferredSlots - таймслоты, в которые ученик готов заниматься.
	PreferredSlots shared.SlotSet

	// SubjectIDs - изучаемые предметы в порядке загрузки.
	SubjectIDs []int64

	// Preferences - предпочтения по преподавателям.
	// Не более одной записи на преподавателя; отсутствие записи = Neutral.
	Preferences map[int64]PreferenceType
}

// PreferenceFor возвращает отношение ученика к преподавателю.
// Отсутствующая запись трактуется как Neutral.
func (s *Student) PreferenceFor(instructorID int64) PreferenceType {
	if s.Preferences == nil {
		return PreferenceNeutral
	}
	if p, ok := s.Preferences[instructorID]; ok {
		return p
	}
	return PreferenceNeutral
}

// Prefers проверяет, что ученик предпочитает преподавателя.
func (s *Student) Prefers(instructorID int64) bool {
	return s.PreferenceFor(instructorID) == PreferencePreferred
}

// Avoids проверяет, что ученик избегает преподавателя.
// Avoid - абсолютное правило: такой преподаватель никогда не назначается.
func (s *Student) Avoids(instructorID int64) bool {
	return s.PreferenceFor(instructorID) == PreferenceAvoid
}

// Studies проверяет, изучает ли ученик данный предмет.
func (s *Student) Studies(subjectID int64) bool {
	for _, id := range s.SubjectIDs {
		if id == subjectID {
			return true
		}
	}
	return false
}

// WantsSlot проверяет, входит ли слот в предпочитаемые.
func (s *Student) WantsSlot(slot shared.TimeSlot) bool {
	return s.PreferredSlots.Contains(slot)
}

// Validate проверяет корректность ученика перед сохранением.
func (s *Student) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" || len(name) > MaxNameLength {
		return ErrInvalidStudent
	}
	if !s.Grade.IsValid() {
		return ErrInvalidStudent
	}
	for _, slot := range s.PreferredSlots {
		if !slot.IsValid() {
			return ErrInvalidStudent
		}
	}
	for _, p := range s.Preferences {
		if !p.IsValid() {
			return ErrInvalidStudent
		}
	}
	return nil
}

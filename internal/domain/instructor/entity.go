// Package instructor содержит доменную модель преподавателя учебного центра.
// Преподаватель задаёт набор предпочитаемых таймслотов и набор предметов,
// которые он готов вести - оба набора участвуют в правилах назначения занятий.
package instructor

import (
	"errors"
	"strings"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// Ограничения полей, унаследованные от справочной схемы.
const (
	MaxNameLength  = 20
	MaxPhoneLength = 15
)

// Доменные ошибки преподавателя.
var (
	ErrInstructorNotFound = errors.New("instructor: not found")
	ErrInvalidInstructor  = errors.New("instructor: invalid")
)

// Instructor представляет преподавателя.
type Instructor struct {
	// ID - суррогатный ключ, выдаётся хранилищем при создании.
	ID int64

	// Name - имя преподавателя.
	Name string

	// Education - свободный текст об образовании.
	Education string

	// Phone - контактный телефон.
	Phone string

	// Notes - произвольные заметки администратора.
	Notes string

	// PreferredSlots - таймслоты, в которые преподаватель готов вести занятия.
	// Занятие может быть назначено только на слот из этого набора.
	PreferredSlots shared.SlotSet

	// SubjectIDs - предметы преподавателя в порядке загрузки.
	// Порядок значим: при выборе общего предмета берётся первый совпавший.
	SubjectIDs []int64
}

// WantsSlot проверяет, входит ли слот в предпочитаемые.
func (i *Instructor) WantsSlot(slot shared.TimeSlot) bool {
	return i.PreferredSlots.Contains(slot)
}

// Teaches проверяет, ведёт ли преподаватель данный предмет.
func (i *Instructor) Teaches(subjectID int64) bool {
	for _, id := range i.SubjectIDs {
		if id == subjectID {
			return true
		}
	}
	return false
}

// Validate проверяет корректность преподавателя перед сохранением.
func (i *Instructor) Validate() error {
	name := strings.TrimSpace(i.Name)
	if name == "" || len(name) > MaxNameLength {
		return ErrInvalidInstructor
	}
	if len(i.Phone) > MaxPhoneLength {
		return ErrInvalidInstructor
	}
	for _, slot := range i.PreferredSlots {
		if !slot.IsValid() {
			return ErrInvalidInstructor
		}
	}
	return nil
}

// Package subject содержит доменную модель учебного предмета.
// Предмет - это справочная сущность: имя плюс связи многие-ко-многим
// с преподавателями и учениками.
package subject

import (
	"errors"
	"strings"
)

// MaxNameLength ограничивает длину названия предмета.
const MaxNameLength = 50

// Доменные ошибки предмета.
var (
	ErrSubjectNotFound      = errors.New("subject: not found")
	ErrSubjectAlreadyExists = errors.New("subject: already exists")
	ErrInvalidSubject       = errors.New("subject: invalid")
)

// Subject представляет учебный предмет.
type Subject struct {
	// ID - суррогатный ключ, выдаётся хранилищем при создании.
	ID int64

	// Name - название предмета (например, "Математика").
	Name string
}

// New создаёт предмет с нормализованным именем.
func New(name string) *Subject {
	return &Subject{Name: strings.TrimSpace(name)}
}

// Validate проверяет корректность предмета перед сохранением.
func (s *Subject) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return ErrInvalidSubject
	}
	if len(name) > MaxNameLength {
		return ErrInvalidSubject
	}
	return nil
}

package repository

import (
	"sync"

	"github.com/noah-isme/talleres-api/internal/models"
)

// StudentDirectory is a small DNI-keyed roster used to prefill the capture form.
type StudentDirectory struct {
	mu       sync.RWMutex
	students map[string]models.Student
}

// NewStudentDirectory seeds the directory with known students.
func NewStudentDirectory(seed []models.Student) *StudentDirectory {
	d := &StudentDirectory{students: make(map[string]models.Student, len(seed))}
	for _, s := range seed {
		d.students[s.DNI] = s
	}
	return d
}

// DefaultStudentSeed is the roster shipped with the application.
func DefaultStudentSeed() []models.Student {
	return []models.Student{
		{DNI: "12345678", Nombre: "GARCÍA", ApellidoPaterno: "PÉREZ", ApellidoMaterno: "LÓPEZ"},
	}
}

// Lookup returns the student registered under dni.
func (d *StudentDirectory) Lookup(dni string) (models.Student, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.students[dni]
	return s, ok
}

package compute

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
)

// Student is a free-form record from the students file. Only id, pref and programme are interpreted.
type Student map[string]any

// ID returns the student id rendered as a string.
func (s Student) ID() string {
	return field(s, "id")
}

// StudentStats counts students per preference and per programme.
type StudentStats struct {
	PreferenceCounts map[string]int `json:"preference_counts"`
	ProgrammeCounts  map[string]int `json:"programme_counts"`
}

// Students is the in-memory student list served by the lab endpoints.
type Students []Student

// LoadStudents reads a JSON array of student objects from path.
func LoadStudents(path string) (Students, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read students file: %w", err)
	}
	var students Students
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, fmt.Errorf("failed to parse students file: %w", err)
	}
	return students, nil
}

// Find returns the first student with the given id.
func (s Students) Find(id string) (Student, bool) {
	return lo.Find(s, func(student Student) bool {
		return student.ID() == id
	})
}

// Stats aggregates the preference and programme of every student.
// Students without the field are counted under "null".
func (s Students) Stats() StudentStats {
	return StudentStats{
		PreferenceCounts: lo.CountValuesBy(s, func(student Student) string {
			return field(student, "pref")
		}),
		ProgrammeCounts: lo.CountValuesBy(s, func(student Student) string {
			return field(student, "programme")
		}),
	}
}

func field(s Student, key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return "null"
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

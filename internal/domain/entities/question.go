// Package entities contains domain entities used across the application.
package entities

// Question is a single quiz prompt with its reference answer.
// Field names on the wire are capitalised exactly as the question bank stores them.
type Question struct {
	Question string `json:"Question"` // prompt text shown to the student
	Answer   string `json:"Answer"`   // reference (ideal) answer
}

package models

import "fmt"

// SlotStatus is the lifecycle state of an in-flight upload slot.
type SlotStatus string

const (
	SlotEmpty     SlotStatus = "empty"
	SlotUploading SlotStatus = "uploading"
	SlotUploaded  SlotStatus = "uploaded"
	SlotError     SlotStatus = "error"
)

// legal slot transitions; no transition may skip SlotUploading.
var slotTransitions = map[SlotStatus][]SlotStatus{
	SlotEmpty:     {SlotUploading},
	SlotUploading: {SlotUploaded, SlotError},
}

// Slot is an ephemeral, local-only record tracking one upload attempt.
// It is created when an asset passes validation and destroyed when the queue
// finishes with it (success) or when the user dismisses it (error). Slot ids
// are uuids and never overlap committed attachment ids.
type Slot struct {
	ID          string
	Name        string
	ContentType string
	Data        []byte
	Status      SlotStatus
	Progress    int
	Err         error
}

// Transition moves the slot to next, enforcing the legal lifecycle
// Empty -> Uploading -> Uploaded or Error.
func (s *Slot) Transition(next SlotStatus) error {
	for _, allowed := range slotTransitions[s.Status] {
		if next == allowed {
			s.Status = next
			return nil
		}
	}
	return fmt.Errorf("illegal slot transition %s -> %s", s.Status, next)
}

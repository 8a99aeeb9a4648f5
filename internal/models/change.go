package models

import "time"

// Change journal entry types.
const (
	ChangeScheduleCreated  = "SCHEDULE_CREATED"
	ChangeScheduleReplaced = "SCHEDULE_REPLACED"
	ChangeScheduleDeleted  = "SCHEDULE_DELETED"
	ChangeZoneCreated      = "ZONE_CREATED"
	ChangeEventCreated     = "EVENT_CREATED"
	ChangeEventEdited      = "EVENT_EDITED"
	ChangeEventDeleted     = "EVENT_DELETED"
)

// ChangeEntry is one append-only journal line recording a committed mutation.
type ChangeEntry struct {
	ID          string    `json:"id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Schedule    string    `json:"schedule"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}

// ChangeFilter narrows a journal listing. Zero fields do not filter.
type ChangeFilter struct {
	From     time.Time
	To       time.Time
	Type     string
	Schedule string
}

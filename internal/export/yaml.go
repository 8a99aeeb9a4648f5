package export

import (
	"gopkg.in/yaml.v3"

	"building_scheduler/internal/models"
)

// YAML renders the schedule tree with its rules.
func YAML(rec models.ScheduleRecord) ([]byte, error) {
	return yaml.Marshal(rec)
}

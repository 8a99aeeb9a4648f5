package export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"building_scheduler/internal/models"
)

// slotDuration is the length given to each occurrence, which is an instant in the grid.
const slotDuration = 30 * time.Minute

// ICS renders one VEVENT per placed occurrence.
func ICS(title string, g models.WeekGrid) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//building-scheduler//week export//EN")
	cal.SetXWRCalName(title)

	stamp := g.WeekStart
	for _, e := range g.Entries() {
		ev := cal.AddEvent(occurrenceUID(e))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(e.Time)
		ev.SetEndAt(e.Time.Add(slotDuration))
		ev.SetSummary(fmt.Sprintf("%s: setpoint %s %s", e.EventID, e.Setpoint.Comparison.Label(), e.Setpoint.Value))
		ev.SetLocation(fmt.Sprintf("%s / %s", e.ScheduleName, e.ZoneID))
		ev.SetDescription(fmt.Sprintf("Outstation: %s\nColour: %s", e.OutstationID, e.Colour.Hex()))
	}
	return []byte(cal.Serialize()), nil
}

func occurrenceUID(e models.GridEntry) string {
	return fmt.Sprintf("%s-%s-%s-%s@building-scheduler", e.ScheduleName, e.ZoneID, e.EventID, e.Time.Format(models.TimeLayout))
}

package repository

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"building_scheduler/internal/models"
	"building_scheduler/internal/recurrence"
)

// The persisted record shape:
//
//	<schedule name="">
//	  <building ID="">
//	    <zone ID="" description="">
//	      <event ID="" outstation="" colour="(r, g, b)">
//	        <eventTime>YYYYMMDDHHmm</eventTime>
//	        <setpoint value="" type="lt|eq|gt"/>
//	        <rrule>
//	          <repeat type="0|1" specifier=""/>
//	          <excDay>YYYYMMDDHHmm</excDay>
//	        </rrule>
//	      </event>
//	    </zone>
//	  </building>
//	</schedule>
//
// Mutations operate on this raw tree so events that fail to decode are kept as they are.
type xmlSchedule struct {
	XMLName  xml.Name     `xml:"schedule"`
	Name     string       `xml:"name,attr"`
	Building *xmlBuilding `xml:"building"`
}

type xmlBuilding struct {
	ID    string    `xml:"ID,attr"`
	Zones []xmlZone `xml:"zone"`
}

type xmlZone struct {
	ID          string     `xml:"ID,attr"`
	Description string     `xml:"description,attr,omitempty"`
	Events      []xmlEvent `xml:"event"`
}

type xmlEvent struct {
	ID         string       `xml:"ID,attr"`
	Outstation string       `xml:"outstation,attr"`
	Colour     string       `xml:"colour,attr"`
	EventTime  *string      `xml:"eventTime"`
	Setpoint   *xmlSetpoint `xml:"setpoint"`
	Rules      []xmlRule    `xml:"rrule"`
}

type xmlSetpoint struct {
	Value string `xml:"value,attr"`
	Type  string `xml:"type,attr"`
}

type xmlRule struct {
	Repeat   *xmlRepeat `xml:"repeat"`
	Excluded []string   `xml:"excDay"`
}

type xmlRepeat struct {
	Type      string `xml:"type,attr,omitempty"`
	Specifier string `xml:"specifier,attr,omitempty"`
}

// document is one decoded schedule record addressed by its storage key.
type document struct {
	key  string
	root xmlSchedule
}

func newDocument(key, name, buildingID string) *document {
	return &document{
		key: key,
		root: xmlSchedule{
			Name:     name,
			Building: &xmlBuilding{ID: buildingID},
		},
	}
}

func decodeDocument(key string, data []byte) (*document, error) {
	var root xmlSchedule
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, &models.IOError{Op: "decode", Key: key, Err: err}
	}
	if root.Building == nil {
		return nil, &models.IOError{Op: "decode", Key: key, Err: fmt.Errorf("missing building element")}
	}
	return &document{key: key, root: root}, nil
}

func (d *document) encode() ([]byte, error) {
	body, err := xml.MarshalIndent(d.root, "", "  ")
	if err != nil {
		return nil, &models.IOError{Op: "encode", Key: d.key, Err: err}
	}
	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body) + 1)
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// name returns the schedule name, falling back to the storage key.
func (d *document) name() string {
	if n := strings.TrimSpace(d.root.Name); n != "" {
		return n
	}
	return d.key
}

func (d *document) buildingID() string {
	return d.root.Building.ID
}

func (d *document) zone(id string) *xmlZone {
	zs := d.root.Building.Zones
	for i := range zs {
		if zs[i].ID == id {
			return &zs[i]
		}
	}
	return nil
}

func (d *document) addZone(id, description string) {
	d.root.Building.Zones = append(d.root.Building.Zones, xmlZone{ID: id, Description: description})
}

// outstationOwner returns the first zone other than exceptZone holding an event on outstation.
func (d *document) outstationOwner(outstation, exceptZone string) (string, bool) {
	for _, z := range d.root.Building.Zones {
		if z.ID == exceptZone {
			continue
		}
		for _, ev := range z.Events {
			if ev.Outstation == outstation {
				return z.ID, true
			}
		}
	}
	return "", false
}

func (z *xmlZone) event(id string) int {
	for i := range z.Events {
		if z.Events[i].ID == id {
			return i
		}
	}
	return -1
}

func (z *xmlZone) removeEvent(id string) bool {
	i := z.event(id)
	if i < 0 {
		return false
	}
	z.Events = append(z.Events[:i], z.Events[i+1:]...)
	return true
}

// record converts the tree to the domain model, skipping events that cannot be decoded.
func (d *document) record() (models.ScheduleRecord, []models.RecordIssue) {
	rec := models.ScheduleRecord{
		Name:       d.name(),
		BuildingID: d.buildingID(),
		Zones:      make([]models.ZoneRecord, 0, len(d.root.Building.Zones)),
	}
	var issues []models.RecordIssue
	for _, xz := range d.root.Building.Zones {
		zone := models.ZoneRecord{ID: xz.ID, Description: xz.Description, Events: make([]models.EventRecord, 0, len(xz.Events))}
		for _, xe := range xz.Events {
			ev, err := decodeEvent(xe)
			if err != nil {
				issues = append(issues, models.RecordIssue{Schedule: d.key, Zone: xz.ID, Event: xe.ID, Reason: err.Error()})
				continue
			}
			zone.Events = append(zone.Events, ev)
		}
		rec.Zones = append(rec.Zones, zone)
	}
	return rec, issues
}

func decodeEvent(xe xmlEvent) (models.EventRecord, error) {
	if xe.EventTime == nil || strings.TrimSpace(*xe.EventTime) == "" {
		return models.EventRecord{}, &models.ParseError{Field: "eventTime", Value: "", Err: fmt.Errorf("missing")}
	}
	trigger, err := recurrence.ParseTime(*xe.EventTime)
	if err != nil {
		return models.EventRecord{}, err
	}

	if xe.Setpoint == nil {
		return models.EventRecord{}, &models.ParseError{Field: "setpoint", Value: "", Err: fmt.Errorf("missing")}
	}
	cmp, err := models.ParseComparison(xe.Setpoint.Type)
	if err != nil {
		return models.EventRecord{}, err
	}

	colour := models.White
	if strings.TrimSpace(xe.Colour) != "" {
		if colour, err = models.ParseColour(xe.Colour); err != nil {
			return models.EventRecord{}, err
		}
	}

	ev := models.EventRecord{
		ID:           xe.ID,
		TriggerTime:  recurrence.Minute(trigger),
		Setpoint:     models.Setpoint{Value: xe.Setpoint.Value, Comparison: cmp},
		OutstationID: xe.Outstation,
		Colour:       colour,
	}
	for _, xr := range xe.Rules {
		if xr.Repeat == nil || (strings.TrimSpace(xr.Repeat.Type) == "" && strings.TrimSpace(xr.Repeat.Specifier) == "") {
			continue
		}
		rule, err := recurrence.Decode(recurrence.Wire{
			Type:      xr.Repeat.Type,
			Specifier: xr.Repeat.Specifier,
			Excluded:  xr.Excluded,
		})
		if err != nil {
			return models.EventRecord{}, fmt.Errorf("rrule: %w", err)
		}
		ev.Recurrence = append(ev.Recurrence, rule)
	}
	return ev, nil
}

func encodeEvent(ev models.EventRecord) xmlEvent {
	t := recurrence.FormatTime(ev.TriggerTime)
	xe := xmlEvent{
		ID:         ev.ID,
		Outstation: ev.OutstationID,
		Colour:     ev.Colour.String(),
		EventTime:  &t,
		Setpoint:   &xmlSetpoint{Value: ev.Setpoint.Value, Type: string(ev.Setpoint.Comparison)},
	}
	for _, rule := range ev.Recurrence {
		w := recurrence.Encode(rule)
		xe.Rules = append(xe.Rules, xmlRule{
			Repeat:   &xmlRepeat{Type: w.Type, Specifier: w.Specifier},
			Excluded: w.Excluded,
		})
	}
	return xe
}

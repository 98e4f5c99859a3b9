package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/kotrzina/calassist/pkg/event"
	"github.com/kotrzina/calassist/pkg/gcal"
	"github.com/kotrzina/calassist/pkg/utils"
)

const productID = "-//kotrzina//calassist//EN"

// Export renders link parameters as an iCalendar document with one event
// DTSTART and DTEND are written only when both dates are known.
func Export(p gcal.Params, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	uid := utils.Hash(p.Text, p.Start, p.End, p.Details, p.Location)[:24] + "@calassist"
	ev := cal.AddEvent(uid)
	ev.SetDtStampTime(now.UTC())

	start, errStart := time.Parse(event.ZuluLayout, p.Start)
	end, errEnd := time.Parse(event.ZuluLayout, p.End)
	if errStart == nil && errEnd == nil {
		ev.SetStartAt(start)
		ev.SetEndAt(end)
	}

	if p.Text != "" {
		ev.SetSummary(p.Text)
	}
	if p.Details != "" {
		ev.SetDescription(p.Details)
	}
	if p.Location != "" {
		ev.SetLocation(p.Location)
	}

	return cal.Serialize()
}

package ics

import (
	"fmt"
	"io"
	"time"

	"github.com/apognu/gocal"
	"github.com/kotrzina/calassist/pkg/event"
	"github.com/kotrzina/calassist/pkg/gcal"
)

type Imported struct {
	Summary string `json:"summary"`
	Start   string `json:"start,omitempty"`
	URL     string `json:"url"`
}

// Import builds a calendar link for every event between start and end
// Recurring events are expanded by the parser.
func Import(r io.Reader, b *gcal.Builder, start, end time.Time) ([]Imported, error) {
	calendar := gocal.NewParser(r)
	calendar.Start, calendar.End = &start, &end

	if err := calendar.Parse(); err != nil {
		return nil, fmt.Errorf("could not parse calendar: %w", err)
	}

	ret := make([]Imported, len(calendar.Events))
	for i, e := range calendar.Events {
		p := gcal.Params{
			Text:     e.Summary,
			Details:  e.Description,
			Location: e.Location,
		}
		if e.Start != nil && e.End != nil {
			p.Start = event.FormatZulu(*e.Start)
			p.End = event.FormatZulu(*e.End)
		}

		ret[i] = Imported{
			Summary: e.Summary,
			Start:   p.Start,
			URL:     b.Assemble(p),
		}
	}

	return ret, nil
}

package gcal

import (
	"net/url"
	"strings"
	"time"

	"github.com/kotrzina/calassist/pkg/event"
)

// BaseURL opens the "create event" form of Google Calendar
const BaseURL = "https://calendar.google.com/calendar/render?action=TEMPLATE"

// Params are already normalized values of the deep link
// Start and End are in event.ZuluLayout, empty values are left out.
type Params struct {
	Text     string
	Start    string
	End      string
	Details  string
	Location string
}

type Builder struct {
	base string
	loc  *time.Location
}

// NewBuilder creates a link builder
// Dates without an offset are read in loc. Empty base means BaseURL.
func NewBuilder(base string, loc *time.Location) *Builder {
	if base == "" {
		base = BaseURL
	}
	if loc == nil {
		loc = time.Local
	}

	return &Builder{base: base, loc: loc}
}

// Normalize converts event details to link parameters
func (b *Builder) Normalize(d event.Details) Params {
	return Params{
		Text:     d.EventName,
		Start:    event.ToZulu(d.Start, b.loc),
		End:      event.ToZulu(d.End, b.loc),
		Details:  d.Details,
		Location: d.Location,
	}
}

// URL builds the deep link for event details
func (b *Builder) URL(d event.Details) string {
	return b.Assemble(b.Normalize(d))
}

// Assemble appends the present parameters to the base URL
// The date range is written only when both ends are known.
func (b *Builder) Assemble(p Params) string {
	var sb strings.Builder
	sb.WriteString(b.base)

	if p.Text != "" {
		sb.WriteString("&text=")
		sb.WriteString(Escape(p.Text))
	}

	if p.Start != "" && p.End != "" {
		sb.WriteString("&dates=")
		sb.WriteString(p.Start)
		sb.WriteString("/")
		sb.WriteString(p.End)
	}

	if p.Details != "" {
		sb.WriteString("&details=")
		sb.WriteString(Escape(p.Details))
	}

	if p.Location != "" {
		sb.WriteString("&location=")
		sb.WriteString(Escape(p.Location))
	}

	return sb.String()
}

// Escape percent-encodes a query value, spaces become %20
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

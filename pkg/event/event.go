package event

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrInvalidJSON = errors.New("reply is not valid JSON")

// Details holds event fields extracted by the language model
// Empty string means the field is absent.
type Details struct {
	EventName string `json:"eventName,omitempty"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Details   string `json:"details,omitempty"`
	Location  string `json:"location,omitempty"`
}

// IsEmpty reports whether no field was extracted
func (d Details) IsEmpty() bool {
	return d == Details{}
}

// Parse reads event details from the assistant reply
// The reply must be valid JSON. Keys which are missing or are not strings
// are left empty. A JSON value which is not an object has no details at all.
func Parse(content string) (Details, error) {
	if !gjson.Valid(content) {
		return Details{}, fmt.Errorf("%w: %q", ErrInvalidJSON, shorten(content, 120))
	}

	doc := gjson.Parse(content)
	if !doc.IsObject() {
		return Details{}, nil
	}

	return Details{
		EventName: stringField(doc, "eventName"),
		Start:     stringField(doc, "dates.start"),
		End:       stringField(doc, "dates.end"),
		Details:   stringField(doc, "details"),
		Location:  stringField(doc, "location"),
	}, nil
}

func stringField(doc gjson.Result, path string) string {
	r := doc.Get(path)
	if r.Type != gjson.String {
		return ""
	}

	return r.Str
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n]) + "..."
}

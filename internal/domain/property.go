package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// fallbackImage is shown when a property's serialized image list cannot
// be parsed.
const fallbackImage = "https://images.unsplash.com/photo-1733352268242-66c79f93bdd4"

// Property is a real-estate listing as delivered by the chat endpoint.
// Images holds a JSON-serialized list of URLs and Amenities a
// newline-separated list; both are kept verbatim and parsed on demand.
// The record is opaque to the sequencer and chat client.
type Property struct {
	ID          ID     `json:"ID"`
	Name        string `json:"Name"`
	Location    string `json:"Location"`
	Price       Price  `json:"Price"`
	Status      string `json:"Status"`
	Area        string `json:"Area"`
	Description string `json:"Description"`
	Images      string `json:"Images"`
	Amenities   string `json:"Amenities"`
	Type        string `json:"Type,omitempty"`
	YearBuilt   string `json:"YearBuilt,omitempty"`
	Parking     string `json:"Parking,omitempty"`
	AgentName   string `json:"AgentName,omitempty"`
	AgentPhone  string `json:"AgentPhone,omitempty"`
	AgentEmail  string `json:"AgentEmail,omitempty"`
}

// ImageList parses the serialized image list. A malformed or empty value
// yields a single fallback image so views always have something to show.
func (p Property) ImageList() []string {
	var images []string
	if err := json.Unmarshal([]byte(p.Images), &images); err != nil || len(images) == 0 {
		return []string{fallbackImage}
	}
	return images
}

// AmenityList splits the newline-separated amenities, dropping blanks.
func (p Property) AmenityList() []string {
	var out []string
	for _, a := range strings.Split(p.Amenities, "\n") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// ID tolerates both numeric and string identifiers on the wire and
// normalizes them to their decimal string form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*id = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = ID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Price tolerates both numeric and pre-formatted string values on the
// wire; the endpoint is not consistent about which it sends.
type Price struct {
	Number float64
	Text   string
}

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*p = Price{}
		return nil
	}
	if s[0] == '"' {
		return json.Unmarshal(data, &p.Text)
	}
	return json.Unmarshal(data, &p.Number)
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.Text != "" {
		return json.Marshal(p.Text)
	}
	if p.Number != 0 {
		return json.Marshal(p.Number)
	}
	return []byte("null"), nil
}

// String renders the price for display: pre-formatted strings pass
// through, numbers become grouped USD, and a zero value reads as
// "Price on request".
func (p Price) String() string {
	if p.Text != "" {
		return p.Text
	}
	if p.Number == 0 {
		return "Price on request"
	}
	return "$" + groupThousands(strconv.FormatFloat(p.Number, 'f', -1, 64))
}

func groupThousands(s string) string {
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + frac
}

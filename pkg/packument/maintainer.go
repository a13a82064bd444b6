package packument

import (
	"encoding/json"
	"regexp"
)

// bylineRe matches the npm "author line" format: "name <email> (url)",
// with email and url both optional.
var bylineRe = regexp.MustCompile(`^\s*([^<(]*?)\s*(?:<([^>]*)>)?\s*(?:\(([^)]*)\))?\s*$`)

// Maintainer is either a byline string ("name <email> (url)") or an object
// {name, email, url}. It round-trips through JSON as whichever form it was
// read in, preferring the object form when constructed directly.
type Maintainer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`

	wasByline bool
}

// ParseByline parses an npm author-line string into a Maintainer. Unmatched
// capture groups leave the corresponding field empty.
func ParseByline(line string) Maintainer {
	m := Maintainer{wasByline: true}
	groups := bylineRe.FindStringSubmatch(line)
	if groups == nil {
		m.Name = line
		return m
	}
	m.Name = groups[1]
	m.Email = groups[2]
	m.URL = groups[3]
	return m
}

// MarshalJSON renders the maintainer as a byline string if it was parsed
// from one, otherwise as an object.
func (m Maintainer) MarshalJSON() ([]byte, error) {
	if m.wasByline {
		return json.Marshal(m.byline())
	}
	type alias Maintainer
	return json.Marshal(alias(m))
}

func (m Maintainer) byline() string {
	s := m.Name
	if m.Email != "" {
		s += " <" + m.Email + ">"
	}
	if m.URL != "" {
		s += " (" + m.URL + ")"
	}
	return s
}

// UnmarshalJSON accepts either a byline string or an object.
func (m *Maintainer) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*m = ParseByline(asString)
		return nil
	}

	type alias Maintainer
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Maintainer(a)
	m.wasByline = false
	return nil
}

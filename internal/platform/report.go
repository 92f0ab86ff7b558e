package platform

import (
	"encoding/json"
	"fmt"
)

// resource is a JSON:API resource object.
type resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]relationship `json:"relationships"`
}

type relationship struct {
	Data json.RawMessage `json:"data"`
}

// Report is a vulnerability report. Attributes are reachable by name;
// relationships resolve to the related resource's attributes (plus "id"),
// or to a list of them for to-many relationships.
type Report struct {
	res resource
}

// NewReport builds a report from decoded attributes, mostly for tests.
func NewReport(id string, attributes map[string]any) *Report {
	return &Report{res: resource{ID: id, Type: "report", Attributes: attributes}}
}

func (r *Report) ID() string {
	return r.res.ID
}

// Title returns the report title.
func (r *Report) Title() string {
	if v, ok := r.res.Attributes["title"].(string); ok {
		return v
	}
	return ""
}

// Attr returns the named attribute or relationship.
func (r *Report) Attr(name string) (any, bool) {
	switch name {
	case "id":
		return r.res.ID, true
	case "type":
		return r.res.Type, true
	}
	if v, ok := r.res.Attributes[name]; ok {
		return v, v != nil
	}
	rel, ok := r.res.Relationships[name]
	if !ok || len(rel.Data) == 0 || string(rel.Data) == "null" {
		return nil, false
	}
	return decodeRelationship(rel.Data)
}

func decodeRelationship(data json.RawMessage) (any, bool) {
	if len(data) > 0 && data[0] == '[' {
		var many []resource
		if err := json.Unmarshal(data, &many); err != nil {
			return nil, false
		}
		out := make([]any, len(many))
		for i, res := range many {
			out[i] = flatten(res)
		}
		return out, true
	}
	var one resource
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, false
	}
	return flatten(one), true
}

func flatten(res resource) map[string]any {
	out := make(map[string]any, len(res.Attributes)+len(res.Relationships)+1)
	for k, v := range res.Attributes {
		out[k] = v
	}
	for k, rel := range res.Relationships {
		if v, ok := decodeRelationship(rel.Data); ok {
			out[k] = v
		}
	}
	out["id"] = res.ID
	return out
}

func (r *Report) String() string {
	return fmt.Sprintf("report #%s", r.res.ID)
}

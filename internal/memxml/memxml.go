// Package memxml extracts the fields the maintenance tools care about
// from memory records. Records are semi-structured: the schema varies by
// category, so extraction walks a parsed element tree and picks out the
// known tags instead of binding the whole document to one struct.
package memxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"time"
)

// node is a generic parsed XML element.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []node     `xml:",any"`
	Text     string     `xml:",chardata"`
}

// Document is a parsed memory record.
type Document struct {
	roots []node
}

// PatternRecord is an embedded sub-record of a development-patterns file.
type PatternRecord struct {
	Kind        string `json:"kind"` // solution, pattern, strategy or template
	ID          string `json:"id"`
	Category    string `json:"category,omitempty"`
	Reusability string `json:"reusability,omitempty"`
	Description string `json:"description,omitempty"`
}

// patternTags are the tag pairs that delimit embedded sub-records.
var patternTags = map[string]bool{
	"solution": true,
	"pattern":  true,
	"strategy": true,
	"template": true,
}

// projectTags are the accepted tag-name variants for project linkage.
var projectTags = map[string]bool{
	"project":      true,
	"project-name": true,
	"project-ref":  true,
}

// Parse reads an XML memory record. Multiple top-level elements are
// accepted; upstream agents do not always emit a single root.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var roots []node
	for {
		var n node
		err := dec.Decode(&n)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}
	if len(roots) == 0 {
		return nil, errors.New("no XML content")
	}
	return &Document{roots: roots}, nil
}

func (d *Document) walk(visit func(n *node)) {
	var rec func(n *node)
	rec = func(n *node) {
		visit(n)
		for i := range n.Children {
			rec(&n.Children[i])
		}
	}
	for i := range d.roots {
		rec(&d.roots[i])
	}
}

// ProjectRefs returns every project name the record links to, in
// document order, deduplicated.
func (d *Document) ProjectRefs() []string {
	seen := map[string]bool{}
	var refs []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name != "" && !seen[name] {
			seen[name] = true
			refs = append(refs, name)
		}
	}
	d.walk(func(n *node) {
		if !projectTags[strings.ToLower(n.XMLName.Local)] {
			return
		}
		add(n.Text)
		for _, a := range n.Attrs {
			if strings.EqualFold(a.Name.Local, "name") {
				add(a.Value)
			}
		}
	})
	return refs
}

// ReferencesProject reports whether the record links to the project.
func (d *Document) ReferencesProject(project string) bool {
	for _, ref := range d.ProjectRefs() {
		if ref == project {
			return true
		}
	}
	return false
}

// Patterns returns the embedded sub-records in document order.
func (d *Document) Patterns() []PatternRecord {
	var out []PatternRecord
	d.walk(func(n *node) {
		tag := strings.ToLower(n.XMLName.Local)
		if !patternTags[tag] {
			return
		}
		rec := PatternRecord{Kind: tag}
		for _, a := range n.Attrs {
			switch strings.ToLower(a.Name.Local) {
			case "id":
				rec.ID = a.Value
			case "category":
				rec.Category = a.Value
			case "reusability", "level":
				rec.Reusability = a.Value
			}
		}
		for i := range n.Children {
			c := &n.Children[i]
			text := strings.TrimSpace(c.Text)
			switch strings.ToLower(c.XMLName.Local) {
			case "id":
				rec.ID = text
			case "category":
				rec.Category = text
			case "reusability", "reusability-level", "level":
				rec.Reusability = text
			case "description", "summary":
				rec.Description = text
			}
		}
		if rec.Description == "" {
			rec.Description = strings.TrimSpace(n.Text)
		}
		out = append(out, rec)
	})
	return out
}

// timeLayouts are the accepted embedded timestamp formats.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// LastUpdated returns the embedded last-updated timestamp, if any.
// Unparseable values are ignored so callers can fall back to the file
// modification time.
func (d *Document) LastUpdated() (time.Time, bool) {
	var found time.Time
	var ok bool
	d.walk(func(n *node) {
		if ok {
			return
		}
		switch strings.ToLower(n.XMLName.Local) {
		case "last-updated", "lastupdated", "updated", "timestamp":
		default:
			return
		}
		text := strings.TrimSpace(n.Text)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				found, ok = t, true
				return
			}
		}
	})
	return found, ok
}

// IsCompleted reports whether the record carries a completed marker,
// either <status>completed</status> or a status="completed" attribute.
func (d *Document) IsCompleted() bool {
	completed := false
	d.walk(func(n *node) {
		if completed {
			return
		}
		if strings.EqualFold(n.XMLName.Local, "status") &&
			strings.EqualFold(strings.TrimSpace(n.Text), "completed") {
			completed = true
			return
		}
		for _, a := range n.Attrs {
			if strings.EqualFold(a.Name.Local, "status") && strings.EqualFold(a.Value, "completed") {
				completed = true
				return
			}
		}
	})
	return completed
}

// Package crm models the CIDOC-CRM (Linked Art profile) entity graph that
// vocabulary records are mapped into.
//
// Every class shares the Entity struct; unused properties stay empty and are
// omitted from the serialized form. All fields are exported so statements can
// be compared structurally.
package crm

import "encoding/json"

// Context is the JSON-LD context advertised by serialized graphs
const Context = "https://linked.art/ns/v1/linked-art.json"

// Class names
const (
	ClassPerson               = "Person"
	ClassGroup                = "Group"
	ClassActor                = "Actor"
	ClassName                 = "Name"
	ClassType                 = "Type"
	ClassTimeSpan             = "TimeSpan"
	ClassPlace                = "Place"
	ClassBeginningOfExistence = "BeginningOfExistence"
	ClassEndOfExistence       = "EndOfExistence"
	ClassActivity             = "Activity"
	ClassCreation             = "Creation"
	ClassLinguisticObject     = "LinguisticObject"
	ClassDigitalObject        = "DigitalObject"
	ClassInformationObject    = "InformationObject"
)

// Entity is a node in the target graph
type Entity struct {
	ID      string `json:"id,omitempty"`
	Type    string `json:"type"`
	Label   *Label `json:"_label,omitempty"`
	Content *Label `json:"content,omitempty"`

	ClassifiedAs []*Entity `json:"classified_as,omitempty"`
	IdentifiedBy []*Entity `json:"identified_by,omitempty"`
	ReferredToBy []*Entity `json:"referred_to_by,omitempty"`
	MemberOf     []*Entity `json:"member_of,omitempty"`
	ExactMatch   []*Entity `json:"exact_match,omitempty"`
	CloseMatch   []*Entity `json:"close_match,omitempty"`
	Related      []*Entity `json:"related,omitempty"`
	CarriedOut   []*Entity `json:"carried_out,omitempty"`
	PresentAt    []*Entity `json:"present_at,omitempty"`

	BroughtIntoExistenceBy []*Entity `json:"brought_into_existence_by,omitempty"`
	TakenOutOfExistenceBy  []*Entity `json:"taken_out_of_existence_by,omitempty"`

	Timespan        *Entity   `json:"timespan,omitempty"`
	BeginOfTheBegin string    `json:"begin_of_the_begin,omitempty"`
	EndOfTheEnd     string    `json:"end_of_the_end,omitempty"`
	TookPlaceAt     []*Entity `json:"took_place_at,omitempty"`

	CreatedBy    *Entity   `json:"created_by,omitempty"`
	CarriedOutBy []*Entity `json:"carried_out_by,omitempty"`
	ComposedFrom []*Entity `json:"composed_from,omitempty"`
	Description  *Label    `json:"description,omitempty"`
}

// Label is a display string, either plain or keyed by language tag
type Label struct {
	Text   string
	ByLang map[string]string
}

// NewLabel returns a plain label, or nil for an empty string
func NewLabel(text string) *Label {
	if text == "" {
		return nil
	}
	return &Label{Text: text}
}

// Set stores a value under a language tag; an empty tag sets the plain text
func (l *Label) Set(lang, value string) {
	if lang == "" {
		l.Text = value
		return
	}
	if l.ByLang == nil {
		l.ByLang = make(map[string]string)
	}
	l.ByLang[lang] = value
}

// Empty reports whether the label carries no text at all
func (l *Label) Empty() bool {
	return l == nil || (l.Text == "" && len(l.ByLang) == 0)
}

// MarshalJSON writes a plain label as a string and a multilingual one as a
// language map. Untagged text in a language map goes under "@none".
func (l *Label) MarshalJSON() ([]byte, error) {
	if len(l.ByLang) == 0 {
		return json.Marshal(l.Text)
	}

	m := make(map[string]string, len(l.ByLang)+1)
	for k, v := range l.ByLang {
		m[k] = v
	}
	if l.Text != "" {
		m["@none"] = l.Text
	}
	return json.Marshal(m)
}

// document is the top-level serialized form: the subject plus @context
type document struct {
	Context string `json:"@context"`
	*Entity
}

// Marshal serializes a subject graph as an indented JSON-LD document
func Marshal(e *Entity) ([]byte, error) {
	return json.MarshalIndent(document{Context: Context, Entity: e}, "", "  ")
}

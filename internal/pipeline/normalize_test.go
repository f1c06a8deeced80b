package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/ulancrm/internal/model"
	"github.com/ppiankov/ulancrm/internal/vocab"
)

func TestClean(t *testing.T) {
	rec := model.Record{
		"id":                  "ulan:500030701",
		"changeNote":          "ulan:rev/1",
		"license":             "http://opendatacommons.org/licenses/by/1.0/",
		"broaderPreferred":    "ulan:500000002",
		"broaderPartitive":    []any{"ulan:500000003"},
		"parentStr":           "Persons, Artists",
		"note":                "internal",
		"prefLabelObj":        map[string]any{"literalValue": "Mondrian, Piet", "created": "2000"},
		"altLabelObj":         []any{map[string]any{"literalValue": "Mondriaan", "displayOrder": 2, "broaderX": 1}, "ulan:term/2"},
		"scopeNote":           map[string]any{"value": "Dutch painter", "generatedBy": "x"},
		"conceptFor":          map[string]any{"id": "ulan:500030701-agent", "identifier": "500030701", "scheme": "ulan:"},
		"exactMatch":          "http://viaf.org/viaf/24596705",
		"agentType":           "aat:300025103",
		"unrelatedNestedNote": map[string]any{"note": "kept"},
	}

	out := Clean(rec)
	assert.Equal(t, model.Record{
		"id":                  "ulan:500030701",
		"prefLabelObj":        map[string]any{"literalValue": "Mondrian, Piet"},
		"altLabelObj":         []any{map[string]any{"literalValue": "Mondriaan"}, "ulan:term/2"},
		"scopeNote":           map[string]any{"value": "Dutch painter"},
		"conceptFor":          map[string]any{"id": "ulan:500030701-agent"},
		"exactMatch":          "http://viaf.org/viaf/24596705",
		"agentType":           "aat:300025103",
		"unrelatedNestedNote": map[string]any{"note": "kept"},
	}, out)

	// Idempotent
	again := Clean(out)
	assert.Equal(t, out, again)
}

type staticShaper struct {
	doc map[string]any
	err error
}

func (s staticShaper) Shape(*Graph, bool) (map[string]any, error) {
	return s.doc, s.err
}

func TestNormalizer_Unframed(t *testing.T) {
	doc := map[string]any{
		"@context": "x",
		"@graph": []any{
			map[string]any{"id": "tgn:7006952", "modified": "2020"},
		},
	}
	n := NewNormalizer(jsonDecoder{}, staticShaper{doc: doc})

	rec, err := n.Normalize(`{}`, false)
	require.NoError(t, err)
	assert.NotContains(t, rec, "@context")
	assert.Len(t, rec.Nodes(), 1, "unframed documents keep their @graph")
	assert.Contains(t, rec.Nodes()[0], "modified", "unframed documents are not cleaned")
}

func TestNormalizer_Errors(t *testing.T) {
	n := NewNormalizer(jsonDecoder{}, staticShaper{err: errors.New("frame: bad")})
	_, err := n.Normalize(`{}`, true)
	assert.ErrorContains(t, err, "shape")

	n = NewNormalizer(jsonDecoder{}, staticShaper{doc: map[string]any{"@context": "x"}})
	_, err = n.Normalize(`{}`, true)
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

const leidenTurtle = `@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
@prefix dct: <http://purl.org/dc/terms/> .
<http://vocab.getty.edu/tgn/7006809> a skos:Concept ;
    rdfs:label "Leiden"@en ;
    dct:modified "2019-01-01" .
`

func TestTurtleDecoder(t *testing.T) {
	g, err := TurtleDecoder{}.Decode(leidenTurtle)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Triples)
	assert.Contains(t, g.NTriples, `<http://vocab.getty.edu/tgn/7006809> <http://www.w3.org/2000/01/rdf-schema#label> "Leiden"@en .`)

	_, err = TurtleDecoder{}.Decode("this is not turtle")
	assert.Error(t, err)

	_, err = TurtleDecoder{}.Decode("")
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestLDShaper_Compact(t *testing.T) {
	ldCtx, err := vocab.LoadContext("")
	require.NoError(t, err)

	g, err := TurtleDecoder{}.Decode(leidenTurtle)
	require.NoError(t, err)

	doc, err := NewLDShaper(ldCtx).Shape(g, false)
	require.NoError(t, err)

	rec := model.Record(doc)
	assert.Equal(t, "tgn:7006809", rec.ID())
	assert.Equal(t, "Leiden", rec.Literal("label"))
	assert.True(t, rec.HasType("skos:Concept"))
}

const rembrandtTurtle = `@prefix gvp: <http://vocab.getty.edu/ontology#> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
@prefix skosxl: <http://www.w3.org/2008/05/skos-xl#> .
@prefix foaf: <http://xmlns.com/foaf/0.1/> .
@prefix bio: <http://purl.org/vocab/bio/0.1/> .
@prefix schema: <http://schema.org/> .
@prefix dct: <http://purl.org/dc/terms/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

<http://vocab.getty.edu/ulan/500011051> a gvp:PersonConcept, skos:Concept ;
    skosxl:prefLabel <http://vocab.getty.edu/ulan/term/1500180811> ;
    skosxl:altLabel <http://vocab.getty.edu/ulan/term/1500180812> ;
    foaf:focus <http://vocab.getty.edu/ulan/500011051-agent> ;
    gvp:broaderPreferred <http://vocab.getty.edu/ulan/500000002> ;
    dct:modified "2020-01-01T00:00:00"^^xsd:dateTime ;
    skos:exactMatch <http://viaf.org/viaf/64013650> ;
    skos:closeMatch <http://viaf.org/viaf/64013650>, <http://www.wikidata.org/entity/Q5598> .

<http://vocab.getty.edu/ulan/term/1500180811> a skosxl:Label ;
    skosxl:literalForm "Rembrandt van Rijn"@en .

<http://vocab.getty.edu/ulan/term/1500180812> a skosxl:Label ;
    skosxl:literalForm "Rijn, Rembrandt van" .

<http://vocab.getty.edu/ulan/500011051-agent> a schema:Person ;
    gvp:biographyPreferred <http://vocab.getty.edu/ulan/500011051-bio-1> ;
    gvp:biographyNonPreferred <http://vocab.getty.edu/ulan/500011051-bio-2> ;
    gvp:eventPreferred <http://vocab.getty.edu/ulan/500011051-event-1> ;
    bio:event <http://vocab.getty.edu/ulan/500011051-event-1> .

<http://vocab.getty.edu/ulan/500011051-bio-1> a gvp:Biography ;
    gvp:estStart "1606"^^xsd:gYear ;
    gvp:estEnd "1669"^^xsd:gYear ;
    schema:birthPlace <http://vocab.getty.edu/tgn/7006809-place> ;
    schema:gender <http://vocab.getty.edu/aat/300189559> ;
    schema:description "Dutch painter, 1606-1669" .

<http://vocab.getty.edu/ulan/500011051-bio-2> a gvp:Biography ;
    gvp:estStart "1606"^^xsd:gYear ;
    schema:description "Dutch painter and etcher" .

<http://vocab.getty.edu/ulan/500011051-event-1> a bio:Event ;
    dct:type <http://vocab.getty.edu/aat/300393177> ;
    gvp:estStart "1625"^^xsd:gYear ;
    schema:location <http://vocab.getty.edu/tgn/7006952-place> .
`

func TestLDShaper_Framed(t *testing.T) {
	ldCtx, err := vocab.LoadContext("")
	require.NoError(t, err)

	n := NewNormalizer(TurtleDecoder{}, NewLDShaper(ldCtx))
	rec, err := n.Normalize(rembrandtTurtle, true)
	require.NoError(t, err)

	assert.Equal(t, "ulan:500011051", rec.ID())
	assert.True(t, rec.HasType("gvp:PersonConcept"))
	assert.Equal(t, "Rembrandt van Rijn", rec.Record("prefLabelObj").Literal("literalValue"))
	assert.Equal(t, "Rijn, Rembrandt van", rec.Record("altLabelObj").Literal("literalValue"))

	// matches stay references
	for _, key := range []string{"exactMatch", "closeMatch"} {
		values := rec.Seq(key)
		require.NotEmpty(t, values, key)
		for _, v := range values {
			assert.IsType(t, "", v, key)
		}
	}
	assert.Contains(t, rec.Strings("closeMatch"), "http://www.wikidata.org/entity/Q5598")

	for key := range rec {
		assert.False(t, strings.HasPrefix(key, "broader"), "broader link %s kept", key)
	}
	assert.False(t, rec.Has("modified"))

	actor := rec.Record("conceptFor")
	require.NotNil(t, actor, "focus agent should be embedded")
	assert.Equal(t, "ulan:500011051-agent", actor.ID())

	bio := actor.Record("biographyPref")
	require.NotNil(t, bio, "preferred biography should be embedded")
	assert.Equal(t, "1606", bio.Literal("estStart"))
	assert.Equal(t, "tgn:7006809-place", bio.IRI("birthPlace"))
	assert.Equal(t, "aat:300189559", bio.IRI("gender"))
	require.NotNil(t, actor.Record("biographyNonPref"))

	event := actor.Record("eventPref")
	require.NotNil(t, event, "preferred event should be embedded")
	assert.Equal(t, "aat:300393177", event.IRI("bioType"))
	assert.Equal(t, "1625", event.Literal("estStart"))
	assert.Equal(t, "tgn:7006952-place", event.IRI("location"))
}

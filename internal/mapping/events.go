package mapping

import (
	"strings"

	"github.com/ppiankov/ulancrm/internal/crm"
	"github.com/ppiankov/ulancrm/internal/model"
)

// events maps the preferred and non-preferred career events
func (b *builder) events(actor model.Record) {
	for _, key := range []string{"eventPref", "eventNonPref"} {
		for _, v := range actor.Seq(key) {
			ev, ok := model.AsRecord(v)
			if !ok {
				// Unembedded reference: only the identifier is known
				ev = model.Record{"id": model.IRI(v)}
			}
			if ev.ID() == "" {
				continue
			}
			b.event(ev)
		}
	}
}

// event maps one event. Professional activity is carried out by the
// subject; any other event type is an activity the subject was present at.
func (b *builder) event(ev model.Record) {
	id := b.expand(ev.ID())
	eventType := id
	if t := ev.IRI("bioType"); t != "" {
		eventType = b.expand(t)
	}

	var act *crm.Entity
	if eventType == crm.TypeActive {
		act = crm.NewActive(id)
		b.subject.CarriedOut = append(b.subject.CarriedOut, act)
	} else {
		act = crm.NewActivity(id, eventType)
		b.subject.PresentAt = append(b.subject.PresentAt, act)
	}

	start := ev.Literal("estStart")
	end := ev.Literal("estEnd")
	if start != "" || end != "" {
		act.Timespan = crm.NewTimeSpan(firstNonEmpty(start, end), firstNonEmpty(end, start))
	}
	if comment := ev.Literal("comment"); comment != "" {
		if act.Timespan == nil {
			act.Timespan = crm.NewTimeSpan("", "")
		}
		act.Timespan.Label = crm.NewLabel(comment)
	}

	if where := ev.IRI("location"); where != "" {
		act.TookPlaceAt = append(act.TookPlaceAt, b.place(where))
	}
}

// place builds a Place whose label comes from the underlying concept record
func (b *builder) place(ref string) *crm.Entity {
	concept := strings.TrimSuffix(ref, "-place")
	return crm.NewPlace(b.expand(ref), b.label(kindPlace, concept, false))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Package filter narrows tracking data before it is plotted.
package filter

import (
	"strconv"

	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

// BetweenEvents keeps the rows whose timestamp lies between the moment of
// the start event and the moment of the end event, both inclusive.
//
// Event and Time resolve like plot mappings, so either may be a column
// name, an expression or a supplied series. Start and end given as text
// are converted to the event column's kind, so "34" matches numeric event
// codes. Each event must be tagged at exactly one distinct timestamp, and
// the end event must come strictly after the start event. A range that
// matches no rows is an EMPTY_RESULT error.
func BetweenEvents(ds dataset.Dataset, start, end dataset.Value, event, time mapping.Mapping) (*dataset.Frame, error) {
	if event == nil || time == nil {
		return nil, perrors.New(perrors.ErrCodeConfiguration, "between-events filter needs event and time mappings")
	}
	events, err := mapping.Resolve(ds, event)
	if err != nil {
		return nil, err
	}
	times, err := mapping.Resolve(ds, time)
	if err != nil {
		return nil, err
	}

	from, err := eventTime(events, times, coerce(start, events.Kind))
	if err != nil {
		return nil, err
	}
	to, err := eventTime(events, times, coerce(end, events.Kind))
	if err != nil {
		return nil, err
	}
	if dataset.Compare(to, from) <= 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput,
			"%s at %s does not occur after %s at %s", dataset.Format(end), dataset.Format(to),
			dataset.Format(start), dataset.Format(from))
	}

	frame, err := dataset.FromDataset(ds)
	if err != nil {
		return nil, err
	}
	out := frame.Filter(func(row int) bool {
		t := times.At(row)
		return t != nil && dataset.Compare(t, from) >= 0 && dataset.Compare(t, to) <= 0
	})
	if out.Len() == 0 {
		return nil, perrors.New(perrors.ErrCodeEmptyResult,
			"no rows between %s and %s; check that both events appear in the data and in order",
			dataset.Format(start), dataset.Format(end))
	}
	return out, nil
}

// coerce converts an event given as text to the kind of the event column.
// Values that do not parse are returned unchanged and match nothing.
func coerce(v dataset.Value, kind dataset.Kind) dataset.Value {
	v = dataset.Normalize(v)
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch kind {
	case dataset.KindFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case dataset.KindBool:
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return v
}

// eventTime returns the single timestamp at which ev is tagged.
func eventTime(events, times dataset.Column, ev dataset.Value) (dataset.Value, error) {
	var found []dataset.Value
	for i, v := range events.Values {
		if !dataset.Equal(v, ev) {
			continue
		}
		t := times.At(i)
		seen := false
		for _, f := range found {
			if dataset.Equal(f, t) {
				seen = true
				break
			}
		}
		if !seen {
			found = append(found, t)
		}
	}
	if len(found) != 1 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput,
			"%s appeared in the data at %d timestamps; it must appear exactly once", dataset.Format(ev), len(found))
	}
	return found[0], nil
}

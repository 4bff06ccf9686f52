// Package insights turns store data into AI-written business insights.
//
// A request flows through four stages: the aggregator summarizes a window of
// recent records for one domain, the builder renders that summary into a
// prompt, a Completer sends it to the model, and the parser extracts the
// structured answer. Failures in the last two stages are replaced by Fallback.
package insights

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type Domain string

const (
	DomainSales     Domain = "sales"
	DomainInventory Domain = "inventory"
	DomainCustomers Domain = "customers"
	DomainOverall   Domain = "overall"
)

type Timespan string

const (
	TimespanDay     Timespan = "day"
	TimespanWeek    Timespan = "week"
	TimespanMonth   Timespan = "month"
	TimespanQuarter Timespan = "quarter"
	TimespanYear    Timespan = "year"
)

// DefaultWindow applies to any timespan outside the table.
const DefaultWindow = 100

// Window is the number of most recent orders analysed for t. It is a record
// count, not a calendar range.
func (t Timespan) Window() int {
	switch t {
	case TimespanDay:
		return 30
	case TimespanWeek:
		return 50
	case TimespanMonth:
		return 100
	case TimespanQuarter:
		return 300
	case TimespanYear:
		return 500
	default:
		return DefaultWindow
	}
}

var ErrInvalidRequest = errors.New("invalid insight request")

type Request struct {
	DataType      Domain         `json:"dataType"`
	Timespan      Timespan       `json:"timespan"`
	CustomFilters map[string]any `json:"customFilters,omitempty"`
}

func (r Request) Validate() error {
	switch r.DataType {
	case DomainSales, DomainInventory, DomainCustomers, DomainOverall:
	default:
		return fmt.Errorf("%w: unknown dataType %q", ErrInvalidRequest, r.DataType)
	}
	switch r.Timespan {
	case TimespanDay, TimespanWeek, TimespanMonth, TimespanQuarter, TimespanYear:
	default:
		return fmt.Errorf("%w: unknown timespan %q", ErrInvalidRequest, r.Timespan)
	}
	return nil
}

// Metric values are kept as decoded so numbers and strings survive a round trip.
type Metric struct {
	Name   string `json:"name"`
	Value  any    `json:"value"`
	Change any    `json:"change,omitempty"`
	Trend  string `json:"trend,omitempty"`
}

type Insight struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Metrics     []Metric `json:"metrics,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	raw json.RawMessage
}

type Recommendation struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Priority        string   `json:"priority"`
	PotentialImpact string   `json:"potentialImpact"`
	Implementation  string   `json:"implementation"`
	Tags            []string `json:"tags,omitempty"`

	raw json.RawMessage
}

// A decoded insight or recommendation is written back exactly as it was read.
// Values built in code are marshalled from their fields.

func (i *Insight) UnmarshalJSON(data []byte) error {
	type fields Insight
	var f fields
	if err := decodeNumbers(data, &f); err != nil {
		return err
	}
	*i = Insight(f)
	i.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (i Insight) MarshalJSON() ([]byte, error) {
	if i.raw != nil {
		return i.raw, nil
	}
	type fields Insight
	return json.Marshal(fields(i))
}

func (r *Recommendation) UnmarshalJSON(data []byte) error {
	type fields Recommendation
	var f fields
	if err := decodeNumbers(data, &f); err != nil {
		return err
	}
	*r = Recommendation(f)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (r Recommendation) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	type fields Recommendation
	return json.Marshal(fields(r))
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

type Response struct {
	Insights        []Insight        `json:"insights"`
	Recommendations []Recommendation `json:"recommendations"`
	Summary         string           `json:"summary"`
	AnalysisDate    string           `json:"analysisDate"`
}

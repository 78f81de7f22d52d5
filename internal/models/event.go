// Package models defines the record types shared across the pipeline.
package models

import (
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

// Event is one regulatory enforcement record. It is immutable once
// classified: the ingestion layer owns it and everything downstream only
// reads it.
type Event struct {
	EventID            string `json:"event_id"`
	RecallNumber       string `json:"recall_number"`
	RecallingFirm      string `json:"recalling_firm"`
	Status             string `json:"status"`
	Classification     string `json:"classification"`
	Reason             string `json:"reason_for_recall"`
	ProductDescription string `json:"product_description"`
	// FailureType is the category label derived by the classifier at
	// ingestion time. Empty when the reason was empty.
	FailureType string `json:"failure_type"`
	ReportDate  string `json:"report_date"`
	Country     string `json:"country"`
	State       string `json:"state"`
	City        string `json:"city"`
}

// EventFromRecord builds an Event from a loosely-typed API record. Absent
// or non-string fields default to the empty string; nothing here can fail.
func EventFromRecord(record map[string]interface{}) Event {
	return Event{
		EventID:            stringField(record, "event_id"),
		RecallNumber:       stringField(record, "recall_number"),
		RecallingFirm:      stringField(record, "recalling_firm"),
		Status:             stringField(record, "status"),
		Classification:     stringField(record, "classification"),
		Reason:             stringField(record, "reason_for_recall"),
		ProductDescription: stringField(record, "product_description"),
		ReportDate:         stringField(record, "report_date"),
		Country:            stringField(record, "country"),
		State:              stringField(record, "state"),
		City:               stringField(record, "city"),
	}
}

func stringField(record map[string]interface{}, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}

// NormalizeReportDate converts an openFDA report date (usually YYYYMMDD)
// into ISO 8601 date form. Loose inputs fall back to the date parser; an
// unparseable date is returned unchanged rather than dropped.
func NormalizeReportDate(raw string) string {
	if raw == "" {
		return ""
	}

	if t, err := time.Parse("20060102", raw); err == nil {
		return t.Format("2006-01-02")
	}

	parser := dps.Parser{}
	parsed, err := parser.Parse(nil, raw)
	if err != nil || parsed.IsZero() {
		return raw
	}
	return parsed.Time.Format("2006-01-02")
}

package calendar

import (
	"errors"
	"fmt"
)

// ErrFetchFailure matches every FetchFailure via errors.Is.
var ErrFetchFailure = errors.New("fetch failure")

// FetchFailure is a backend error while loading professionals or bookings.
type FetchFailure struct {
	Op  string
	Err error
}

func (e *FetchFailure) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrFetchFailure, e.Op, e.Err)
}

func (e *FetchFailure) Unwrap() error {
	return e.Err
}

func (e *FetchFailure) Is(target error) bool {
	return target == ErrFetchFailure
}

// IssueKind classifies a non-fatal data-quality problem.
type IssueKind string

const (
	IssueMisaligned          IssueKind = "misaligned"
	IssueOutsideHours        IssueKind = "outside_hours"
	IssueOverlap             IssueKind = "overlap"
	IssueUnknownProfessional IssueKind = "unknown_professional"
	IssueUnknownService      IssueKind = "unknown_service"
	IssueUnknownCustomer     IssueKind = "unknown_customer"
	IssueUnknownStatus       IssueKind = "unknown_status"
	IssueMalformed           IssueKind = "malformed"
)

// DataQualityIssue describes a booking that renders oddly (or not at all) because of its data.
// It never aborts a load.
type DataQualityIssue struct {
	Kind      IssueKind
	BookingID string
	Detail    string
}

func (i DataQualityIssue) Error() string {
	return fmt.Sprintf("data quality issue (%s) on booking %s: %s", i.Kind, i.BookingID, i.Detail)
}

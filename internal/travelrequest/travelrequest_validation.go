package travelrequest

import (
	"strings"
	"time"

	"go-traveldesk/internal/shared/apperror"
)

const dateLayout = "2006-01-02"

// fieldErrors collects one message per offending field, keyed by the json
// field name.
type fieldErrors map[string]string

func apperrorFromFields(errs fieldErrors) error {
	return apperror.NewValidation(errs)
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(v string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, v)
	return t, err == nil
}

// validateCreate applies the full field rules: destination required and at
// most 255 chars, dates well-formed with start no earlier than today and end
// no earlier than start, reason required, estimated cost non-negative.
func validateCreate(in CreateTravelRequestInput, now time.Time) (start, end time.Time, errs fieldErrors) {
	errs = fieldErrors{}

	if strings.TrimSpace(in.Destination) == "" {
		errs["destination"] = "Destination is required"
	} else if len(in.Destination) > 255 {
		errs["destination"] = "Destination may not be longer than 255 characters"
	}

	start, startOK := parseDate(in.StartDate)
	if !startOK {
		errs["start_date"] = "Start date must be a valid date (YYYY-MM-DD)"
	} else if start.Before(today(now)) {
		errs["start_date"] = "Start date must be today or later"
	}

	end, endOK := parseDate(in.EndDate)
	if !endOK {
		errs["end_date"] = "End date must be a valid date (YYYY-MM-DD)"
	} else if startOK && end.Before(start) {
		errs["end_date"] = "End date must be on or after the start date"
	}

	if strings.TrimSpace(in.Reason) == "" {
		errs["reason"] = "Reason is required"
	}

	if in.EstimatedCost != nil && *in.EstimatedCost < 0 {
		errs["estimated_cost"] = "Estimated cost must be zero or greater"
	}

	return start, end, errs
}

// validateUpdate applies the create rules only to fields that are present,
// and returns the column map for the partial update. Date-range consistency
// is checked against the effective values: a supplied date is compared with
// the other supplied date, falling back to what the record currently holds.
func validateUpdate(in UpdateTravelRequestInput, current *TravelRequest, now time.Time) (map[string]any, fieldErrors) {
	errs := fieldErrors{}
	fields := map[string]any{}

	if in.Destination != nil {
		if strings.TrimSpace(*in.Destination) == "" {
			errs["destination"] = "Destination is required"
		} else if len(*in.Destination) > 255 {
			errs["destination"] = "Destination may not be longer than 255 characters"
		} else {
			fields["destination"] = *in.Destination
		}
	}

	effectiveStart := current.StartDate
	if in.StartDate != nil {
		start, ok := parseDate(*in.StartDate)
		switch {
		case !ok:
			errs["start_date"] = "Start date must be a valid date (YYYY-MM-DD)"
		case start.Before(today(now)):
			errs["start_date"] = "Start date must be today or later"
		default:
			effectiveStart = start
			fields["start_date"] = start
		}
	}

	if in.EndDate != nil {
		end, ok := parseDate(*in.EndDate)
		switch {
		case !ok:
			errs["end_date"] = "End date must be a valid date (YYYY-MM-DD)"
		case end.Before(effectiveStart):
			errs["end_date"] = "End date must be on or after the start date"
		default:
			fields["end_date"] = end
		}
	} else if in.StartDate != nil {
		if _, ok := fields["start_date"]; ok && current.EndDate.Before(effectiveStart) {
			errs["start_date"] = "Start date must be on or before the end date"
		}
	}

	if in.Reason != nil {
		if strings.TrimSpace(*in.Reason) == "" {
			errs["reason"] = "Reason is required"
		} else {
			fields["reason"] = *in.Reason
		}
	}

	if in.EstimatedCost != nil {
		if *in.EstimatedCost < 0 {
			errs["estimated_cost"] = "Estimated cost must be zero or greater"
		} else {
			fields["estimated_cost"] = *in.EstimatedCost
		}
	}

	return fields, errs
}

package controller

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/fabric8-services/fabric8-tracker/action"
	"github.com/fabric8-services/fabric8-tracker/app"
	"github.com/fabric8-services/fabric8-tracker/errors"
)

// dueDateLayout is the format of the due date of an action.
const dueDateLayout = "2006-01-02"

// decodeValue decodes a raw attribute keeping numbers as json.Number.
func decodeValue(raw json.RawMessage) (interface{}, error) {
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	var v interface{}
	if err := d.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// parseTrackerID accepts a positive integer given as a JSON number or as a
// numeric string.
func parseTrackerID(raw json.RawMessage) (uint64, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return 0, errors.NewBadParameterError("tracker_id", string(raw)).Expected("a positive integer")
	}
	var s string
	switch value := v.(type) {
	case json.Number:
		s = value.String()
	case string:
		s = strings.TrimSpace(value)
	default:
		return 0, errors.NewBadParameterError("tracker_id", string(raw)).Expected("a positive integer")
	}
	if !govalidator.IsInt(s) {
		return 0, errors.NewBadParameterError("tracker_id", s).Expected("a positive integer")
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewBadParameterError("tracker_id", s).Expected("a positive integer")
	}
	return id, nil
}

// parsePriority coerces a JSON number or a numeric string to an integer.
// Fractions are truncated toward zero.
func parsePriority(raw json.RawMessage) (int, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return 0, errors.NewBadParameterError("priority", string(raw)).Expected("an integer")
	}
	var s string
	switch value := v.(type) {
	case json.Number:
		s = value.String()
	case string:
		s = strings.TrimSpace(value)
	default:
		return 0, errors.NewBadParameterError("priority", string(raw)).Expected("an integer")
	}
	if !govalidator.IsFloat(s) {
		return 0, errors.NewBadParameterError("priority", s).Expected("an integer")
	}
	f, err := govalidator.ToFloat(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, errors.NewBadParameterError("priority", s).Expected("an integer")
	}
	return int(math.Trunc(f)), nil
}

// parseLocalID accepts a positive integer JSON number.
func parseLocalID(raw json.RawMessage) (int, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return 0, errors.NewBadParameterError("local_id", string(raw)).Expected("a positive integer")
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, errors.NewBadParameterError("local_id", string(raw)).Expected("a positive integer")
	}
	id, err := strconv.ParseInt(n.String(), 10, 32)
	if err != nil || id < 1 {
		return 0, errors.NewBadParameterError("local_id", n.String()).Expected("a positive integer")
	}
	return int(id), nil
}

// parseString decodes a string attribute.
func parseString(name string, raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.NewBadParameterError(name, string(raw)).Expected("a string")
	}
	return s, nil
}

// parseStatus decodes a status attribute and checks it is a known state.
func parseStatus(raw json.RawMessage) (action.Status, error) {
	s, err := parseString("status", raw)
	if err != nil {
		return "", err
	}
	status := action.Status(s)
	if !status.IsValid() {
		return "", errors.NewBadParameterError("status", s).Expected("open, in_progress or completed")
	}
	return status, nil
}

// parseDueDate accepts a YYYY-MM-DD date or an RFC 3339 timestamp, of which
// only the date is kept.
func parseDueDate(raw json.RawMessage) (time.Time, error) {
	s, err := parseString("due_date", raw)
	if err != nil {
		return time.Time{}, err
	}
	s = strings.TrimSpace(s)
	if d, err := time.Parse(dueDateLayout, s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, errors.NewBadParameterError("due_date", s).Expected("YYYY-MM-DD")
}

// newAction builds the action to create from the request payload. The
// tracker_id and title attributes are required.
func newAction(payload app.ActionPayload) (*action.Action, error) {
	a := action.Action{
		Status:   action.StatusOpen,
		Priority: action.DefaultPriority,
	}
	if !payload.Has("tracker_id") || payload.IsNull("tracker_id") {
		return nil, errors.NewBadParameterError("tracker_id", nil).Expected("a tracker id")
	}
	trackerID, err := parseTrackerID(payload["tracker_id"])
	if err != nil {
		return nil, err
	}
	a.TrackerID = trackerID
	if !payload.Has("title") || payload.IsNull("title") {
		return nil, errors.NewBadParameterError("title", nil).Expected("non-empty title")
	}
	if a.Title, err = parseString("title", payload["title"]); err != nil {
		return nil, err
	}
	if payload.Has("owner") && !payload.IsNull("owner") {
		owner, err := parseString("owner", payload["owner"])
		if err != nil {
			return nil, err
		}
		a.Owner = &owner
	}
	if payload.Has("comments") && !payload.IsNull("comments") {
		comments, err := parseString("comments", payload["comments"])
		if err != nil {
			return nil, err
		}
		a.Comments = &comments
	}
	if payload.Has("status") && !payload.IsNull("status") {
		if a.Status, err = parseStatus(payload["status"]); err != nil {
			return nil, err
		}
	}
	if payload.Has("priority") && !payload.IsNull("priority") {
		if a.Priority, err = parsePriority(payload["priority"]); err != nil {
			return nil, err
		}
	}
	if payload.Has("due_date") && !payload.IsNull("due_date") {
		dueDate, err := parseDueDate(payload["due_date"])
		if err != nil {
			return nil, err
		}
		a.DueDate = &dueDate
	}
	if payload.Has("local_id") && !payload.IsNull("local_id") {
		if a.LocalID, err = parseLocalID(payload["local_id"]); err != nil {
			return nil, err
		}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// newPatch builds the changes requested by the payload. A null owner,
// comments or due_date clears it; the other attributes cannot be null.
// Unknown attributes are ignored.
func newPatch(payload app.ActionPayload) (action.Patch, error) {
	var p action.Patch
	if payload.Has("title") {
		if payload.IsNull("title") {
			return p, errors.NewBadParameterError("title", nil).Expected("non-empty title")
		}
		title, err := parseString("title", payload["title"])
		if err != nil {
			return p, err
		}
		p.Title = &title
	}
	if payload.Has("owner") {
		if payload.IsNull("owner") {
			p.ClearOwner = true
		} else {
			owner, err := parseString("owner", payload["owner"])
			if err != nil {
				return p, err
			}
			p.Owner = &owner
		}
	}
	if payload.Has("comments") {
		if payload.IsNull("comments") {
			p.ClearComments = true
		} else {
			comments, err := parseString("comments", payload["comments"])
			if err != nil {
				return p, err
			}
			p.Comments = &comments
		}
	}
	if payload.Has("status") {
		if payload.IsNull("status") {
			return p, errors.NewBadParameterError("status", nil).Expected("open, in_progress or completed")
		}
		status, err := parseStatus(payload["status"])
		if err != nil {
			return p, err
		}
		p.Status = &status
	}
	if payload.Has("priority") {
		if payload.IsNull("priority") {
			return p, errors.NewBadParameterError("priority", nil).Expected("an integer")
		}
		priority, err := parsePriority(payload["priority"])
		if err != nil {
			return p, err
		}
		p.Priority = &priority
	}
	if payload.Has("due_date") {
		if payload.IsNull("due_date") {
			p.ClearDueDate = true
		} else {
			dueDate, err := parseDueDate(payload["due_date"])
			if err != nil {
				return p, err
			}
			p.DueDate = &dueDate
		}
	}
	return p, p.Validate()
}

// ConvertAction converts an action to its REST representation.
func ConvertAction(a action.Action) *app.Action {
	res := &app.Action{
		ID:        a.ID,
		TrackerID: a.TrackerID,
		LocalID:   a.LocalID,
		Title:     a.Title,
		Owner:     a.Owner,
		Comments:  a.Comments,
		Status:    string(a.Status),
		Priority:  a.Priority,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a.DueDate != nil {
		d := a.DueDate.Format(dueDateLayout)
		res.DueDate = &d
	}
	return res
}

// ConvertActions converts actions to their REST representation.
func ConvertActions(actions []action.Action) app.ActionCollection {
	res := app.ActionCollection{}
	for _, a := range actions {
		res = append(res, ConvertAction(a))
	}
	return res
}

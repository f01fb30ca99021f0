package entity

import (
	"strings"
	"time"

	"anoa.com/academicrecords/pkg/flatfile"
)

// ActivityTimeLayout is the timestamp format of the activity log.
const ActivityTimeLayout = "2006-01-02 15:04:05"

type ActivityLog struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
}

func (a *ActivityLog) Record() []string {
	return []string{a.Timestamp.Format(ActivityTimeLayout), a.ActorID, a.Action}
}

func ActivityLogFromRecord(r flatfile.Record) (*ActivityLog, error) {
	if err := requireFields("activity", r, 3); err != nil {
		return nil, err
	}
	ts, err := time.ParseInLocation(ActivityTimeLayout, r.Field(0), time.Local)
	if err != nil {
		return nil, malformed("activity", r, "bad timestamp")
	}
	return &ActivityLog{
		Timestamp: ts,
		ActorID:   r.Field(1),
		Action:    strings.Join(r[2:], flatfile.Delimiter),
	}, nil
}

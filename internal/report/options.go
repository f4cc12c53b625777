package report

import "time"

const (
	DefaultStartDateField = `"Start date[Date]"`
	DefaultEpicTypeID     = "10000"
	DefaultEpicTypeName   = "에픽"
	DefaultTaskTypeID     = "10046"
	DefaultMarker         = "#REPORT#"
	DefaultPageSize       = 100

	dateLayout = "2006-01-02"
)

// Options tunes the engine to a Jira site. Zero fields fall back to the
// defaults above.
type Options struct {
	StartDateField string
	EpicTypeID     string
	EpicTypeName   string
	TaskTypeID     string
	Marker         string
	PageSize       int
	Concurrency    int
	Location       *time.Location
}

func (o Options) withDefaults() Options {
	if o.StartDateField == "" {
		o.StartDateField = DefaultStartDateField
	}
	if o.EpicTypeID == "" {
		o.EpicTypeID = DefaultEpicTypeID
	}
	if o.EpicTypeName == "" {
		o.EpicTypeName = DefaultEpicTypeName
	}
	if o.TaskTypeID == "" {
		o.TaskTypeID = DefaultTaskTypeID
	}
	if o.Marker == "" {
		o.Marker = DefaultMarker
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

func (o Options) classifier() Classifier {
	return Classifier{EpicTypeID: o.EpicTypeID, TaskTypeID: o.TaskTypeID}
}

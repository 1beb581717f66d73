package reconcile

// Record is one incoming job ad as delivered by the feed.
type Record struct {
	// ID is the stable identifier of the ad.
	ID string `json:"id"`

	// Removed marks the ad as withdrawn upstream.
	Removed bool `json:"removed"`

	// Doc is the raw source document the projected fields are read from.
	Doc map[string]any `json:"-"`
}

// ActionType is the mutation chosen for a record.
type ActionType string

const (
	// ActionInsert adds a row for an unseen identifier.
	ActionInsert ActionType = "insert"
	// ActionUpdate rewrites the projected fields of an existing row.
	ActionUpdate ActionType = "update"
	// ActionDelete removes the row of a withdrawn ad.
	ActionDelete ActionType = "delete"
)

// Classify picks the mutation for rec given whether its row already exists.
func Classify(rec Record, exists bool) ActionType {
	switch {
	case rec.Removed:
		return ActionDelete
	case exists:
		return ActionUpdate
	default:
		return ActionInsert
	}
}

// Counts summarizes one applied batch.
type Counts struct {
	New     int `json:"new"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`

	// Skipped counts updates whose row vanished between check and write.
	Skipped int `json:"skipped"`

	// Total is the number of records processed before the batch ended.
	Total int `json:"total"`
}

func (c *Counts) add(action ActionType) {
	switch action {
	case ActionInsert:
		c.New++
	case ActionUpdate:
		c.Updated++
	case ActionDelete:
		c.Deleted++
	}
	c.Total++
}

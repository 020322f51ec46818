package types

// Status tracks the lifecycle of a configuration row. Inactive rows are kept
// but never resolved against; removed rows exist only for audit history.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusRemoved  Status = "removed"
)

func (s Status) Validate() bool {
	switch s {
	case StatusActive, StatusInactive, StatusRemoved:
		return true
	}
	return false
}

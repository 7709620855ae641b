package persistence

import "fmt"

// UserLabelLengthKey returns the key under which the number of user labels
// of an endpoint is stored.
func UserLabelLengthKey(endpoint uint16) string {
	return fmt.Sprintf("g/userlbl/%x", endpoint)
}

// UserLabelIndexKey returns the key of the user label record at index on an
// endpoint.
func UserLabelIndexKey(endpoint uint16, index uint32) string {
	return fmt.Sprintf("g/userlbl/%x/%x", endpoint, index)
}

package service

import (
	"strconv"
	"time"
)

// nextRecordID renders now as epoch milliseconds. When that id is already taken it steps forward
// one millisecond at a time so two writes inside the same millisecond still get distinct ids.
func nextRecordID(now time.Time, taken func(id string) bool) string {
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if taken == nil || !taken(id) {
			return id
		}
		ms++
	}
}

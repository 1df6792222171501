package selector

import "time"

// historyCapacity is the number of selections remembered per bucket
const historyCapacity = 30

// lastUsedLimit bounds the ids reported per bucket by UsageStats
const lastUsedLimit = 5

// usageRecord keeps the most recent selections of one bucket. usedIDs[i] and usedAt[i]
// always describe the same selection, oldest first.
type usageRecord struct {
	usedIDs []string
	usedAt  []time.Time
}

// record appends a selection and evicts the oldest entries beyond capacity
func (u *usageRecord) record(id string, at time.Time) {
	u.usedIDs = append(u.usedIDs, id)
	u.usedAt = append(u.usedAt, at)
	if overflow := len(u.usedIDs) - historyCapacity; overflow > 0 {
		u.usedIDs = append([]string(nil), u.usedIDs[overflow:]...)
		u.usedAt = append([]time.Time(nil), u.usedAt[overflow:]...)
	}
}

// lastUsed returns the most recent time id was recorded
func (u *usageRecord) lastUsed(id string) (time.Time, bool) {
	for i := len(u.usedIDs) - 1; i >= 0; i-- {
		if u.usedIDs[i] == id {
			return u.usedAt[i], true
		}
	}
	return time.Time{}, false
}

// BucketStats summarizes one bucket of the usage history
type BucketStats struct {
	Count       int      `json:"count"`
	LastUsedIDs []string `json:"last_used_ids"`
}

func (u *usageRecord) stats() BucketStats {
	start := len(u.usedIDs) - lastUsedLimit
	if start < 0 {
		start = 0
	}
	return BucketStats{
		Count:       len(u.usedIDs),
		LastUsedIDs: append([]string(nil), u.usedIDs[start:]...),
	}
}

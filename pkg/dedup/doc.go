// Package dedup suppresses repeated stock alerts for the same item and
// location within a time window.
//
// Keys have the form "type:itemID:locationID". Arm starts the window for a
// key; arming a key that is still live does not extend it. Memory keeps keys
// in a bounded LRU; Redis keeps them in Redis with native expiry.
package dedup

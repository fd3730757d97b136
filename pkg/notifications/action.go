package notifications

import "time"

// State is the ledger plus sync status.
type State struct {
	Notifications []Notification
	UnreadCount   int
	Loading       bool
	Err           error
	LastSync      time.Time
}

// Action is a ledger mutation. The set is closed: only the types in this
// file implement it.
type Action interface {
	action()
}

// AddAction prepends a fully formed notification.
type AddAction struct{ Notification Notification }

// UpdateAction applies a patch to one entry.
type UpdateAction struct {
	ID    string
	Patch Patch
}

// RemoveAction deletes one entry.
type RemoveAction struct{ ID string }

// MarkReadAction marks one entry as read.
type MarkReadAction struct{ ID string }

// MarkAllReadAction marks every entry as read.
type MarkAllReadAction struct{}

// ClearAction empties the ledger.
type ClearAction struct{}

// SyncStartAction flags a sync in progress.
type SyncStartAction struct{}

// SyncFailAction records a failed sync. The ledger is left untouched.
type SyncFailAction struct{ Err error }

// SyncReplaceAction replaces the ledger with the backend list.
type SyncReplaceAction struct {
	Notifications []Notification
	At            time.Time
}

func (AddAction) action()         {}
func (UpdateAction) action()      {}
func (RemoveAction) action()      {}
func (MarkReadAction) action()    {}
func (MarkAllReadAction) action() {}
func (ClearAction) action()       {}
func (SyncStartAction) action()   {}
func (SyncFailAction) action()    {}
func (SyncReplaceAction) action() {}

// Reduce returns the state after applying a. It never mutates s.
// Actions that target an unknown id return s unchanged.
func Reduce(s State, a Action) State {
	next := s
	switch a := a.(type) {
	case AddAction:
		list := make([]Notification, 0, len(s.Notifications)+1)
		list = append(list, a.Notification)
		for _, n := range s.Notifications {
			if n.ID != a.Notification.ID {
				list = append(list, n)
			}
		}
		next.Notifications = list

	case UpdateAction:
		i := indexOf(s.Notifications, a.ID)
		if i < 0 {
			return s
		}
		list := cloneList(s.Notifications)
		list[i] = applyPatch(list[i], a.Patch)
		next.Notifications = list

	case RemoveAction:
		i := indexOf(s.Notifications, a.ID)
		if i < 0 {
			return s
		}
		list := make([]Notification, 0, len(s.Notifications)-1)
		list = append(list, s.Notifications[:i]...)
		list = append(list, s.Notifications[i+1:]...)
		next.Notifications = list

	case MarkReadAction:
		i := indexOf(s.Notifications, a.ID)
		if i < 0 {
			return s
		}
		list := cloneList(s.Notifications)
		list[i].Read = true
		next.Notifications = list

	case MarkAllReadAction:
		list := cloneList(s.Notifications)
		for i := range list {
			list[i].Read = true
		}
		next.Notifications = list

	case ClearAction:
		next.Notifications = nil

	case SyncStartAction:
		next.Loading = true
		next.Err = nil

	case SyncFailAction:
		next.Loading = false
		next.Err = a.Err

	case SyncReplaceAction:
		seen := make(map[string]struct{}, len(a.Notifications))
		list := make([]Notification, 0, len(a.Notifications))
		for _, n := range a.Notifications {
			if _, dup := seen[n.ID]; dup {
				continue
			}
			seen[n.ID] = struct{}{}
			n.Metadata = cloneMetadata(n.Metadata)
			list = append(list, n)
		}
		next.Notifications = list
		next.Loading = false
		next.Err = nil
		next.LastSync = a.At

	default:
		return s
	}

	next.UnreadCount = countUnread(next.Notifications)
	return next
}

func applyPatch(n Notification, p Patch) Notification {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Message != nil {
		n.Message = *p.Message
	}
	if p.Metadata != nil {
		n.Metadata = cloneMetadata(p.Metadata)
	}
	if p.Read != nil && *p.Read {
		n.Read = true
	}
	return n
}

func indexOf(list []Notification, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneList(list []Notification) []Notification {
	out := make([]Notification, len(list))
	copy(out, list)
	return out
}

func countUnread(list []Notification) int {
	n := 0
	for i := range list {
		if !list[i].Read {
			n++
		}
	}
	return n
}

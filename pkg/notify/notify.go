// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package notify holds one-shot UI notifications.
//
// Each category has a single pending slot. Later notifications of a busy
// category wait in line and take the slot when it is dismissed. A
// notification is identified by a key; once a key has fired it never fires
// again, even after dismissal.
package notify

import (
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

// Category of notification.
type Category string

const (
	CategoryBadge    Category = "badge"
	CategoryLevelUp  Category = "level_up"
	CategoryNFTClaim Category = "nft_claim"
	CategoryTip      Category = "tip"
)

// Notification is a pending UI message.
type Notification struct {
	Key      string   `json:"key"`
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Body     string   `json:"body,omitempty"`
	Emoji    string   `json:"emoji,omitempty"`
	// From and To are set for level ups.
	From int `json:"from,omitempty"`
	To   int `json:"to,omitempty"`
}

// Queue is the set of pending notifications and fired keys.
type Queue struct {
	Pending map[Category]Notification `json:"pending"`
	// Waiting holds notifications behind a busy slot, oldest first.
	Waiting []Notification  `json:"waiting,omitempty"`
	Fired   map[string]bool `json:"fired"`
}

// NewQueue returns an empty queue.
func NewQueue() Queue {
	return Queue{Pending: map[Category]Notification{}, Fired: map[string]bool{}}
}

// Clone deep-copies the queue.
func (q Queue) Clone() Queue {
	out := NewQueue()
	for k, v := range q.Pending {
		out.Pending[k] = v
	}
	for k, v := range q.Fired {
		out.Fired[k] = v
	}
	out.Waiting = append([]Notification(nil), q.Waiting...)
	return out
}

// Push queues n unless its key already fired. A pending level up absorbs a
// newer one so the player sees a single From..To jump. Other categories keep
// the first pending notification and line n up behind it.
func (q Queue) Push(n Notification) (Queue, bool) {
	if q.Fired[n.Key] {
		return q, false
	}
	cur, busy := q.Pending[n.Category]

	next := q.Clone()
	next.Fired[n.Key] = true
	switch {
	case !busy:
		next.Pending[n.Category] = n
	case n.Category == CategoryLevelUp:
		cur.To = n.To
		cur.Title = n.Title
		next.Pending[n.Category] = cur
	default:
		next.Waiting = append(next.Waiting, n)
	}
	return next, true
}

// Get returns the pending notification of c.
func (q Queue) Get(c Category) *Notification {
	n, ok := q.Pending[c]
	if !ok {
		return nil
	}
	return &n
}

// Dismiss clears the pending notification of c.
func (q Queue) Dismiss(c Category) (Queue, error) {
	if _, ok := q.Pending[c]; !ok {
		return q, fmt.Errorf("no pending %s notification: %w", c, gameerr.ErrNotFound)
	}
	next := q.Clone()
	delete(next.Pending, c)
	for i, n := range next.Waiting {
		if n.Category == c {
			next.Pending[c] = n
			next.Waiting = append(next.Waiting[:i], next.Waiting[i+1:]...)
			break
		}
	}
	return next, nil
}

package db

import (
	"reflect"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Change actions
const (
	ChangeCreate = "create"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
)

// ChangeEvent describes a committed row-level change on a table
type ChangeEvent struct {
	Table  string    `json:"table"`
	Action string    `json:"action"`
	RowID  string    `json:"row_id,omitempty"`
	At     time.Time `json:"at"`
}

// Subscription is a cancellable stream of change events for one table
type Subscription struct {
	C chan ChangeEvent

	table    string
	notifier *Notifier
	once     sync.Once
}

// Cancel removes the subscription and closes its channel
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.notifier.remove(s)
		close(s.C)
	})
}

// Notifier fans committed row changes out to per-table subscribers. List views
// subscribe and re-fetch on any event; there is no incremental patching.
type Notifier struct {
	mu   sync.RWMutex
	subs map[string][]*Subscription
}

// Notify is the global change-notification hub, fed by the gorm callbacks
// installed in Initialize.
var Notify = NewNotifier()

// NewNotifier creates an empty notifier
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string][]*Subscription)}
}

// Subscribe registers interest in changes to a table. The returned
// subscription must be cancelled when no longer needed.
func (n *Notifier) Subscribe(table string) *Subscription {
	sub := &Subscription{
		C:        make(chan ChangeEvent, 16),
		table:    table,
		notifier: n,
	}

	n.mu.Lock()
	n.subs[table] = append(n.subs[table], sub)
	n.mu.Unlock()

	return sub
}

// Publish delivers an event to every subscriber of its table. Slow subscribers
// drop events rather than block the writer; a dropped event only costs an
// extra re-fetch on the next one.
func (n *Notifier) Publish(event ChangeEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, sub := range n.subs[event.Table] {
		select {
		case sub.C <- event:
		default:
		}
	}
}

func (n *Notifier) remove(sub *Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()

	subs := n.subs[sub.table]
	for i, s := range subs {
		if s == sub {
			n.subs[sub.table] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}

// InstallNotifyCallbacks registers gorm callbacks that publish a change event
// after every successful create, update and delete.
func InstallNotifyCallbacks(gdb *gorm.DB) error {
	if err := gdb.Callback().Create().After("gorm:create").Register("notify:create", notifyAfter(ChangeCreate)); err != nil {
		return err
	}
	if err := gdb.Callback().Update().After("gorm:update").Register("notify:update", notifyAfter(ChangeUpdate)); err != nil {
		return err
	}
	return gdb.Callback().Delete().After("gorm:delete").Register("notify:delete", notifyAfter(ChangeDelete))
}

func notifyAfter(action string) func(tx *gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.Table == "" || tx.RowsAffected == 0 {
			return
		}

		Notify.Publish(ChangeEvent{
			Table:  tx.Statement.Table,
			Action: action,
			RowID:  statementRowID(tx),
			At:     time.Now(),
		})
	}
}

// statementRowID extracts the primary key of the affected row when it is
// available on the statement (single-row operations on models with string PKs).
func statementRowID(tx *gorm.DB) string {
	if tx.Statement.Schema == nil || tx.Statement.Schema.PrioritizedPrimaryField == nil {
		return ""
	}

	rv := tx.Statement.ReflectValue
	if rv.Kind() != reflect.Struct {
		return ""
	}

	value, isZero := tx.Statement.Schema.PrioritizedPrimaryField.ValueOf(tx.Statement.Context, rv)
	if isZero {
		return ""
	}
	id, ok := value.(string)
	if !ok {
		return ""
	}
	return id
}

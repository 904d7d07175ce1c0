package bus

import "time"

// Event kinds published in this process, grouped by namespace prefix.
// Subscribers filter on a prefix, e.g. "remote." or "message.".
const (
	// remote.* carry freshly fetched backend snapshots.
	KindRemoteMessages = "remote.messages"
	KindRemoteOffers   = "remote.offers"

	// message.* signal local cache changes.
	KindMessageUpserted   = "message.upserted"
	KindMessageDeleted    = "message.deleted"
	KindMessageSendAck    = "message.send_ack"
	KindMessageSendFailed = "message.send_failed"

	// notify.* carry unread-badge updates.
	KindNotifyUnread = "notify.unread"

	// session.* track credential and connection state.
	KindSessionStatusChanged = "session.status_changed"
	KindSessionExpired       = "session.expired"

	// sync.* report snapshot ingestion.
	KindSyncSnapshot = "sync.snapshot"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

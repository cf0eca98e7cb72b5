package models

import (
	"encoding/json"
	"time"
)

// Notification is an inbox item.
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func (n Notification) Key() string          { return Key(n.ID) }
func (n Notification) Timestamp() time.Time { return n.CreatedAt }

// UnmarshalJSON accepts both "read" and "isRead"; the backend has emitted
// either depending on the serializer.
func (n *Notification) UnmarshalJSON(data []byte) error {
	type plain Notification
	var aux struct {
		plain
		IsRead *bool `json:"isRead"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*n = Notification(aux.plain)
	if aux.IsRead != nil {
		n.Read = n.Read || *aux.IsRead
	}
	return nil
}

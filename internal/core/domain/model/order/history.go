package order

import (
	"encoding/json"
	"fmt"
	"time"

	"freight/internal/core/domain/model/account"
)

// priceUpdatedMarker is the discriminator value used on the wire for price
// change entries; status entries carry the status itself.
const priceUpdatedMarker = "PRICE_UPDATED"

// PriceField names which price attribute a PriceChangeEntry refers to.
type PriceField string

const (
	// PriceFieldBase is the customer-posted price.
	PriceFieldBase PriceField = "price"
	// PriceFieldFinal is the negotiated final price.
	PriceFieldFinal PriceField = "finalPrice"
)

// HistoryEntry is one element of an order's append-only history log.
// It is a closed variant: either a StatusEntry or a PriceChangeEntry.
// Consumers should type-switch over both kinds exhaustively.
type HistoryEntry interface {
	// OccurredAt returns when the entry was recorded.
	OccurredAt() time.Time

	// sealed limits implementations to this package.
	sealed()
}

// StatusEntry records a status transition.
type StatusEntry struct {
	Status Status
	At     time.Time
	Role   account.Role
	Note   string
	Photo  string
}

// OccurredAt implements HistoryEntry.
func (e StatusEntry) OccurredAt() time.Time { return e.At }

func (StatusEntry) sealed() {}

// PriceChangeEntry records a price change audit event. Prices are recorded
// rounded to whole currency units; From is nil when no previous value was
// known.
type PriceChangeEntry struct {
	At    time.Time
	Role  account.Role
	Field PriceField
	From  *int64
	To    int64
}

// OccurredAt implements HistoryEntry.
func (e PriceChangeEntry) OccurredAt() time.Time { return e.At }

func (PriceChangeEntry) sealed() {}

// History is the ordered, append-only log of an order's transitions and
// price changes. It serializes to the wire format consumed by clients:
// status entries as {"status": "...", "at": ...} and price changes as
// {"status": "PRICE_UPDATED", "field": ..., "fromPrice": ..., "toPrice": ...}.
type History []HistoryEntry

// historyEntryDTO is the union wire shape of both entry kinds.
type historyEntryDTO struct {
	Status        string     `json:"status"`
	At            time.Time  `json:"at"`
	Role          string     `json:"role,omitempty"`
	Note          string     `json:"note,omitempty"`
	Photo         string     `json:"photo,omitempty"`
	Field         PriceField `json:"field,omitempty"`
	FromPrice     *int64     `json:"fromPrice,omitempty"`
	ToPrice       *int64     `json:"toPrice,omitempty"`
	ChangedByRole string     `json:"changedByRole,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (h History) MarshalJSON() ([]byte, error) {
	dtos := make([]historyEntryDTO, 0, len(h))
	for _, entry := range h {
		switch e := entry.(type) {
		case StatusEntry:
			dtos = append(dtos, historyEntryDTO{
				Status: string(e.Status),
				At:     e.At,
				Role:   string(e.Role),
				Note:   e.Note,
				Photo:  e.Photo,
			})
		case PriceChangeEntry:
			to := e.To
			dtos = append(dtos, historyEntryDTO{
				Status:        priceUpdatedMarker,
				At:            e.At,
				Field:         e.Field,
				FromPrice:     e.From,
				ToPrice:       &to,
				ChangedByRole: string(e.Role),
			})
		default:
			return nil, fmt.Errorf("unknown history entry type %T", entry)
		}
	}
	return json.Marshal(dtos)
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *History) UnmarshalJSON(data []byte) error {
	var dtos []historyEntryDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return err
	}

	entries := make(History, 0, len(dtos))
	for _, dto := range dtos {
		if dto.Status == priceUpdatedMarker {
			var to int64
			if dto.ToPrice != nil {
				to = *dto.ToPrice
			}
			entries = append(entries, PriceChangeEntry{
				At:    dto.At,
				Role:  account.Role(dto.ChangedByRole),
				Field: dto.Field,
				From:  dto.FromPrice,
				To:    to,
			})
			continue
		}
		entries = append(entries, StatusEntry{
			Status: Status(dto.Status),
			At:     dto.At,
			Role:   account.Role(dto.Role),
			Note:   dto.Note,
			Photo:  dto.Photo,
		})
	}

	*h = entries
	return nil
}

// LastStatus returns the most recent StatusEntry, skipping price changes,
// or false when the history holds none.
func (h History) LastStatus() (StatusEntry, bool) {
	for i := len(h) - 1; i >= 0; i-- {
		if e, ok := h[i].(StatusEntry); ok {
			return e, true
		}
	}
	return StatusEntry{}, false
}

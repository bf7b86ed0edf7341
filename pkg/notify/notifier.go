// Package notify carries listing-change events from the listing usecase to
// whoever keeps derived state (today: the cart sync engine). Payloads are
// typed and dispatch is synchronous and serial, matching the host's
// single-threaded event model; handlers must not block.
package notify

import (
	"github.com/google/uuid"

	"homeland-merchant-backend/model"
)

// ListingUpdated is published after a listing's items change. Items is the
// listing's full current slot array, not a diff.
type ListingUpdated struct {
	EventID   string             `json:"event_id"`
	ListingID string             `json:"listing_id"`
	Items     []model.ItemRecord `json:"items"`
}

// ListingDeleted is published after a listing is removed.
type ListingDeleted struct {
	EventID   string `json:"event_id"`
	ListingID string `json:"listing_id"`
}

type UpdatedHandler func(ListingUpdated)
type DeletedHandler func(ListingDeleted)

// ListingNotifier is a minimal in-process pub/sub. Subscription happens at
// wiring time in main; there is no unsubscribe.
type ListingNotifier struct {
	updated []UpdatedHandler
	deleted []DeletedHandler
}

func NewListingNotifier() *ListingNotifier {
	return &ListingNotifier{}
}

func (n *ListingNotifier) SubscribeUpdated(h UpdatedHandler) {
	n.updated = append(n.updated, h)
}

func (n *ListingNotifier) SubscribeDeleted(h DeletedHandler) {
	n.deleted = append(n.deleted, h)
}

func (n *ListingNotifier) PublishUpdated(listingID string, items []model.ItemRecord) {
	ev := ListingUpdated{EventID: uuid.NewString(), ListingID: listingID, Items: items}
	for _, h := range n.updated {
		h(ev)
	}
}

func (n *ListingNotifier) PublishDeleted(listingID string) {
	ev := ListingDeleted{EventID: uuid.NewString(), ListingID: listingID}
	for _, h := range n.deleted {
		h(ev)
	}
}

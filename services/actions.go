package services

import (
	"net/url"
	"strings"

	"flowerstore-directory/models"
)

// DirectionsURLPrefix is the maps directions template; the escaped
// address is appended.
const DirectionsURLPrefix = "https://www.google.com/maps/dir/?api=1&destination="

// BuildCard derives the order, directions and call actions for one store.
func BuildCard(s *models.Store) models.Card {
	card := models.Card{
		Store:         s,
		OrderURL:      s.MapURL,
		DirectionsURL: DirectionsURL(s),
	}
	if phone := strings.TrimSpace(s.Phone); phone != "" {
		card.CallEnabled = true
		card.CallURL = "tel:" + strings.Join(strings.Fields(phone), "")
	}
	return card
}

// BuildCards maps BuildCard over stores, keeping order.
func BuildCards(stores []*models.Store) []models.Card {
	cards := make([]models.Card, len(stores))
	for i, s := range stores {
		cards[i] = BuildCard(s)
	}
	return cards
}

// DirectionsURL points at a directions search for the address, falling
// back to the store's map link when there is no address.
func DirectionsURL(s *models.Store) string {
	if strings.TrimSpace(s.Address) == "" {
		return s.MapURL
	}
	return DirectionsURLPrefix + url.QueryEscape(s.Address)
}

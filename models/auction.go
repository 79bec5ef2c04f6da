package models

import "time"

// Auction фиксирует переход игрока из open-market группы в другую группу.
type Auction struct {
	ID          int       `json:"id" db:"id"`
	PlayerID    int       `json:"player_id" db:"player_id"`
	FromBandID  int       `json:"from_band_id" db:"from_band_id"`
	ToBandID    int       `json:"to_band_id" db:"to_band_id"`
	Price       float64   `json:"price" db:"price"`
	AuctionedAt time.Time `json:"auctioned_at" db:"auctioned_at"`
}

package models

import "time"

// MarketQuote is the moneyline market for one game.
type MarketQuote struct {
	GameID       string           `json:"game_id"`
	HomeTeam     string           `json:"home_team"`
	AwayTeam     string           `json:"away_team"`
	CommenceTime time.Time        `json:"commence_time"`
	Bookmakers   []BookmakerQuote `json:"bookmakers"`
}

// BookmakerQuote holds one bookmaker's head-to-head prices.
type BookmakerQuote struct {
	Key      string         `json:"key"`
	Title    string         `json:"title"`
	Outcomes []OutcomePrice `json:"outcomes"`
}

// OutcomePrice is an American price for one side of a game.
type OutcomePrice struct {
	Team         string `json:"team"`
	AmericanOdds int    `json:"american_odds"`
}

// Opponent returns the other side of the game, or "" if team is not playing.
func (q MarketQuote) Opponent(team string) string {
	switch team {
	case q.HomeTeam:
		return q.AwayTeam
	case q.AwayTeam:
		return q.HomeTeam
	default:
		return ""
	}
}

package domain

import (
	"context"
	"time"
)

type Map struct {
	ID        uint    `gorm:"primaryKey;autoIncrement;column:id" json:"id" yaml:"-"`
	Name      string  `gorm:"type:varchar(100);unique;not null;column:name" json:"name" yaml:"name"`
	Latitude  float64 `gorm:"type:numeric;not null;column:latitude" json:"-" yaml:"latitude"`
	Longitude float64 `gorm:"type:numeric;not null;column:longitude" json:"-" yaml:"longitude"`
	ImagePath string  `gorm:"type:varchar(100);unique;not null;column:imgpath" json:"image_path" yaml:"image_path"`
}

type Score struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID uint      `gorm:"not null;index;column:user_id" json:"userID"`
	MapID  uint      `gorm:"not null;index;column:map_id" json:"mapID"`
	Score  int       `gorm:"type:int;not null;column:score" json:"score"`
	Time   time.Time `gorm:"not null;column:time" json:"time"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Map    Map       `gorm:"foreignKey:MapID;references:ID" json:"-"`
}

type LeaderboardEntry struct {
	Username string    `json:"username"`
	MapName  string    `json:"map_name"`
	Score    int       `json:"score"`
	Time     time.Time `json:"time"`
}

type GuessRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type MapResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
}

type GuessResponse struct {
	Score       int         `json:"score"`
	TotalScore  int         `json:"total_score"`
	GamesPlayed int         `json:"games_played"`
	Guess       Coordinate  `json:"guess"`
	Answer      MapSnapshot `json:"answer"`
	Recorded    bool        `json:"recorded"`
}

type GameView struct {
	State               string `json:"state"`
	TotalScore          int    `json:"total_score"`
	GamesPlayed         int    `json:"games_played"`
	LastScore           int    `json:"last_score"`
	PreviousTotalScore  int    `json:"previous_total_score"`
	PreviousGamesPlayed int    `json:"previous_games_played"`
}

type GameRepository interface {
	ListMapIDs(ctx context.Context) ([]uint, error)
	GetMap(ctx context.Context, id uint) (*Map, error)
	GetMapByName(ctx context.Context, name string) (*Map, error)
	RegisterScore(ctx context.Context, userID, mapID uint, score int) (*Score, error)
	TopScores(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetUserScores(ctx context.Context, userID uint) ([]Score, error)
	GetUserScoresByMap(ctx context.Context, userID, mapID uint) ([]Score, error)
}

package types

import (
	"github.com/flaparena/backend/internal/game"
	"github.com/flaparena/backend/internal/score"
)

type ClientMessage struct {
	Type        string `json:"type"`
	RoomID      string `json:"roomId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	IsReady     bool   `json:"isReady,omitempty"`
}

// Client -> Server message types.
const (
	MsgCreateRoom     = "createRoom"
	MsgJoinRoom       = "joinRoom"
	MsgLeaveRoom      = "leaveRoom"
	MsgSetReady       = "setReady"
	MsgJump           = "jump"
	MsgGetRoomPlayers = "getRoomPlayers"
)

// Server -> Client message types.
const (
	MsgRoomCreated        = "roomCreated"
	MsgRoomJoined         = "roomJoined"
	MsgRoomPlayersUpdated = "roomPlayersUpdated"
	MsgPlayerReadyState   = "playerReadyState"
	MsgAllReadyConfirmed  = "allReadyConfirmed"
	MsgGameStarted        = "gameStarted"
	MsgGameLoopUpdate     = "gameLoopUpdate"
	MsgGameOver           = "gameOver"
	MsgBackToLobby        = "backToLobby"
	MsgPlayerTempDisc     = "playerTemporaryDisconnect"
	MsgPlayerReconnected  = "playerReconnected"
	MsgError              = "error"
)

type GameResult struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	BestScore int    `json:"bestScore"`
	Rank      int    `json:"rank"`
}

type ServerMessage struct {
	Type        string          `json:"type"`
	RoomID      string          `json:"roomId,omitempty"`
	Status      string          `json:"status,omitempty"`
	Players     []game.Player   `json:"players,omitempty"`
	Obstacles   []game.Obstacle `json:"obstacles,omitempty"`
	PlayerID    string          `json:"playerId,omitempty"`
	IsReady     bool            `json:"isReady,omitempty"`
	OldID       string          `json:"oldId,omitempty"`
	NewID       string          `json:"newId,omitempty"`
	Results     []GameResult    `json:"results,omitempty"`
	Leaderboard []score.Entry   `json:"leaderboard,omitempty"`
	Error       string          `json:"error,omitempty"`
}

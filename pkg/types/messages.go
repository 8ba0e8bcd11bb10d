// Package types defines the JSON wire protocol shared by the room server and
// the game client. Every frame is a JSON object with a mandatory "type"
// discriminator; room-scoped frames carry "roomId" and player-scoped frames
// carry "playerId".
package types

// Message type discriminators.
const (
	TypeCreateRole   = "createRole"
	TypeCreateRoom   = "createRoom"
	TypeJoinRoom     = "joinRoom"
	TypeLeaveRoom    = "leaveRoom"
	TypeShowRoom     = "showRoom"
	TypePlayerJoined = "playerJoined"
	TypePlayerLeft   = "playerLeft"
	TypeStartGame    = "startGame"
	TypeGeneratePipe = "generatePipe"
	TypeUpdatePlayer = "updatePlayer"
	TypeGameOver     = "gameOver"
	TypeProcessing   = "processing"
)

// ClientMessage is any client -> server frame. The update fields are pointers
// so a partial update only overwrites what the client actually sent.
type ClientMessage struct {
	Type        string   `json:"type"`
	RoomID      string   `json:"roomId,omitempty"`
	PlayerID    string   `json:"playerId,omitempty"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	Score       *int     `json:"score,omitempty"`
	IsColliding *bool    `json:"isColliding,omitempty"`
}

// ServerMessage is any server -> client frame, both direct replies and room
// broadcasts. Unused fields are omitted per message type.
type ServerMessage struct {
	Type        string   `json:"type"`
	PlayerID    string   `json:"playerId,omitempty"`
	RoomID      string   `json:"roomId,omitempty"`
	Rooms       []string `json:"rooms,omitempty"`
	Players     []string `json:"players,omitempty"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	Score       *int     `json:"score,omitempty"`
	IsColliding *bool    `json:"isColliding,omitempty"`
	Msg         string   `json:"msg,omitempty"`
}

// Round resolution texts.
const (
	MsgWin     = "you win"
	MsgLose    = "you lose"
	MsgWaiting = "waiting for others"
)

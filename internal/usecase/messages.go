package usecase

import "github.com/rocketscienceinc/tictactoe-arena/internal/entity"

type EventKind string

const (
	EventQuickMatch     EventKind = "quick-match"
	EventJoinRoom       EventKind = "join-room"
	EventPlayWithBot    EventKind = "play-with-bot"
	EventMakeMove       EventKind = "make-move"
	EventRematchRequest EventKind = "rematch-request"
	EventDisconnect     EventKind = "disconnect"
)

// Event is one inbound request. PlayerID is assigned by the transport, never by the client.
type Event struct {
	Kind       EventKind
	PlayerID   string
	PlayerName string
	RoomCode   string
	Difficulty string
	Position   int
	Choice     string
}

const (
	MessageWaitingForMatch        = "waiting-for-match"
	MessageWaitingInRoom          = "waiting-in-room"
	MessageYourSymbol             = "your-symbol"
	MessageGameStart              = "game-start"
	MessageBoardUpdate            = "board-update"
	MessageGameOver               = "game-over"
	MessageOpponentWaitingRematch = "opponent-waiting-rematch"
	MessageOpponentLeft           = "opponent-left"
	MessageError                  = "error"
)

const (
	drawWinner = "draw"

	waitingForMatchText = "Waiting for a match..."
	waitingInRoomText   = "Waiting for your friend to join..."
	opponentLeftText    = "Your opponent has left the game"
	disconnectedText    = "Your opponent has disconnected"
	waitingRematchText  = "Your opponent is waiting for your rematch decision"
	inactivityText      = "Room closed due to inactivity"
)

type Message struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Envelope is a message addressed to one or more players.
type Envelope struct {
	To      []string
	Message Message
}

type WaitingPayload struct {
	Message  string `json:"message"`
	RoomCode string `json:"roomCode,omitempty"`
	Position int    `json:"position,omitempty"`
}

type SymbolPayload struct {
	Symbol entity.Symbol `json:"symbol"`
}

type SeatNames struct {
	X string `json:"X"`
	O string `json:"O"`
}

type GameStartPayload struct {
	RoomCode    string        `json:"roomCode"`
	Players     SeatNames     `json:"players"`
	Board       entity.Board  `json:"board"`
	CurrentTurn entity.Symbol `json:"currentTurn"`
}

type LastMove struct {
	Position int           `json:"position"`
	Player   entity.Symbol `json:"player"`
}

type BoardUpdatePayload struct {
	Board       entity.Board  `json:"board"`
	CurrentTurn entity.Symbol `json:"currentTurn"`
	LastMove    LastMove      `json:"lastMove"`
}

type GameOverPayload struct {
	Winner string       `json:"winner"`
	Board  entity.Board `json:"board"`
}

type NoticePayload struct {
	Message string `json:"message"`
}

func newEnvelope(to []string, event string, payload any) Envelope {
	return Envelope{
		To:      to,
		Message: Message{Event: event, Payload: payload},
	}
}

// ErrorMessage builds the error event sent to the originator of a rejected request.
func ErrorMessage(text string) Message {
	return Message{Event: MessageError, Payload: NoticePayload{Message: text}}
}

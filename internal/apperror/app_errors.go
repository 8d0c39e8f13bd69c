package apperror

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameNotFinished   = errors.New("game is not finished yet")
	ErrNotAParticipant   = errors.New("you are not a player in this game")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrIllegalMove       = errors.New("illegal move")
	ErrRoomFull          = errors.New("room is full")
	ErrRoomNotFound      = errors.New("room not found")
	ErrAlreadyInGame     = errors.New("player is already waiting or playing")
	ErrInvalidRoomCode   = errors.New("invalid room code")
	ErrInvalidPlayerName = errors.New("invalid player name")
	ErrUnknownDifficulty = errors.New("unknown bot difficulty")
	ErrUnknownChoice     = errors.New("unknown rematch choice")
	ErrUnknownEvent      = errors.New("unknown event")
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrNoAvailableMoves  = errors.New("no available moves")
)

// clientMessages holds the text sent back to the client in an error event.
var clientMessages = []struct {
	err     error
	message string
}{
	{ErrGameNotFound, "Game not found"},
	{ErrGameFinished, "Game is already finished"},
	{ErrGameNotFinished, "Game is still in progress"},
	{ErrNotAParticipant, "you are not a player in this game"},
	{ErrNotYourTurn, "Not your turn"},
	{ErrIllegalMove, "Invalid move"},
	{ErrRoomFull, "Room is full"},
	{ErrRoomNotFound, "Room not found"},
	{ErrAlreadyInGame, "You are already in a game"},
	{ErrInvalidRoomCode, "Room code must be 6 letters or digits"},
	{ErrInvalidPlayerName, "Name must be 1-10 characters"},
	{ErrUnknownDifficulty, "Difficulty must be easy, medium or hard"},
	{ErrUnknownChoice, "Choice must be continue or leave"},
	{ErrUnknownEvent, "Unknown event"},
	{ErrInvalidPayload, "Malformed request"},
}

const genericMessage = "Something went wrong"

// ClientMessage returns the text reported to the originating client for err.
func ClientMessage(err error) string {
	for _, item := range clientMessages {
		if errors.Is(err, item.err) {
			return item.message
		}
	}

	return genericMessage
}

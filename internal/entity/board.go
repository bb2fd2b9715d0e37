package entity

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize = 9
)

// WinCombos - rows, columns and diagonals of a 3x3 grid. The same triples decide
// a sub-board and the big board.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// EvaluateLine - returns the mark owning the line, or EmptyCell.
func EvaluateLine(a, b, c string) string {
	if a != EmptyCell && a == b && b == c {
		return a
	}

	return EmptyCell
}

// Winner - returns the mark with three in a row on board, or EmptyCell.
func Winner(board [BoardSize]string) string {
	for _, combo := range WinCombos {
		if winner := EvaluateLine(board[combo[0]], board[combo[1]], board[combo[2]]); winner != EmptyCell {
			return winner
		}
	}

	return EmptyCell
}

func IsSubBoardFull(board [BoardSize]string) bool {
	for _, cell := range board {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// IsBoardDecided - reports whether every big-board entry carries a winner.
func IsBoardDecided(big [BoardSize]string) bool {
	return IsSubBoardFull(big)
}

func IsPlayer(mark string) bool {
	return mark == PlayerX || mark == PlayerO
}

func Opponent(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func InRange(index int) bool {
	return index >= 0 && index < BoardSize
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateLine(t *testing.T) {
	t.Run("Returns the mark when all three match", func(t *testing.T) {
		assert.Equal(t, PlayerX, EvaluateLine(PlayerX, PlayerX, PlayerX))
		assert.Equal(t, PlayerO, EvaluateLine(PlayerO, PlayerO, PlayerO))
	})

	t.Run("Returns EmptyCell for mixed or empty lines", func(t *testing.T) {
		assert.Equal(t, EmptyCell, EvaluateLine(PlayerX, PlayerO, PlayerX))
		assert.Equal(t, EmptyCell, EvaluateLine(EmptyCell, EmptyCell, EmptyCell))
		assert.Equal(t, EmptyCell, EvaluateLine(PlayerX, PlayerX, EmptyCell))
	})
}

func TestWinner(t *testing.T) {
	t.Run("Returns PlayerX when Player X wins", func(t *testing.T) {
		// Given: a board where Player X has a winning column
		board := [9]string{
			PlayerX, PlayerO, EmptyCell,
			PlayerX, PlayerO, EmptyCell,
			PlayerX, EmptyCell, EmptyCell,
		}

		// When: determining the winner
		result := Winner(board)

		// Then: it should return PlayerX
		assert.Equal(t, PlayerX, result)
	})

	t.Run("Returns PlayerO on a diagonal", func(t *testing.T) {
		// Given: a board where Player O holds the anti-diagonal
		board := [9]string{
			PlayerX, PlayerX, PlayerO,
			EmptyCell, PlayerO, EmptyCell,
			PlayerO, EmptyCell, PlayerX,
		}

		// When: determining the winner
		result := Winner(board)

		// Then: it should return PlayerO
		assert.Equal(t, PlayerO, result)
	})

	t.Run("Returns EmptyCell on a full board without a line", func(t *testing.T) {
		// Given: a drawn board
		board := [9]string{
			PlayerX, PlayerO, PlayerX,
			PlayerO, PlayerX, PlayerO,
			PlayerO, PlayerX, PlayerO,
		}

		// When: determining the winner
		result := Winner(board)

		// Then: there is no winner but the board is full
		assert.Equal(t, EmptyCell, result)
		assert.True(t, IsSubBoardFull(board))
		assert.True(t, IsBoardDecided(board))
	})

	t.Run("Returns EmptyCell when the game is ongoing", func(t *testing.T) {
		// Given: a board that is still open
		board := [9]string{
			PlayerX, PlayerO, EmptyCell,
			EmptyCell, PlayerX, EmptyCell,
			EmptyCell, EmptyCell, PlayerO,
		}

		// When: determining the winner
		result := Winner(board)

		// Then: nobody has won and cells remain
		assert.Equal(t, EmptyCell, result)
		assert.False(t, IsSubBoardFull(board))
	})
}

func TestScore_Add(t *testing.T) {
	score := Score{X: 1, O: 2}

	assert.Equal(t, Score{X: 2, O: 2}, score.Add(PlayerX))
	assert.Equal(t, Score{X: 1, O: 3}, score.Add(PlayerO))
	assert.Equal(t, Score{X: 1, O: 2}, score.Add(EmptyCell))
	assert.Equal(t, Score{X: 1, O: 2}, score)
}

func TestGame_Clone(t *testing.T) {
	// Given: a game with a decided sub-board
	game := NewGame(Score{})
	game.DecidedSubBoards = append(game.DecidedSubBoards, 4)
	game.SubBoards[4][0] = PlayerX

	// When: cloning and mutating the clone
	clone := game.Clone()
	clone.DecidedSubBoards[0] = 7
	clone.SubBoards[4][0] = PlayerO

	// Then: the original is untouched
	require.Equal(t, []int{4}, game.DecidedSubBoards)
	assert.Equal(t, PlayerX, game.SubBoards[4][0])
	assert.True(t, game.IsDecided(4))
	assert.False(t, game.IsDecided(7))
}

package tictactoe

import (
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
)

// ApplyMove - validates and plays one move. The given state is never modified; on
// rejection the zero Game is returned together with the reason.
//
// A terminal result (win or draw) comes back already reset to a fresh board that
// keeps the updated score.
func ApplyMove(state entity.Game, player string, subBoard, cell int) (entity.Game, entity.Outcome, error) {
	if err := validateMove(state, player, subBoard, cell); err != nil {
		return entity.Game{}, entity.Outcome{}, err
	}

	next := state.Clone()
	next.SubBoards[subBoard][cell] = player

	updateTarget(&next, subBoard, cell)

	outcome := entity.Outcome{
		Kind:     entity.OutcomeContinue,
		LastMove: entity.Move{SubBoard: subBoard, Cell: cell, Role: player},
	}

	switch winner := entity.Winner(next.BigBoard); {
	case winner != entity.EmptyCell:
		outcome.Kind = entity.OutcomeWin
		outcome.Winner = winner
		next = entity.NewGame(next.Score.Add(winner))
	case entity.IsBoardDecided(next.BigBoard):
		outcome.Kind = entity.OutcomeDraw
		next = entity.NewGame(next.Score)
	default:
		next.Turn = toggleMark(player)
	}

	return next, outcome, nil
}

// validateMove - checks the preconditions in order; the first failing one wins.
func validateMove(state entity.Game, player string, subBoard, cell int) error {
	if state.Turn != player {
		return apperror.ErrNotYourTurn
	}

	if !entity.InRange(subBoard) || !entity.InRange(cell) {
		return apperror.ErrInvalidMove
	}

	if !state.FreeMove && subBoard != state.TargetSubBoard {
		return apperror.ErrWrongSubBoard
	}

	if state.BigBoard[subBoard] != entity.EmptyCell {
		return apperror.ErrSubBoardDecided
	}

	if state.SubBoards[subBoard][cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateTarget - records a freshly won sub-board and decides where the opponent plays.
// Winning a sub-board always hands out a free move; otherwise the opponent is sent
// to the sub-board matching cell unless that one is already decided.
// A full sub-board without a winner stays a legal target.
func updateTarget(state *entity.Game, subBoard, cell int) {
	if winner := entity.Winner(state.SubBoards[subBoard]); winner != entity.EmptyCell {
		state.BigBoard[subBoard] = winner
		if !state.IsDecided(subBoard) {
			state.DecidedSubBoards = append(state.DecidedSubBoards, subBoard)
		}
		state.FreeMove = true
	} else {
		state.FreeMove = state.IsDecided(cell)
	}

	state.TargetSubBoard = cell
}

func toggleMark(currentMark string) string {
	return entity.Opponent(currentMark)
}

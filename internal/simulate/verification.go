package simulate

import (
	"fmt"
	"log"
)

// verifyBoard checks structural properties of the retrieved draft board.
func verifyBoard(board []BoardEntry, verbose bool) error {
	log.Println("verifying draft board...")

	if len(board) == 0 {
		return fmt.Errorf("empty draft board")
	}

	// Ranks must be dense starting at 1 and scores non-increasing.
	for i, entry := range board {
		if entry.Rank != i+1 {
			return fmt.Errorf("board rank %d at position %d", entry.Rank, i)
		}
		if i > 0 && entry.FantasyScore > board[i-1].FantasyScore {
			return fmt.Errorf("board not sorted: entry %d scores above entry %d", i, i-1)
		}
	}

	// Replacement-level players carry zero value by definition; nobody
	// above them may carry less.
	for i := 1; i < len(board); i++ {
		if board[i].VOR > board[i-1].VOR {
			return fmt.Errorf("VOR not monotonic at position %d", i)
		}
	}

	displayTopPicks(board, verbose)

	log.Println("draft board verified")
	return nil
}

// displayTopPicks shows the top of the board.
func displayTopPicks(board []BoardEntry, verbose bool) {
	topN := 10
	if len(board) < topN {
		topN = len(board)
	}

	log.Printf("top %d picks:", topN)
	for i := 0; i < topN; i++ {
		entry := board[i]
		log.Printf("   %d. %s (%s) - score: %.2f, VOR: %.2f", entry.Rank, entry.Name, entry.Position, entry.FantasyScore, entry.VOR)
	}

	if verbose && len(board) > 0 {
		avg := 0.0
		for _, entry := range board {
			avg += entry.FantasyScore
		}
		avg /= float64(len(board))

		log.Printf(`score statistics:
   Average: %.2f
   Maximum: %.2f
   Minimum: %.2f
`, avg, board[0].FantasyScore, board[len(board)-1].FantasyScore)
	}
}

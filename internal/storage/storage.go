package storage

// Storage is the submission journal: one record per executed call batch.
// It is write-mostly history and never feeds raffle views.
type Storage interface {
	RecordSubmission(submission *Submission) error
	UpdateSubmission(submission *Submission) error

	GetSubmission(id int64) (*Submission, error)
	GetSubmissions(limit int) ([]*Submission, error)
	GetSubmissionsByRaffle(raffleID uint64) ([]*Submission, error)
	GetPendingSubmissions() ([]*Submission, error)

	Close() error
}

type ActionType = string

const (
	CreateRaffleActionType ActionType = "create_raffle"
	BuyTicketActionType    ActionType = "buy_ticket"
	DrawWinnerActionType   ActionType = "draw_winner"
	ClaimPrizeActionType   ActionType = "claim_prize"
)

type SubmissionStatus = string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionConfirmed SubmissionStatus = "confirmed"
	SubmissionFailed    SubmissionStatus = "failed"
)

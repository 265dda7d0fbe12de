package certificate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/excel-with-hussain/excel-lms/internal/progress"
)

var (
	ErrNotEligible   = errors.New("course not complete")
	ErrAlreadyIssued = errors.New("certificate already issued")
	ErrNotFound      = errors.New("certificate not found")
)

// Certificate is minted once per user and never updated or deleted.
type Certificate struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	CertificateNumber string `json:"certificate_number"`
	IssuedAt          int64  `json:"issued_at"`
}

// StatsSource supplies the aggregate counts eligibility is derived from.
type StatsSource interface {
	GetProgressStats(ctx context.Context, userID string) (progress.Stats, error)
}

// Store persists certificates. Insert must fail with ErrAlreadyIssued when a
// row for the user exists and ErrNumberTaken on a certificate_number
// collision; both are backed by unique indexes, not re-checked here.
type Store interface {
	Insert(ctx context.Context, c Certificate) (Certificate, error)
	GetByUser(ctx context.Context, userID string) (Certificate, error)
}

type Issuer struct {
	stats StatsSource
	store Store
}

func NewIssuer(stats StatsSource, store Store) *Issuer {
	return &Issuer{stats: stats, store: store}
}

// CheckEligibility requires every lesson completed and every quiz passed.
// Strict count equality, not progress == 100, so percentage rounding can
// never grant a certificate early; an empty catalog is never "complete".
func (i *Issuer) CheckEligibility(ctx context.Context, userID string) (bool, error) {
	st, err := i.stats.GetProgressStats(ctx, userID)
	if err != nil {
		return false, err
	}
	return Eligible(st), nil
}

func Eligible(st progress.Stats) bool {
	return st.CompletedLessons == st.TotalLessons &&
		st.PassedQuizzes == st.TotalQuizzes &&
		st.TotalLessons > 0 &&
		st.TotalQuizzes > 0
}

// Generate mints the certificate for an eligible user. The random number
// suffix can collide, so the insert retries with a fresh number a few times;
// a duplicate user surfaces as ErrAlreadyIssued from the store.
func (i *Issuer) Generate(ctx context.Context, userID string) (Certificate, error) {
	ok, err := i.CheckEligibility(ctx, userID)
	if err != nil {
		return Certificate{}, err
	}
	if !ok {
		return Certificate{}, ErrNotEligible
	}

	for attempt := 0; attempt < 5; attempt++ {
		c, err := i.store.Insert(ctx, Certificate{
			UserID:            userID,
			CertificateNumber: NewNumber(time.Now()),
		})
		if errors.Is(err, ErrNumberTaken) {
			continue
		}
		return c, err
	}
	return Certificate{}, errors.New("certificate number space exhausted")
}

var ErrNumberTaken = errors.New("certificate number taken")

const numberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewNumber formats EXCEL-{year}-{6 uppercase alphanumerics}.
func NewNumber(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = numberAlphabet[rand.Intn(len(numberAlphabet))]
	}
	return fmt.Sprintf("EXCEL-%d-%s", now.Year(), suffix)
}

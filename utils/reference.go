package utils

import (
	"fmt"
	"time"

	hashids "github.com/speps/go-hashids/v2"
)

// RequestReference generates external request identifiers. The bill
// aggregator rejects request ids that do not begin with a YYYYMMDDHHMM
// timestamp in Lagos time; the hashid suffix keeps ids unique so the same
// generator also serves as the idempotency-key source for collections.
type RequestReference struct {
	h   *hashids.HashID
	loc *time.Location
}

func NewRequestReference(salt string) (*RequestReference, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 12
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("could not initialise hashid generator: %w", err)
	}

	loc, err := time.LoadLocation("Africa/Lagos")
	if err != nil {
		// Lagos is UTC+1 all year
		loc = time.FixedZone("WAT", 60*60)
	}

	return &RequestReference{h: h, loc: loc}, nil
}

// Generate returns a date-prefixed reference for the given sequence number.
func (r *RequestReference) Generate(seq int64) (string, error) {
	now := time.Now().In(r.loc)
	suffix, err := r.h.EncodeInt64([]int64{seq, now.UnixNano() % 1_000_000})
	if err != nil {
		return "", fmt.Errorf("could not encode request reference: %w", err)
	}
	return now.Format("200601021504") + suffix, nil
}

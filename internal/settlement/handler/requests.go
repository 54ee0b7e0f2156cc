package handler

import (
	"net/url"
	"strconv"

	dErrors "consortium/pkg/domain-errors"
)

// ReportRequest selects the block range to settle or preview. Both bounds
// are required and inclusive.
type ReportRequest struct {
	FromBlockHeight *int64 `json:"from_block_height"`
	ToBlockHeight   *int64 `json:"to_block_height"`
}

func (r *ReportRequest) Validate() error {
	if r.FromBlockHeight == nil {
		return dErrors.New(dErrors.CodeValidation, "from_block_height is required")
	}
	if r.ToBlockHeight == nil {
		return dErrors.New(dErrors.CodeValidation, "to_block_height is required")
	}
	return nil
}

// rangeQuery reads an optional from/to pair from the query string.
// ok is false when neither bound is present.
func rangeQuery(q url.Values) (from, to int64, ok bool, err error) {
	rawFrom, rawTo := q.Get("from_block_height"), q.Get("to_block_height")
	if rawFrom == "" && rawTo == "" {
		return 0, 0, false, nil
	}
	if rawFrom == "" || rawTo == "" {
		return 0, 0, false, dErrors.New(dErrors.CodeValidation, "from_block_height and to_block_height must be given together")
	}
	if from, err = strconv.ParseInt(rawFrom, 10, 64); err != nil {
		return 0, 0, false, dErrors.New(dErrors.CodeValidation, "from_block_height must be an integer")
	}
	if to, err = strconv.ParseInt(rawTo, 10, 64); err != nil {
		return 0, 0, false, dErrors.New(dErrors.CodeValidation, "to_block_height must be an integer")
	}
	return from, to, true, nil
}

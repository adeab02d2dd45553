package api

import (
	"encoding/json"

	"hrdash/internal/model"
)

// The list endpoint has gone through several backend revisions and the
// deployed fleet still answers in any of four shapes:
//
//	{"resume_data": [...], "total_count": n, "filtered_count": n}
//	{"resumes": [...], "totalCount": n}          (or "total_count")
//	{"data": [...], "total_count": n}
//	[...]                                        (bare array)
//
// normalizeListResponse folds them all into ListResult. Anything else is
// ErrBadShape, never silently treated as empty.
func normalizeListResponse(body []byte) (ListResult, error) {
	// Bare array first.
	var bare []model.ProfileRecord
	if err := json.Unmarshal(body, &bare); err == nil {
		return ListResult{Records: bare, TotalCount: len(bare), FilteredCount: len(bare)}, nil
	}

	var envelope struct {
		ResumeData    []model.ProfileRecord `json:"resume_data"`
		Resumes       []model.ProfileRecord `json:"resumes"`
		Data          []model.ProfileRecord `json:"data"`
		TotalCount    *int                  `json:"total_count"`
		TotalCountAlt *int                  `json:"totalCount"`
		FilteredCount *int                  `json:"filtered_count"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ListResult{}, ErrBadShape
	}

	var records []model.ProfileRecord
	switch {
	case envelope.ResumeData != nil:
		records = envelope.ResumeData
	case envelope.Resumes != nil:
		records = envelope.Resumes
	case envelope.Data != nil:
		records = envelope.Data
	default:
		return ListResult{}, ErrBadShape
	}

	total := len(records)
	if envelope.TotalCount != nil {
		total = *envelope.TotalCount
	} else if envelope.TotalCountAlt != nil {
		total = *envelope.TotalCountAlt
	}
	filtered := total
	if envelope.FilteredCount != nil {
		filtered = *envelope.FilteredCount
	}
	return ListResult{Records: records, TotalCount: total, FilteredCount: filtered}, nil
}

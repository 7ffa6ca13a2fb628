package main

import (
	"net/url"
	"strconv"
	"strings"
)

// Default pagination values applied when the request does
// not carry usable pageNumber/pageSize parameters.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// BookQueryParameters is the value object built once per read request.
// Empty filter fields mean the filter is not applied. It is discarded
// after the query pipeline executed.
type BookQueryParameters struct {
	Title      string
	Author     string
	Genre      string
	PageNumber int
	PageSize   int
	SortBy     string
}

// BookResult is the shape returned by the query pipeline. TotalCount is
// the size of the whole filtered set, not of the returned page.
type BookResult struct {
	Books      []Book `json:"items"`
	TotalCount int    `json:"totalCount"`
}

// ParseBookQueryParameters builds query parameters from the raw url
// values. Keys are matched case-insensitively and unknown keys are
// ignored. Integer parameters keep their defaults when unparsable.
func ParseBookQueryParameters(values url.Values) BookQueryParameters {
	params := BookQueryParameters{
		PageNumber: DefaultPageNumber,
		PageSize:   DefaultPageSize,
	}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		value := vals[0]
		switch strings.ToLower(key) {
		case "title":
			params.Title = value
		case "author":
			params.Author = value
		case "genre":
			params.Genre = value
		case "pagenumber":
			if n, err := strconv.Atoi(value); err == nil {
				params.PageNumber = n
			}
		case "pagesize":
			if n, err := strconv.Atoi(value); err == nil {
				params.PageSize = n
			}
		case "sortby":
			params.SortBy = value
		}
	}
	return params
}

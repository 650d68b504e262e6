package app

import "strings"

const WordsPerMinute = 200

// ReadingTime estimates minutes to read body: ceil(words / WordsPerMinute).
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

type Page struct {
	Page       int
	Limit      int
	TotalPages int
	Offset     int
}

// Paginate clamps page into [1, totalPages]. With no results the only page is 1.
func Paginate(total int64, page, limit int) Page {
	if limit <= 0 {
		limit = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return Page{
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Offset:     (page - 1) * limit,
	}
}

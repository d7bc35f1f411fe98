package appointment

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxNotesLength = 1000

var ErrNotesTooLong = errors.New("notes exceed maximum length")

type Notes struct {
	value string
}

func NewNotes(value string) (Notes, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > MaxNotesLength {
		return Notes{}, ErrNotesTooLong
	}
	return Notes{value: value}, nil
}

func (n Notes) String() string {
	return n.value
}

func (n Notes) IsEmpty() bool {
	return n.value == ""
}

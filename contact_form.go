package main

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSubmission = errors.New("invalid contact submission")

const maxMessageBytes = 5000

type submission struct {
	Name    string
	Email   string
	Message string
}

func parseSubmission(name, email, message string) (submission, error) {
	s := submission{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Message: strings.TrimSpace(message),
	}

	switch {
	case s.Name == "":
		return s, fmt.Errorf("%w: name is required", ErrInvalidSubmission)
	case s.Email == "" || !strings.Contains(s.Email, "@"):
		return s, fmt.Errorf("%w: a valid email is required", ErrInvalidSubmission)
	case s.Message == "":
		return s, fmt.Errorf("%w: message is required", ErrInvalidSubmission)
	}

	if len(s.Message) > maxMessageBytes {
		s.Message = truncateUTF8(s.Message, maxMessageBytes)
	}
	return s, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

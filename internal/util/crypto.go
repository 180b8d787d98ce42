package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const experimentNumberAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

func GenerateNChar(n int) (string, error) {
	id, err := gonanoid.New(n)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GenerateExperimentNumber returns a human friendly lab reference, e.g. "EXP-7KQ2M9XA".
func GenerateExperimentNumber() (string, error) {
	id, err := gonanoid.Generate(experimentNumberAlphabet, 8)
	if err != nil {
		return "", err
	}
	return "EXP-" + id, nil
}

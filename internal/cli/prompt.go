package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/agbru/quadcalc/internal/errors"
)

// Input is the raw text of the three request values. Empty fields are
// prompted for by ReadRequest.
type Input struct {
	Lower   string
	Upper   string
	Samples string
}

// ParsedInput is a request whose values have been converted.
type ParsedInput struct {
	Lower   float64
	Upper   float64
	Samples uint64
}

var prompts = map[string]string{
	apperrors.FieldLowerBound:  "Enter the lower bound: ",
	apperrors.FieldUpperBound:  "Enter the upper bound: ",
	apperrors.FieldSampleCount: "Enter the number of samples: ",
}

// ReadRequest completes preset from in, one line per missing value, and
// parses the values in order: lower bound, upper bound, sample count. The
// first value that cannot be read or parsed stops the sequence with an
// apperrors.ParseError naming it.
func ReadRequest(in io.Reader, out io.Writer, preset Input) (ParsedInput, error) {
	reader := bufio.NewReader(in)
	read := func(field, preset string) (string, error) {
		if preset != "" {
			return preset, nil
		}
		fmt.Fprint(out, prompts[field])
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", apperrors.ParseError{Field: field, Cause: err}
		}
		return line, nil
	}

	var req ParsedInput
	text, err := read(apperrors.FieldLowerBound, preset.Lower)
	if err != nil {
		return req, err
	}
	if req.Lower, err = parseBound(apperrors.FieldLowerBound, text); err != nil {
		return req, err
	}

	if text, err = read(apperrors.FieldUpperBound, preset.Upper); err != nil {
		return req, err
	}
	if req.Upper, err = parseBound(apperrors.FieldUpperBound, text); err != nil {
		return req, err
	}

	if text, err = read(apperrors.FieldSampleCount, preset.Samples); err != nil {
		return req, err
	}
	req.Samples, err = parseSamples(text)
	return req, err
}

// ParseInput converts all three values without prompting.
func ParseInput(in Input) (ParsedInput, error) {
	var (
		req ParsedInput
		err error
	)
	if req.Lower, err = parseBound(apperrors.FieldLowerBound, in.Lower); err != nil {
		return req, err
	}
	if req.Upper, err = parseBound(apperrors.FieldUpperBound, in.Upper); err != nil {
		return req, err
	}
	req.Samples, err = parseSamples(in.Samples)
	return req, err
}

func parseBound(field, text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, apperrors.ParseError{Field: field, Input: trimmed, Cause: unwrapNumError(err)}
	}
	return v, nil
}

func parseSamples(text string) (uint64, error) {
	trimmed := strings.TrimSpace(text)
	v, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, apperrors.ParseError{Field: apperrors.FieldSampleCount, Input: trimmed, Cause: unwrapNumError(err)}
	}
	return v, nil
}

// unwrapNumError drops the strconv prefix, which repeats the input.
func unwrapNumError(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return numErr.Err
	}
	return err
}

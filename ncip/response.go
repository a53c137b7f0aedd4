package ncip

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/jrsteele09/go-library-checkin/internal/utils"
)

// Defaults for elements missing from a response.
const (
	UnknownProblemType = "Unknown"
	NoProblemDetail    = "No detail"
	UnknownRouting     = "Unknown"
)

// ProblemError is an NCIP Problem returned in place of a successful check-in.
type ProblemError struct {
	Type   string
	Detail string
}

func (e *ProblemError) Error() string {
	return fmt.Sprintf("Check-in failed with problem: Problem Type: %s, Detail: %s", e.Type, e.Detail)
}

type problem struct {
	ProblemType   *string `xml:"ProblemType"`
	ProblemDetail *string `xml:"ProblemDetail"`
}

type response struct {
	problem             *problem
	routingInstructions *string
}

// parseResponse finds the first Problem and the first RoutingInstructions in the
// NCIP namespace, at any depth.
func parseResponse(raw []byte) (*response, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	var (
		res     response
		sawRoot bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if start.Name.Space != Namespace {
			continue
		}

		switch start.Name.Local {
		case "Problem":
			if res.problem != nil {
				continue
			}
			var p problem
			if err := dec.DecodeElement(&p, &start); err != nil {
				return nil, err
			}
			res.problem = &p
		case "RoutingInstructions":
			if res.routingInstructions != nil {
				continue
			}
			var text string
			if err := dec.DecodeElement(&text, &start); err != nil {
				return nil, err
			}
			res.routingInstructions = &text
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("no root element")
	}
	return &res, nil
}

func (r *response) problemError() *ProblemError {
	if r.problem == nil {
		return nil
	}
	return &ProblemError{
		Type:   utils.TextOr(r.problem.ProblemType, UnknownProblemType),
		Detail: utils.TextOr(r.problem.ProblemDetail, NoProblemDetail),
	}
}

func (r *response) routing() string {
	return utils.TextOr(r.routingInstructions, UnknownRouting)
}

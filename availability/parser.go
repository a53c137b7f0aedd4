package availability

import (
	"bytes"
	"encoding/xml"
	"io"

	apperrors "github.com/jrsteele09/go-library-checkin/internal/errors"
	"github.com/jrsteele09/go-library-checkin/internal/utils"
	"github.com/pkg/errors"
)

var (
	ErrNoHoldings      = errors.New("no holdings in response")
	ErrBarcodeNotFound = errors.New("item barcode not found")
)

// opacRecord is one recordData payload. Tags carry no namespace so they match
// however the service qualifies the embedded record.
type opacRecord struct {
	Bibliographic marcRecord `xml:"bibliographicRecord>record"`
	Holdings      []holding  `xml:"holdings>holding"`
}

type marcRecord struct {
	DataFields []dataField `xml:"datafield"`
}

type dataField struct {
	Tag       string     `xml:"tag,attr"`
	SubFields []subField `xml:"subfield"`
}

type subField struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

type holding struct {
	CallNumber   *string       `xml:"callNumber"`
	Circulations []circulation `xml:"circulations>circulation"`
}

type circulation struct {
	AvailableNow      *availableNow `xml:"availableNow"`
	ItemID            *string       `xml:"itemId"`
	ReasonUnavailable *string       `xml:"reasonUnavailable"`
	AvailabilityDate  *string       `xml:"availabilityDate"`
}

type availableNow struct {
	Value string `xml:"value,attr"`
}

// ParseAvailability extracts the status of the copy whose itemId equals barcode.
// The first matching circulation in document order wins.
func ParseAvailability(raw []byte, barcode string) (*Status, error) {
	const op = "availability.ParseAvailability"

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, apperrors.WrapMsg(apperrors.KindParse, op, err, "failed to parse XML")
	}

	var holdingCount int
	for _, rec := range records {
		holdingCount += len(rec.Holdings)
	}
	if holdingCount == 0 {
		return nil, apperrors.Wrap(apperrors.KindParse, op, ErrNoHoldings)
	}

	for _, rec := range records {
		for _, h := range rec.Holdings {
			for _, circ := range h.Circulations {
				if circ.ItemID == nil || *circ.ItemID != barcode {
					continue
				}
				status := statusOf(circ)
				status.Barcode = barcode
				status.Title = firstSubfield(records, "245", "a", UnknownTitle)
				status.Author = author(records)
				status.CallNumber = utils.TextOr(h.CallNumber, NotAvailable)
				return status, nil
			}
		}
	}
	return nil, apperrors.Wrap(apperrors.KindParse, op, ErrBarcodeNotFound)
}

// decodeRecords returns every opacRecord in the document, wherever it is nested.
func decodeRecords(raw []byte) ([]opacRecord, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	var (
		records []opacRecord
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
		if start.Name.Local != "opacRecord" {
			continue
		}

		var rec opacRecord
		if err := dec.DecodeElement(&rec, &start); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if !sawRoot {
		return nil, errors.New("no root element")
	}
	return records, nil
}

func statusOf(circ circulation) *Status {
	if circ.AvailableNow != nil && circ.AvailableNow.Value == "1" {
		return &Status{State: StateAvailable}
	}

	reason := utils.TextOr(circ.ReasonUnavailable, NoReason)
	date := utils.TextOr(circ.AvailabilityDate, NotAvailable)
	return &Status{
		State:             StateUnavailable,
		ReasonUnavailable: &reason,
		AvailabilityDate:  &date,
		CheckedOut:        isCheckedOut(reason),
	}
}

// author prefers the main entry (100) and falls back to the first added entry (700).
func author(records []opacRecord) string {
	if name := firstSubfield(records, "100", "a", ""); name != "" {
		return name
	}
	return firstSubfield(records, "700", "a", UnknownAuthor)
}

func firstSubfield(records []opacRecord, tag, code, fallback string) string {
	for _, rec := range records {
		for _, field := range rec.Bibliographic.DataFields {
			if field.Tag != tag {
				continue
			}
			for _, sub := range field.SubFields {
				if sub.Code == code {
					return utils.TextOr(&sub.Value, fallback)
				}
			}
		}
	}
	return fallback
}

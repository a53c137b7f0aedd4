package ncip

import (
	"encoding/xml"
)

const (
	// Namespace is the NCIP 2.x message namespace.
	Namespace = "http://www.niso.org/2008/ncip"

	schemaInstance = "http://www.w3.org/2001/XMLSchema-instance"
	schemaURL      = "http://www.niso.org/schemas/ncip/v2_01/ncip_v2_01.xsd"
)

// checkInMessage is an NCIPMessage carrying a single CheckInItem request. The
// prefixed attributes are written verbatim so the ncip prefix matches the
// namespace declarations the OCLC endpoint expects.
type checkInMessage struct {
	XMLName        xml.Name    `xml:"NCIPMessage"`
	Xmlns          string      `xml:"xmlns,attr"`
	XmlnsXsi       string      `xml:"xmlns:xsi,attr"`
	XmlnsNcip      string      `xml:"xmlns:ncip,attr"`
	SchemaLocation string      `xml:"xsi:schemaLocation,attr"`
	Version        string      `xml:"ncip:version,attr"`
	CheckInItem    checkInItem `xml:"CheckInItem"`
}

type checkInItem struct {
	InitiationHeader initiationHeader `xml:"InitiationHeader"`
	ItemID           itemID           `xml:"ItemId"`
}

type initiationHeader struct {
	FromAgencyID           agencyRef    `xml:"FromAgencyId"`
	ToAgencyID             agencyRef    `xml:"ToAgencyId"`
	ApplicationProfileType schemedValue `xml:"ApplicationProfileType"`
}

type agencyRef struct {
	AgencyID schemedValue `xml:"AgencyId"`
}

type schemedValue struct {
	Scheme string `xml:"ncip:Scheme,attr,omitempty"`
	Value  string `xml:",chardata"`
}

type itemID struct {
	AgencyID            string `xml:"AgencyId"`
	ItemIdentifierValue string `xml:"ItemIdentifierValue"`
}

// buildCheckIn renders the CheckInItem request for barcode.
func buildCheckIn(cfg Config, barcode string) ([]byte, error) {
	msg := checkInMessage{
		Xmlns:          Namespace,
		XmlnsXsi:       schemaInstance,
		XmlnsNcip:      Namespace,
		SchemaLocation: Namespace + " " + schemaURL,
		Version:        schemaURL,
		CheckInItem: checkInItem{
			InitiationHeader: initiationHeader{
				FromAgencyID: agencyRef{AgencyID: schemedValue{Scheme: cfg.AgencyScheme, Value: cfg.RegistryID}},
				ToAgencyID:   agencyRef{AgencyID: schemedValue{Value: cfg.RegistryID}},
				ApplicationProfileType: schemedValue{
					Scheme: cfg.ProfileScheme,
					Value:  cfg.Profile,
				},
			},
			ItemID: itemID{
				AgencyID:            cfg.InstitutionID,
				ItemIdentifierValue: barcode,
			},
		},
	}

	body, err := xml.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
